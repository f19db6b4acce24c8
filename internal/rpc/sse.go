package rpc

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// writeEvent marshals resp and writes it as a single SSE message event,
// flushing so the orchestrator sees the frame immediately.
func writeEvent(w http.ResponseWriter, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("rpc: marshal response: %w", err)
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := fmt.Fprintf(w, "event: message\ndata: %s\n\n", data); err != nil {
		return fmt.Errorf("rpc: write event: %w", err)
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}
