// Package rpc implements the JSON-RPC-over-SSE endpoint the orchestrator
// speaks: an initialize handshake, tool discovery, and tool invocation, each
// answered as a single server-sent event.
package rpc

import "encoding/json"

// Request is the JSON-RPC 2.0 request envelope. The ID is kept raw and echoed
// back untouched, so numeric and string IDs both round-trip.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  Params          `json:"params"`
}

// Params carries the tool name and its arguments for tools/call.
type Params struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Response is the JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

// InitializeResult answers the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ServerInfo identifies this server to the orchestrator.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolsResult answers tools/list.
type ToolsResult struct {
	Tools []Tool `json:"tools"`
}

// Tool describes one invocable tool and its argument schema.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// CallResult answers tools/call: the tool payload is JSON-encoded into a
// single text content item.
type CallResult struct {
	Content []ContentItem `json:"content"`
}

// ContentItem is one piece of tool output.
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// argString extracts a string argument, or "" when absent or mistyped.
func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argInt extracts an integer argument, tolerating the float64 that
// encoding/json produces for JSON numbers.
func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
