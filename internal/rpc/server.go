package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"socialexec/internal/infra"
	"socialexec/internal/providers/graph"
	"socialexec/internal/providers/search"
)

const (
	serverName      = "social-executor"
	serverVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

type graphAPI interface {
	PublishPhoto(ctx context.Context, imageURL, caption string) (map[string]any, error)
	RecentComments(ctx context.Context, limit int) ([]graph.Comment, error)
	ReplyToComment(ctx context.Context, commentID, message string) (map[string]any, error)
	AccountInsights(ctx context.Context) (*graph.Insights, error)
}

type imageSearcher interface {
	ImageURLs(ctx context.Context, query string, num int) ([]string, error)
}

type imageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type fileStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
	Path(key string) string
}

type quoteComposer interface {
	Compose(imageBytes []byte, quote, author string) ([]byte, error)
}

// Deps bundles the collaborators a Server dispatches tool calls to.
type Deps struct {
	Graph      graphAPI
	Search     imageSearcher
	Fetcher    imageFetcher
	Downloads  fileStore
	Posts      fileStore
	Compositor quoteComposer
	Logger     infra.Logger
}

// Server answers the /mcp endpoint: it decodes the JSON-RPC envelope,
// dispatches, and writes the response as one SSE event.
type Server struct {
	deps Deps
	log  infra.Logger
	now  func() time.Time
}

// NewServer wires a Server from its collaborators.
func NewServer(deps Deps) *Server {
	return &Server{deps: deps, log: deps.Logger, now: time.Now}
}

// Health is a liveness probe, mounted outside the authenticated group.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// HandleMCP serves one JSON-RPC request.
func (s *Server) HandleMCP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeResponse(w, Response{
			JSONRPC: "2.0",
			Error:   &Error{Code: codeInternalError, Message: err.Error()},
		})
		return
	}

	resp := Response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]any{},
			ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
		}

	case "tools/list":
		resp.Result = ToolsResult{Tools: toolCatalog()}

	case "tools/call":
		payload := s.callTool(r.Context(), req.Params.Name, req.Params.Arguments)
		text, err := json.Marshal(payload)
		if err != nil {
			resp.Result = nil
			resp.Error = &Error{Code: codeInternalError, Message: err.Error()}
			break
		}
		resp.Result = CallResult{Content: []ContentItem{{Type: "text", Text: string(text)}}}

	default:
		resp.Error = &Error{Code: codeMethodNotFound, Message: "method not found: " + req.Method}
	}

	s.writeResponse(w, resp)
}

func (s *Server) writeResponse(w http.ResponseWriter, resp Response) {
	if err := writeEvent(w, resp); err != nil {
		s.log.Error().Err(err).Msg("failed to write rpc response")
	}
}

// callTool executes one tool and returns its result payload. Tool failures
// become status payloads the orchestrator can inspect, never transport errors.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) any {
	s.log.Info().Str("tool", name).Msg("tool call")

	switch name {
	case "publish_photo_post":
		result, err := s.deps.Graph.PublishPhoto(ctx, argString(args, "image_url"), argString(args, "caption"))
		if err != nil {
			return apiError(err)
		}
		return result

	case "get_recent_comments":
		comments, err := s.deps.Graph.RecentComments(ctx, argInt(args, "limit", 5))
		if errors.Is(err, graph.ErrNoPosts) {
			return map[string]any{"status": "no_posts_found"}
		}
		if err != nil {
			return apiError(err)
		}
		if comments == nil {
			comments = []graph.Comment{}
		}
		return comments

	case "reply_to_comment":
		result, err := s.deps.Graph.ReplyToComment(ctx, argString(args, "comment_id"), argString(args, "message"))
		if err != nil {
			return apiError(err)
		}
		return result

	case "get_account_insights":
		insights, err := s.deps.Graph.AccountInsights(ctx)
		if err != nil {
			return apiError(err)
		}
		return insights

	case "fetch_google_images":
		return s.fetchGoogleImages(ctx, argString(args, "query"), argInt(args, "num_images", 5))

	case "create_quote_image":
		return s.createQuoteImage(ctx, argString(args, "search_query"), argString(args, "quote"), argString(args, "author"))

	default:
		return map[string]any{"status": "error", "message": "Unknown tool"}
	}
}

type downloadedFile struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	SourceURL string `json:"source_url"`
}

func (s *Server) fetchGoogleImages(ctx context.Context, query string, num int) any {
	urls, err := s.deps.Search.ImageURLs(ctx, query, num)
	if errors.Is(err, search.ErrMissingCredentials) {
		return map[string]any{"status": "CONFIG_ERROR", "message": err.Error()}
	}
	if err != nil {
		return apiError(err)
	}
	if len(urls) == 0 {
		return map[string]any{"status": "no_images_found", "message": "No images found."}
	}

	cleanQuery := strings.ReplaceAll(query, " ", "_")
	files := make([]downloadedFile, 0, len(urls))
	for i, u := range urls {
		data, err := s.deps.Fetcher.Fetch(ctx, u)
		if err != nil {
			s.log.Warn().Str("url", u).Err(err).Msg("failed to download image")
			continue
		}
		filename := fmt.Sprintf("%s_%d.jpg", cleanQuery, i)
		key, err := s.deps.Downloads.Write(ctx, filename, data)
		if err != nil {
			s.log.Warn().Str("filename", filename).Err(err).Msg("failed to store image")
			continue
		}
		files = append(files, downloadedFile{
			Filename:  filename,
			Path:      s.deps.Downloads.Path(key),
			SourceURL: u,
		})
	}

	return map[string]any{
		"status":           "success",
		"downloaded_count": len(files),
		"files":            files,
	}
}

func (s *Server) createQuoteImage(ctx context.Context, searchQuery, quote, author string) any {
	urls, err := s.deps.Search.ImageURLs(ctx, searchQuery, 1)
	if errors.Is(err, search.ErrMissingCredentials) {
		return map[string]any{"status": "CONFIG_ERROR", "message": err.Error()}
	}
	if err != nil {
		return apiError(err)
	}
	if len(urls) == 0 {
		return map[string]any{"status": "error", "message": "No background image found."}
	}

	background, err := s.deps.Fetcher.Fetch(ctx, urls[0])
	if err != nil {
		return toolError(err)
	}
	if _, err := s.deps.Downloads.Write(ctx, "temp_bg.jpg", background); err != nil {
		s.log.Warn().Err(err).Msg("failed to keep background copy")
	}

	composed, err := s.deps.Compositor.Compose(background, quote, author)
	if err != nil {
		return toolError(err)
	}

	filename := fmt.Sprintf("quote_%d.jpg", s.now().Unix())
	key, err := s.deps.Posts.Write(ctx, filename, composed)
	if err != nil {
		return toolError(err)
	}

	return map[string]any{
		"status":             "success",
		"message":            "Quote image created successfully.",
		"final_image_path":   s.deps.Posts.Path(key),
		"original_image_url": urls[0],
	}
}

func apiError(err error) map[string]any {
	return map[string]any{"status": "API_ERROR", "details": err.Error()}
}

func toolError(err error) map[string]any {
	return map[string]any{"status": "ERROR", "details": err.Error()}
}
