package rpc

// toolCatalog describes the tool set answered to tools/list. Argument schemas
// are JSON Schema fragments the orchestrator validates against.
func toolCatalog() []Tool {
	return []Tool{
		{
			Name:        "publish_photo_post",
			Description: "Publishes a photo to Instagram.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"image_url": map[string]any{"type": "string"},
					"caption":   map[string]any{"type": "string"},
				},
				"required": []string{"image_url", "caption"},
			},
		},
		{
			Name:        "get_recent_comments",
			Description: "Fetches comments from the latest post.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"limit": map[string]any{"type": "integer", "default": 5},
				},
			},
		},
		{
			Name:        "reply_to_comment",
			Description: "Replies to a specific comment.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"comment_id": map[string]any{"type": "string"},
					"message":    map[string]any{"type": "string"},
				},
				"required": []string{"comment_id", "message"},
			},
		},
		{
			Name:        "get_account_insights",
			Description: "Fetches account metrics.",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "fetch_google_images",
			Description: "Fetches image URLs from Google Custom Search API and downloads them.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":      map[string]any{"type": "string"},
					"num_images": map[string]any{"type": "integer", "default": 5},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "create_quote_image",
			Description: "Fetches a background image and overlays a quote on it professionally.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"search_query": map[string]any{"type": "string", "description": "Keywords to find a suitable background image."},
					"quote":        map[string]any{"type": "string", "description": "The quote text to overlay."},
					"author":       map[string]any{"type": "string", "description": "Optional author of the quote."},
				},
				"required": []string{"search_query", "quote"},
			},
		},
	}
}
