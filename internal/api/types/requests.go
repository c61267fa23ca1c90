package types

import "encoding/json"

// ChatProxyRequest is the body of POST /api/openrouter/chat. Messages are
// forwarded untouched; Options are merged over the outbound request body.
type ChatProxyRequest struct {
	Messages json.RawMessage `json:"messages"`
	Options  map[string]any  `json:"options,omitempty"`
}
