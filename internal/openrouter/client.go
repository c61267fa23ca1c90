// Package openrouter talks to the OpenRouter HTTP API. Responses are returned
// as raw JSON so the API layer can relay them unchanged.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appErr "github.com/aide-studio/engine/pkg/errors"
)

const maxBodyBytes = 16 << 20

type Config struct {
	BaseURL string
	Referer string
	Title   string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: hc}
}

// ChatCompletion posts {model, messages} with options merged over it and
// returns the upstream body verbatim.
func (c *Client) ChatCompletion(ctx context.Context, apiKey, model string, messages json.RawMessage, options map[string]any) (json.RawMessage, error) {
	body := map[string]any{"model": model}
	if len(messages) > 0 {
		body["messages"] = messages
	}
	for k, v := range options {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "invalid chat payload")
	}

	return c.do(ctx, http.MethodPost, "/chat/completions", apiKey, payload)
}

// ListModels returns the upstream model catalogue verbatim.
func (c *Client) ListModels(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/models", "", nil)
}

func (c *Client) do(ctx context.Context, method, path, apiKey string, payload []byte) (json.RawMessage, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "build upstream request failed")
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("HTTP-Referer", c.cfg.Referer)
	req.Header.Set("X-Title", c.cfg.Title)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUpstream, "upstream request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeUpstream, "read upstream response failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, appErr.New(appErr.CodeUpstream, fmt.Sprintf("OpenRouter API error: %d", resp.StatusCode)).
			WithMeta("status", resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, appErr.New(appErr.CodeUpstream, "upstream returned invalid json")
	}
	return raw, nil
}
