// Package client is the Go side of the IDE: a typed HTTP client for the
// engine API, a local mirror of the server's entities, and a syncer that
// feeds one into the other.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aide-studio/engine/internal/api/types"
	"github.com/aide-studio/engine/internal/filetree"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/openrouter"
	appErr "github.com/aide-studio/engine/pkg/errors"
)

// Client calls the engine HTTP API. Inputs are checked against the same
// model schemas the server uses before anything is sent.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the engine at baseURL, e.g. http://localhost:5000.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	return call[[]models.Project](ctx, c, http.MethodGet, "/api/projects", nil)
}

func (c *Client) GetProject(ctx context.Context, id string) (models.Project, error) {
	return call[models.Project](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil)
}

func (c *Client) CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	if err := in.Validate(); err != nil {
		return models.Project{}, err
	}
	return call[models.Project](ctx, c, http.MethodPost, "/api/projects", in)
}

func (c *Client) UpdateProject(ctx context.Context, id string, patch models.UpdateProjectInput) (models.Project, error) {
	if err := patch.Validate(); err != nil {
		return models.Project{}, err
	}
	return call[models.Project](ctx, c, http.MethodPatch, "/api/projects/"+url.PathEscape(id), patch)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListFiles(ctx context.Context, projectID string) ([]models.File, error) {
	return call[[]models.File](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/files", nil)
}

// FileTree fetches the server-built tree for a project.
func (c *Client) FileTree(ctx context.Context, projectID string) (filetree.Tree, error) {
	return call[filetree.Tree](ctx, c, http.MethodGet, "/api/projects/"+url.PathEscape(projectID)+"/tree", nil)
}

func (c *Client) GetFile(ctx context.Context, id string) (models.File, error) {
	return call[models.File](ctx, c, http.MethodGet, "/api/files/"+url.PathEscape(id), nil)
}

func (c *Client) CreateFile(ctx context.Context, in models.CreateFileInput) (models.File, error) {
	if err := in.Validate(); err != nil {
		return models.File{}, err
	}
	return call[models.File](ctx, c, http.MethodPost, "/api/files", in)
}

func (c *Client) UpdateFile(ctx context.Context, id string, patch models.UpdateFileInput) (models.File, error) {
	if err := patch.Validate(); err != nil {
		return models.File{}, err
	}
	return call[models.File](ctx, c, http.MethodPatch, "/api/files/"+url.PathEscape(id), patch)
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ChatHistory(ctx context.Context, projectID string, mode models.Mode) ([]models.ChatMessage, error) {
	path := "/api/projects/" + url.PathEscape(projectID) + "/chat/" + url.PathEscape(string(mode))
	return call[[]models.ChatMessage](ctx, c, http.MethodGet, path, nil)
}

func (c *Client) PostChatMessage(ctx context.Context, in models.CreateChatMessageInput) (models.ChatMessage, error) {
	if err := in.Validate(); err != nil {
		return models.ChatMessage{}, err
	}
	return call[models.ChatMessage](ctx, c, http.MethodPost, "/api/chat", in)
}

// Connector returns nil when the server has never been configured.
func (c *Client) Connector(ctx context.Context) (*models.ConnectorConfig, error) {
	var out models.ConnectorConfig
	if err := c.do(ctx, http.MethodGet, "/api/openrouter/config", nil, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

func (c *Client) UpdateConnector(ctx context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error) {
	if err := patch.Validate(); err != nil {
		return models.ConnectorConfig{}, err
	}
	return call[models.ConnectorConfig](ctx, c, http.MethodPatch, "/api/openrouter/config", patch)
}

// Chat sends messages through the server's OpenRouter proxy.
func (c *Client) Chat(ctx context.Context, messages []openrouter.Message, options map[string]any) (openrouter.ChatResponse, error) {
	raw, err := json.Marshal(messages)
	if err != nil {
		return openrouter.ChatResponse{}, appErr.Wrap(err, appErr.CodeInvalid, "encode messages")
	}
	req := types.ChatProxyRequest{Messages: raw, Options: options}
	return call[openrouter.ChatResponse](ctx, c, http.MethodPost, "/api/openrouter/chat", req)
}

func (c *Client) Models(ctx context.Context) (openrouter.ModelList, error) {
	return call[openrouter.ModelList](ctx, c, http.MethodGet, "/api/openrouter/models", nil)
}

// TestConnection reports whether a minimal chat round trip succeeds.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.Chat(ctx, []openrouter.Message{{Role: models.RoleUser, Content: "Hello"}}, map[string]any{"max_tokens": 10})
	return err == nil
}

func call[T any](ctx context.Context, c *Client, method, path string, in any) (T, error) {
	var out T
	err := c.do(ctx, method, path, in, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return appErr.Wrap(err, appErr.CodeInvalid, "encode request")
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "decode response")
	}
	return nil
}

// decodeError turns an {error, code} body back into an AppError carrying
// the HTTP status in its metadata.
func decodeError(resp *http.Response) error {
	var body types.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)
	if body.Error == "" {
		body.Error = fmt.Sprintf("request failed: %s", resp.Status)
	}
	code := appErr.Code(body.Code)
	if code == "" {
		switch resp.StatusCode {
		case http.StatusBadRequest:
			code = appErr.CodeInvalid
		case http.StatusNotFound:
			code = appErr.CodeNotFound
		default:
			code = appErr.CodeUnknown
		}
	}
	return appErr.New(code, body.Error).WithMeta("status", resp.StatusCode)
}
