package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/openrouter"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
)

// Syncer runs server calls and, only once they succeed, feeds the results
// into the mirror. A failed call leaves the mirror as it was.
type Syncer struct {
	api    *Client
	mirror *Mirror
	dialer *websocket.Dialer
}

func NewSyncer(api *Client, mirror *Mirror) *Syncer {
	return &Syncer{api: api, mirror: mirror, dialer: websocket.DefaultDialer}
}

func (s *Syncer) Mirror() *Mirror { return s.mirror }

func (s *Syncer) Client() *Client { return s.api }

// loading wraps a fetch in the mirror's loading flag.
func (s *Syncer) loading(fn func() error) error {
	s.mirror.SetLoading(true)
	defer s.mirror.SetLoading(false)
	return fn()
}

func (s *Syncer) LoadProjects(ctx context.Context) error {
	return s.loading(func() error {
		items, err := s.api.ListProjects(ctx)
		if err != nil {
			return err
		}
		s.mirror.SetProjects(items)
		return nil
	})
}

// SelectProject makes id the current project and loads its files and the
// chat history for the current mode.
func (s *Syncer) SelectProject(ctx context.Context, id string) error {
	return s.loading(func() error {
		p, err := s.api.GetProject(ctx, id)
		if err != nil {
			return err
		}
		files, err := s.api.ListFiles(ctx, id)
		if err != nil {
			return err
		}
		msgs, err := s.api.ChatHistory(ctx, id, s.mirror.Snapshot().CurrentMode)
		if err != nil {
			return err
		}
		s.mirror.SetCurrentProject(&p)
		s.mirror.SetCurrentFile(nil)
		s.mirror.SetFiles(files)
		s.mirror.SetChatMessages(msgs)
		return nil
	})
}

// SwitchMode changes the current mode and reloads the chat history for it.
func (s *Syncer) SwitchMode(ctx context.Context, mode models.Mode) error {
	if !mode.Valid() {
		return appErr.New(appErr.CodeInvalid, "unknown mode: "+string(mode))
	}
	cur := s.mirror.Snapshot().CurrentProject
	if cur == nil {
		s.mirror.SetCurrentMode(mode)
		return nil
	}
	msgs, err := s.api.ChatHistory(ctx, cur.ID, mode)
	if err != nil {
		return err
	}
	s.mirror.SetCurrentMode(mode)
	s.mirror.SetChatMessages(msgs)
	return nil
}

func (s *Syncer) CreateProject(ctx context.Context, in models.CreateProjectInput) (models.Project, error) {
	p, err := s.api.CreateProject(ctx, in)
	if err != nil {
		return p, err
	}
	s.mirror.AddProject(p)
	return p, nil
}

func (s *Syncer) UpdateProject(ctx context.Context, id string, patch models.UpdateProjectInput) (models.Project, error) {
	p, err := s.api.UpdateProject(ctx, id, patch)
	if err != nil {
		return p, err
	}
	s.mirror.UpdateProject(p)
	return p, nil
}

func (s *Syncer) DeleteProject(ctx context.Context, id string) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.mirror.DeleteProject(id)
	return nil
}

func (s *Syncer) SelectFile(ctx context.Context, id string) error {
	f, err := s.api.GetFile(ctx, id)
	if err != nil {
		return err
	}
	s.mirror.SetCurrentFile(&f)
	return nil
}

func (s *Syncer) CreateFile(ctx context.Context, in models.CreateFileInput) (models.File, error) {
	f, err := s.api.CreateFile(ctx, in)
	if err != nil {
		return f, err
	}
	s.mirror.AddFile(f)
	return f, nil
}

func (s *Syncer) UpdateFile(ctx context.Context, id string, patch models.UpdateFileInput) (models.File, error) {
	f, err := s.api.UpdateFile(ctx, id, patch)
	if err != nil {
		return f, err
	}
	s.mirror.UpdateFile(f)
	return f, nil
}

func (s *Syncer) DeleteFile(ctx context.Context, id string) error {
	if err := s.api.DeleteFile(ctx, id); err != nil {
		return err
	}
	s.mirror.DeleteFile(id)
	return nil
}

// SendMessage stores a user message for the current project and mode.
func (s *Syncer) SendMessage(ctx context.Context, content string) (models.ChatMessage, error) {
	return s.postMessage(ctx, models.RoleUser, content)
}

// Ask stores content as a user message, asks the connector for a reply
// using the mirrored conversation, and stores the reply.
func (s *Syncer) Ask(ctx context.Context, content string) (models.ChatMessage, error) {
	if _, err := s.SendMessage(ctx, content); err != nil {
		return models.ChatMessage{}, err
	}

	history := s.mirror.Snapshot().ChatMessages
	msgs := make([]openrouter.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, openrouter.Message{Role: m.Role, Content: m.Content})
	}
	resp, err := s.api.Chat(ctx, msgs, nil)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return models.ChatMessage{}, appErr.New(appErr.CodeUpstream, "empty completion")
	}
	return s.postMessage(ctx, models.RoleAssistant, resp.Choices[0].Message.Content)
}

func (s *Syncer) postMessage(ctx context.Context, role, content string) (models.ChatMessage, error) {
	snap := s.mirror.Snapshot()
	in := models.CreateChatMessageInput{Mode: string(snap.CurrentMode), Role: role, Content: content}
	if snap.CurrentProject != nil {
		id := snap.CurrentProject.ID
		in.ProjectID = &id
	}
	m, err := s.api.PostChatMessage(ctx, in)
	if err != nil {
		return m, err
	}
	s.mirror.AddChatMessage(m)
	return m, nil
}

func (s *Syncer) LoadConnector(ctx context.Context) error {
	cfg, err := s.api.Connector(ctx)
	if err != nil {
		return err
	}
	s.mirror.SetConnector(cfg)
	return nil
}

func (s *Syncer) UpdateConnector(ctx context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error) {
	cfg, err := s.api.UpdateConnector(ctx, patch)
	if err != nil {
		return cfg, err
	}
	s.mirror.SetConnector(&cfg)
	return cfg, nil
}

func (s *Syncer) TestConnection(ctx context.Context) bool {
	return s.api.TestConnection(ctx)
}

// Follow applies server change events to the mirror until ctx is done or
// the stream fails. When projectID is set only that project's changes are
// delivered.
func (s *Syncer) Follow(ctx context.Context, projectID string) error {
	u, err := eventsURL(s.api.baseURL, projectID)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, "invalid engine url")
	}
	conn, _, err := s.dialer.DialContext(ctx, u, http.Header{})
	if err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "event stream unavailable")
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	logger.L().Info("following engine events", zap.String("url", u))
	for {
		var e events.Event
		if err := conn.ReadJSON(&e); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return appErr.Wrap(err, appErr.CodeUnavailable, "event stream closed")
		}
		s.Apply(e)
	}
}

// Apply folds one change event into the mirror. Events that repeat a change
// this client made itself are absorbed without duplicating records, and a
// record never replaces a newer copy or revives a deleted one.
func (s *Syncer) Apply(e events.Event) {
	switch e.Kind {
	case events.KindProject:
		if e.Action == events.ActionDeleted {
			s.mirror.DeleteProject(e.ID)
			return
		}
		var p models.Project
		if decode(e, &p) {
			s.mirror.upsertProject(p)
		}
	case events.KindFile:
		if e.Action == events.ActionDeleted {
			s.mirror.DeleteFile(e.ID)
			return
		}
		var f models.File
		if !decode(e, &f) {
			return
		}
		if cur := s.mirror.Snapshot().CurrentProject; cur != nil && !f.BelongsTo(cur.ID) {
			return
		}
		s.mirror.upsertFile(f)
	case events.KindChatMessage:
		var m models.ChatMessage
		if !decode(e, &m) {
			return
		}
		snap := s.mirror.Snapshot()
		if m.Mode != string(snap.CurrentMode) {
			return
		}
		if snap.CurrentProject != nil && (m.ProjectID == nil || *m.ProjectID != snap.CurrentProject.ID) {
			return
		}
		s.mirror.addChatMessageOnce(m)
	case events.KindConnector:
		var cfg models.ConnectorConfig
		if !decode(e, &cfg) {
			return
		}
		// The feed never carries the key; keep the one already mirrored.
		if prev := s.mirror.Snapshot().Connector; prev != nil && cfg.APIKey == nil {
			cfg.APIKey = prev.APIKey
		}
		s.mirror.SetConnector(&cfg)
	}
}

func decode(e events.Event, dst any) bool {
	if len(e.Record) == 0 {
		return false
	}
	if err := json.Unmarshal(e.Record, dst); err != nil {
		logger.L().Warn("undecodable event", zap.String("kind", string(e.Kind)), zap.Error(err))
		return false
	}
	return true
}

func eventsURL(base, projectID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/events"
	if projectID != "" {
		u.RawQuery = url.Values{"projectId": {projectID}}.Encode()
	}
	return u.String(), nil
}
