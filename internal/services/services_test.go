package services

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/repository"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by services)
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) ChatCompletion(ctx context.Context, apiKey, model string, messages json.RawMessage, options map[string]any) (json.RawMessage, error) {
	args := m.Called(ctx, apiKey, model, messages, options)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUpstream) ListModels(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(json.RawMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) actions() []events.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Action, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

func ptr(s string) *string { return &s }

func TestProjectServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewProjectService(repository.NewStore().Projects, pub)

	p, err := svc.CreateProject(ctx, models.CreateProjectInput{Name: "demo", Mode: "architect"})
	require.NoError(t, err)

	_, err = svc.UpdateProject(ctx, p.ID, models.UpdateProjectInput{Status: ptr(models.StatusCompleted)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, p.ID))
	err = svc.DeleteProject(ctx, p.ID)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	require.Equal(t, []events.Action{events.ActionCreated, events.ActionUpdated, events.ActionDeleted}, pub.actions())
}

func TestProjectServiceRejectsInvalidWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := repository.NewStore()
	svc := NewProjectService(store.Projects, pub)

	_, err := svc.CreateProject(ctx, models.CreateProjectInput{Name: "demo", Mode: "painter"})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	list, _ := svc.ListProjects(ctx)
	require.Empty(t, list)
	require.Empty(t, pub.actions())

	p, _ := svc.CreateProject(ctx, models.CreateProjectInput{Name: "demo", Mode: "coder"})
	_, err = svc.UpdateProject(ctx, p.ID, models.UpdateProjectInput{Status: ptr("frozen")})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	got, _ := svc.GetProject(ctx, p.ID)
	require.Equal(t, models.StatusActive, got.Status)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus closed")}
	svc := NewProjectService(repository.NewStore().Projects, pub)

	_, err := svc.CreateProject(context.Background(), models.CreateProjectInput{Name: "demo", Mode: "coder"})
	require.NoError(t, err)
}

func TestFileServiceTreeAndEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewFileService(repository.NewStore().Files, pub)

	tree, err := svc.FileTree(ctx, "p1")
	require.NoError(t, err)
	require.True(t, tree.Placeholder)

	for _, path := range []string{"src/App.tsx", "src/main.ts", "package.json"} {
		_, err := svc.CreateFile(ctx, models.CreateFileInput{ProjectID: "p1", Path: path})
		require.NoError(t, err)
	}
	tree, err = svc.FileTree(ctx, "p1")
	require.NoError(t, err)
	require.False(t, tree.Placeholder)
	require.Len(t, tree.Nodes, 2)

	require.Equal(t, "p1", pub.events[0].ProjectID)

	_, err = svc.CreateFile(ctx, models.CreateFileInput{Path: "orphan.go"})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	err = svc.DeleteFile(ctx, "missing")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestChatServiceHistory(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(repository.NewStore().Chat, nil)

	_, err := svc.PostMessage(ctx, models.CreateChatMessageInput{ProjectID: ptr("p1"), Mode: "debug", Role: "user", Content: "why?"})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, models.CreateChatMessageInput{ProjectID: ptr("p1"), Mode: "debug", Role: "robot", Content: "x"})
	require.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	msgs, err := svc.History(ctx, "p1", "debug")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestConnectorChatWithoutKeyMakesNoCall(t *testing.T) {
	up := &mockUpstream{}
	svc := NewConnectorService(repository.NewStore().Connector, up, nil)

	_, err := svc.Chat(context.Background(), json.RawMessage(`[]`), nil)
	require.True(t, appErr.IsCode(err, appErr.CodeNotConfigured))
	up.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConnectorChatUsesSelectedModelAndEnvKey(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore(repository.WithEnvAPIKey(func() string { return "sk-env" }))
	up := &mockUpstream{}
	svc := NewConnectorService(store.Connector, up, nil)

	msgs := json.RawMessage(`[{"role":"user","content":"hello"}]`)
	up.On("ChatCompletion", mock.Anything, "sk-env", models.DefaultSelectedModel, msgs, map[string]any{"max_tokens": 10}).
		Return(json.RawMessage(`{"id":"gen"}`), nil).Once()

	out, err := svc.Chat(ctx, msgs, map[string]any{"max_tokens": 10})
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"gen"}`, string(out))
	up.AssertExpectations(t)
}

func TestConnectorChatUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	store := repository.NewStore()
	up := &mockUpstream{}
	svc := NewConnectorService(store.Connector, up, nil)
	_, err := svc.UpdateConfig(ctx, models.UpdateConnectorInput{APIKey: ptr("sk-x")})
	require.NoError(t, err)

	up.On("ChatCompletion", mock.Anything, "sk-x", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, appErr.New(appErr.CodeUpstream, "OpenRouter API error: 401")).Once()

	_, err = svc.Chat(ctx, nil, nil)
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))
	require.Equal(t, "Failed to communicate with OpenRouter API", appErr.MessageOf(err, ""))
}

func TestConnectorUpdateEventHidesKey(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewConnectorService(repository.NewStore().Connector, &mockUpstream{}, pub)

	cfg, err := svc.UpdateConfig(context.Background(), models.UpdateConnectorInput{APIKey: ptr("sk-secret")})
	require.NoError(t, err)
	require.True(t, cfg.IsConnected)

	require.Len(t, pub.events, 1)
	require.NotContains(t, string(pub.events[0].Record), "sk-secret")
}

func TestConnectorModels(t *testing.T) {
	up := &mockUpstream{}
	svc := NewConnectorService(repository.NewStore().Connector, up, nil)

	up.On("ListModels", mock.Anything).Return(json.RawMessage(`{"data":[]}`), nil).Once()
	out, err := svc.Models(context.Background())
	require.NoError(t, err)
	require.JSONEq(t, `{"data":[]}`, string(out))

	up.On("ListModels", mock.Anything).Return(nil, errors.New("dial")).Once()
	_, err = svc.Models(context.Background())
	require.True(t, appErr.IsCode(err, appErr.CodeUpstream))
}
