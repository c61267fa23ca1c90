package services

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/repository"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
	"github.com/aide-studio/engine/pkg/utils"
)

// Upstream is the external chat/model API.
type Upstream interface {
	ChatCompletion(ctx context.Context, apiKey, model string, messages json.RawMessage, options map[string]any) (json.RawMessage, error)
	ListModels(ctx context.Context) (json.RawMessage, error)
}

type ConnectorService interface {
	// GetConfig returns nil when the connector has never been configured.
	GetConfig(ctx context.Context) (*models.ConnectorConfig, error)
	UpdateConfig(ctx context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error)
	// Chat fails with CodeNotConfigured before any outbound call when no key is known.
	Chat(ctx context.Context, messages json.RawMessage, options map[string]any) (json.RawMessage, error)
	Models(ctx context.Context) (json.RawMessage, error)
}

type connectorService struct {
	repo     repository.ConnectorRepository
	upstream Upstream
	events   events.Publisher
}

func NewConnectorService(repo repository.ConnectorRepository, upstream Upstream, pub events.Publisher) ConnectorService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &connectorService{repo: repo, upstream: upstream, events: pub}
}

var _ ConnectorService = (*connectorService)(nil)

func (s *connectorService) GetConfig(ctx context.Context) (*models.ConnectorConfig, error) {
	return s.repo.Get(ctx)
}

func (s *connectorService) UpdateConfig(ctx context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error) {
	fields := []zap.Field{}
	if patch.APIKey != nil {
		fields = append(fields, zap.String("key_fingerprint", utils.Fingerprint(*patch.APIKey)))
	}
	if patch.SelectedModel != nil {
		fields = append(fields, zap.String("model", *patch.SelectedModel))
	}
	logger.L().Info("update connector config", fields...)

	if err := patch.Validate(); err != nil {
		return models.ConnectorConfig{}, err
	}
	cfg, err := s.repo.Update(ctx, patch)
	if err != nil {
		return models.ConnectorConfig{}, err
	}

	// The key never leaves through the event feed.
	safe := cfg.Clone()
	safe.APIKey = nil
	publish(ctx, s.events, events.New(events.KindConnector, events.ActionUpdated, cfg.ID, safe))
	return cfg, nil
}

func (s *connectorService) Chat(ctx context.Context, messages json.RawMessage, options map[string]any) (json.RawMessage, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	apiKey := s.repo.EffectiveAPIKey(ctx)
	if cfg == nil || apiKey == "" {
		return nil, appErr.New(appErr.CodeNotConfigured, "OpenRouter API key not configured")
	}

	logger.L().Info("openrouter chat", zap.String("model", cfg.SelectedModel), zap.String("key_fingerprint", utils.Fingerprint(apiKey)))
	out, err := s.upstream.ChatCompletion(ctx, apiKey, cfg.SelectedModel, messages, options)
	if err != nil {
		logger.L().Error("openrouter chat failed", zap.Error(err))
		return nil, appErr.Wrap(err, appErr.CodeUpstream, "Failed to communicate with OpenRouter API")
	}
	return out, nil
}

func (s *connectorService) Models(ctx context.Context) (json.RawMessage, error) {
	out, err := s.upstream.ListModels(ctx)
	if err != nil {
		logger.L().Error("openrouter models failed", zap.Error(err))
		return nil, appErr.Wrap(err, appErr.CodeUpstream, "Failed to fetch OpenRouter models")
	}
	return out, nil
}
