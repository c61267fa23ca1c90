package repository

import (
	"context"
	"sync"
	"time"

	"github.com/aide-studio/engine/internal/models"
)

// ConnectorRepository stores the singleton OpenRouter connector settings.
type ConnectorRepository interface {
	// Get returns nil when no record exists and no environment key is
	// available; otherwise the record, lazily created on first access.
	Get(ctx context.Context) (*models.ConnectorConfig, error)
	// Update creates the record if absent, else merges the patch over it.
	Update(ctx context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error)
	// EffectiveAPIKey is the stored key, else the environment key, else "".
	EffectiveAPIKey(ctx context.Context) string
}

type connectorRepository struct {
	mu     sync.Mutex
	cfg    *models.ConnectorConfig
	now    func() time.Time
	newID  func() string
	envKey func() string
}

func newConnectorRepository(now func() time.Time, newID func() string, envKey func() string) *connectorRepository {
	return &connectorRepository{now: now, newID: newID, envKey: envKey}
}

func (r *connectorRepository) Get(_ context.Context) (*models.ConnectorConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg == nil {
		if r.envKey() == "" {
			return nil, nil
		}
		r.upsertLocked(models.UpdateConnectorInput{})
	}
	out := r.cfg.Clone()
	out.IsConnected = r.effectiveKeyLocked() != ""
	return &out, nil
}

func (r *connectorRepository) Update(_ context.Context, patch models.UpdateConnectorInput) (models.ConnectorConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertLocked(patch)
	return r.cfg.Clone(), nil
}

func (r *connectorRepository) EffectiveAPIKey(_ context.Context) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.effectiveKeyLocked()
}

func (r *connectorRepository) upsertLocked(patch models.UpdateConnectorInput) {
	if r.cfg == nil {
		r.cfg = &models.ConnectorConfig{
			ID:            r.newID(),
			SelectedModel: models.DefaultSelectedModel,
			ModelConfigs:  map[string]any{},
		}
	}
	patch.Apply(r.cfg)
	r.cfg.UpdatedAt = r.now()
	r.cfg.IsConnected = r.effectiveKeyLocked() != ""
}

func (r *connectorRepository) effectiveKeyLocked() string {
	if r.cfg != nil && r.cfg.APIKey != nil && *r.cfg.APIKey != "" {
		return *r.cfg.APIKey
	}
	return r.envKey()
}
