package repository

import (
	"context"
	"sort"
	"time"

	"github.com/aide-studio/engine/internal/models"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, in models.CreateChatMessageInput) (models.ChatMessage, error)
	// ListByProjectMode returns the conversation in ascending createdAt order,
	// ties broken by insertion order.
	ListByProjectMode(ctx context.Context, projectID, mode string) ([]models.ChatMessage, error)
}

type chatMessageRepository struct {
	rows  *table[models.ChatMessage]
	now   func() time.Time
	newID func() string
}

func newChatMessageRepository(now func() time.Time, newID func() string) *chatMessageRepository {
	return &chatMessageRepository{rows: newTable(models.ChatMessage.Clone), now: now, newID: newID}
}

func (r *chatMessageRepository) Create(_ context.Context, in models.CreateChatMessageInput) (models.ChatMessage, error) {
	m := models.ChatMessage{
		ID:        r.newID(),
		ProjectID: in.ProjectID,
		Mode:      in.Mode,
		Role:      in.Role,
		Content:   in.Content,
		Metadata:  in.Metadata,
		CreatedAt: r.now(),
	}
	if m.ProjectID != nil && *m.ProjectID == "" {
		m.ProjectID = nil
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	return r.rows.insert(m.ID, m), nil
}

func (r *chatMessageRepository) ListByProjectMode(_ context.Context, projectID, mode string) ([]models.ChatMessage, error) {
	out := r.rows.list(func(m models.ChatMessage) bool {
		return m.ProjectID != nil && *m.ProjectID == projectID && m.Mode == mode
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
