package repository

import (
	"context"
	"time"

	"github.com/aide-studio/engine/internal/models"
	appErr "github.com/aide-studio/engine/pkg/errors"
)

type FileRepository interface {
	Create(ctx context.Context, in models.CreateFileInput) (models.File, error)
	GetByID(ctx context.Context, id string) (models.File, error)
	ListByProject(ctx context.Context, projectID string) ([]models.File, error)
	Update(ctx context.Context, id string, patch models.UpdateFileInput) (models.File, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type fileRepository struct {
	rows  *table[models.File]
	now   func() time.Time
	newID func() string
}

func newFileRepository(now func() time.Time, newID func() string) *fileRepository {
	return &fileRepository{rows: newTable(models.File.Clone), now: now, newID: newID}
}

func (r *fileRepository) Create(_ context.Context, in models.CreateFileInput) (models.File, error) {
	ts := r.now()
	f := models.File{
		ID:        r.newID(),
		Path:      in.Path,
		Content:   in.Content,
		Language:  in.Language,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if in.ProjectID != "" {
		pid := in.ProjectID
		f.ProjectID = &pid
	}
	return r.rows.insert(f.ID, f), nil
}

func (r *fileRepository) GetByID(_ context.Context, id string) (models.File, error) {
	f, ok := r.rows.get(id)
	if !ok {
		return models.File{}, appErr.New(appErr.CodeNotFound, "File not found")
	}
	return f, nil
}

// ListByProject returns the project's files in creation order; an unknown
// project yields an empty list.
func (r *fileRepository) ListByProject(_ context.Context, projectID string) ([]models.File, error) {
	return r.rows.list(func(f models.File) bool { return f.BelongsTo(projectID) }), nil
}

func (r *fileRepository) Update(_ context.Context, id string, patch models.UpdateFileInput) (models.File, error) {
	f, ok := r.rows.update(id, func(f *models.File) {
		patch.Apply(f)
		f.UpdatedAt = touch(r.now, f.CreatedAt)
	})
	if !ok {
		return models.File{}, appErr.New(appErr.CodeNotFound, "File not found")
	}
	return f, nil
}

func (r *fileRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.rows.delete(id), nil
}
