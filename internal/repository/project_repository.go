package repository

import (
	"context"
	"time"

	"github.com/aide-studio/engine/internal/models"
	appErr "github.com/aide-studio/engine/pkg/errors"
)

type ProjectRepository interface {
	Create(ctx context.Context, in models.CreateProjectInput) (models.Project, error)
	GetByID(ctx context.Context, id string) (models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, id string, patch models.UpdateProjectInput) (models.Project, error)
	// Delete reports whether a record was removed. Files and chat messages
	// that reference the project are left in place.
	Delete(ctx context.Context, id string) (bool, error)
}

type projectRepository struct {
	rows  *table[models.Project]
	now   func() time.Time
	newID func() string
}

func newProjectRepository(now func() time.Time, newID func() string) *projectRepository {
	return &projectRepository{rows: newTable(models.Project.Clone), now: now, newID: newID}
}

func (r *projectRepository) Create(_ context.Context, in models.CreateProjectInput) (models.Project, error) {
	ts := r.now()
	p := models.Project{
		ID:          r.newID(),
		Name:        in.Name,
		Description: in.Description,
		Mode:        in.Mode,
		Status:      in.Status,
		Config:      in.Config,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if p.Config == nil {
		p.Config = map[string]any{}
	}
	return r.rows.insert(p.ID, p), nil
}

func (r *projectRepository) GetByID(_ context.Context, id string) (models.Project, error) {
	p, ok := r.rows.get(id)
	if !ok {
		return models.Project{}, appErr.New(appErr.CodeNotFound, "Project not found")
	}
	return p, nil
}

func (r *projectRepository) List(_ context.Context) ([]models.Project, error) {
	return r.rows.list(nil), nil
}

func (r *projectRepository) Update(_ context.Context, id string, patch models.UpdateProjectInput) (models.Project, error) {
	p, ok := r.rows.update(id, func(p *models.Project) {
		patch.Apply(p)
		p.UpdatedAt = touch(r.now, p.CreatedAt)
	})
	if !ok {
		return models.Project{}, appErr.New(appErr.CodeNotFound, "Project not found")
	}
	return p, nil
}

func (r *projectRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.rows.delete(id), nil
}
