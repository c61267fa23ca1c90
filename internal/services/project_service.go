package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/repository"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
)

type ProjectService interface {
	CreateProject(ctx context.Context, input models.CreateProjectInput) (models.Project, error)
	GetProject(ctx context.Context, projectID string) (models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, projectID string, patch models.UpdateProjectInput) (models.Project, error)
	// DeleteProject removes only the project record; its files and chat
	// history stay in the store.
	DeleteProject(ctx context.Context, projectID string) error
}

type projectService struct {
	projectRepo repository.ProjectRepository
	events      events.Publisher
}

func NewProjectService(projectRepo repository.ProjectRepository, pub events.Publisher) ProjectService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &projectService{projectRepo: projectRepo, events: pub}
}

// Ensure interfaces are satisfied at compile time
var _ ProjectService = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, input models.CreateProjectInput) (models.Project, error) {
	logger.L().Info("create project called", zap.String("name", input.Name), zap.String("mode", input.Mode))
	if err := input.Validate(); err != nil {
		return models.Project{}, err
	}

	p, err := s.projectRepo.Create(ctx, input)
	if err != nil {
		return models.Project{}, err
	}

	publish(ctx, s.events, events.New(events.KindProject, events.ActionCreated, p.ID, p))
	logger.L().Info("project created", zap.String("project_id", p.ID))
	return p, nil
}

func (s *projectService) GetProject(ctx context.Context, projectID string) (models.Project, error) {
	logger.L().Info("get project", zap.String("project_id", projectID))
	return s.projectRepo.GetByID(ctx, projectID)
}

func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	logger.L().Info("list projects")
	return s.projectRepo.List(ctx)
}

func (s *projectService) UpdateProject(ctx context.Context, projectID string, patch models.UpdateProjectInput) (models.Project, error) {
	logger.L().Info("update project", zap.String("project_id", projectID))
	if err := patch.Validate(); err != nil {
		return models.Project{}, err
	}

	p, err := s.projectRepo.Update(ctx, projectID, patch)
	if err != nil {
		return models.Project{}, err
	}

	publish(ctx, s.events, events.New(events.KindProject, events.ActionUpdated, p.ID, p))
	logger.L().Info("project updated", zap.String("project_id", projectID))
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, projectID string) error {
	logger.L().Info("delete project", zap.String("project_id", projectID))
	removed, err := s.projectRepo.Delete(ctx, projectID)
	if err != nil {
		return err
	}
	if !removed {
		return appErr.New(appErr.CodeNotFound, "Project not found")
	}

	publish(ctx, s.events, events.New(events.KindProject, events.ActionDeleted, projectID, nil))
	logger.L().Info("project deleted", zap.String("project_id", projectID))
	return nil
}

// publish never fails the mutation it reports on.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if err := pub.Publish(ctx, e); err != nil {
		logger.L().Warn("publish event failed",
			zap.String("kind", string(e.Kind)),
			zap.String("action", string(e.Action)),
			zap.String("id", e.ID),
			zap.Error(err),
		)
	}
}
