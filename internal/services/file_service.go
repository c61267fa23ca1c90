package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/filetree"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/repository"
	appErr "github.com/aide-studio/engine/pkg/errors"
	"github.com/aide-studio/engine/pkg/logger"
)

type FileService interface {
	CreateFile(ctx context.Context, input models.CreateFileInput) (models.File, error)
	GetFile(ctx context.Context, fileID string) (models.File, error)
	ListFiles(ctx context.Context, projectID string) ([]models.File, error)
	FileTree(ctx context.Context, projectID string) (filetree.Tree, error)
	UpdateFile(ctx context.Context, fileID string, patch models.UpdateFileInput) (models.File, error)
	DeleteFile(ctx context.Context, fileID string) error
}

type fileService struct {
	fileRepo repository.FileRepository
	events   events.Publisher
}

func NewFileService(fileRepo repository.FileRepository, pub events.Publisher) FileService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &fileService{fileRepo: fileRepo, events: pub}
}

var _ FileService = (*fileService)(nil)

// CreateFile does not check that the project exists; files may reference
// projects that were never created or have been deleted.
func (s *fileService) CreateFile(ctx context.Context, input models.CreateFileInput) (models.File, error) {
	logger.L().Info("create file called", zap.String("project_id", input.ProjectID), zap.String("path", input.Path))
	if err := input.Validate(); err != nil {
		return models.File{}, err
	}

	f, err := s.fileRepo.Create(ctx, input)
	if err != nil {
		return models.File{}, err
	}

	publish(ctx, s.events, fileEvent(events.ActionCreated, f))
	return f, nil
}

func (s *fileService) GetFile(ctx context.Context, fileID string) (models.File, error) {
	logger.L().Info("get file", zap.String("file_id", fileID))
	return s.fileRepo.GetByID(ctx, fileID)
}

func (s *fileService) ListFiles(ctx context.Context, projectID string) ([]models.File, error) {
	logger.L().Info("list files", zap.String("project_id", projectID))
	return s.fileRepo.ListByProject(ctx, projectID)
}

func (s *fileService) FileTree(ctx context.Context, projectID string) (filetree.Tree, error) {
	files, err := s.ListFiles(ctx, projectID)
	if err != nil {
		return filetree.Tree{}, err
	}
	return filetree.Build(files), nil
}

func (s *fileService) UpdateFile(ctx context.Context, fileID string, patch models.UpdateFileInput) (models.File, error) {
	logger.L().Info("update file", zap.String("file_id", fileID))
	if err := patch.Validate(); err != nil {
		return models.File{}, err
	}

	f, err := s.fileRepo.Update(ctx, fileID, patch)
	if err != nil {
		return models.File{}, err
	}

	publish(ctx, s.events, fileEvent(events.ActionUpdated, f))
	return f, nil
}

func (s *fileService) DeleteFile(ctx context.Context, fileID string) error {
	logger.L().Info("delete file", zap.String("file_id", fileID))
	// Looked up first so the deletion event can carry the owning project.
	f, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	removed, err := s.fileRepo.Delete(ctx, fileID)
	if err != nil {
		return err
	}
	if !removed {
		return appErr.New(appErr.CodeNotFound, "File not found")
	}

	e := events.New(events.KindFile, events.ActionDeleted, fileID, nil)
	if f.ProjectID != nil {
		e.ProjectID = *f.ProjectID
	}
	publish(ctx, s.events, e)
	return nil
}

func fileEvent(action events.Action, f models.File) events.Event {
	e := events.New(events.KindFile, action, f.ID, f)
	if f.ProjectID != nil {
		e.ProjectID = *f.ProjectID
	}
	return e
}
