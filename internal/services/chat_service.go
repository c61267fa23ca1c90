package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aide-studio/engine/internal/events"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/repository"
	"github.com/aide-studio/engine/pkg/logger"
)

type ChatService interface {
	PostMessage(ctx context.Context, input models.CreateChatMessageInput) (models.ChatMessage, error)
	History(ctx context.Context, projectID, mode string) ([]models.ChatMessage, error)
}

type chatService struct {
	chatRepo repository.ChatMessageRepository
	events   events.Publisher
}

func NewChatService(chatRepo repository.ChatMessageRepository, pub events.Publisher) ChatService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &chatService{chatRepo: chatRepo, events: pub}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) PostMessage(ctx context.Context, input models.CreateChatMessageInput) (models.ChatMessage, error) {
	logger.L().Info("post chat message", zap.String("mode", input.Mode), zap.String("role", input.Role))
	if err := input.Validate(); err != nil {
		return models.ChatMessage{}, err
	}

	m, err := s.chatRepo.Create(ctx, input)
	if err != nil {
		return models.ChatMessage{}, err
	}

	e := events.New(events.KindChatMessage, events.ActionCreated, m.ID, m)
	if m.ProjectID != nil {
		e.ProjectID = *m.ProjectID
	}
	publish(ctx, s.events, e)
	return m, nil
}

func (s *chatService) History(ctx context.Context, projectID, mode string) ([]models.ChatMessage, error) {
	logger.L().Info("chat history", zap.String("project_id", projectID), zap.String("mode", mode))
	return s.chatRepo.ListByProjectMode(ctx, projectID, mode)
}
