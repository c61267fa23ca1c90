package models

import (
	"maps"
	"time"
)

// ChatMessage is one turn of a per-project, per-mode conversation.
type ChatMessage struct {
	ID        string         `json:"id"`
	ProjectID *string        `json:"projectId"`
	Mode      string         `json:"mode"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Clone returns a copy that shares no mutable state with m.
func (m ChatMessage) Clone() ChatMessage {
	m.ProjectID = cloneStr(m.ProjectID)
	m.Metadata = maps.Clone(m.Metadata)
	return m
}

// CreateChatMessageInput is the insert shape for chat messages.
type CreateChatMessageInput struct {
	ProjectID *string        `json:"projectId"`
	Mode      string         `json:"mode" validate:"required"`
	Role      string         `json:"role" validate:"required,oneof=user assistant"`
	Content   string         `json:"content" validate:"required"`
	Metadata  map[string]any `json:"metadata"`
}

// Validate checks the input against the chat message schema.
func (in CreateChatMessageInput) Validate() error {
	return validateStruct(in, "Invalid chat message data")
}
