package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/services"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.History(r.Context(), chi.URLParam(r, "projectId"), chi.URLParam(r, "mode"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch chat messages")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ChatHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChatMessageInput
	if err := decodeJSON(w, r, &req, "Invalid chat message data"); err != nil {
		writeError(w, r, err, "Invalid chat message data")
		return
	}
	m, err := h.svc.PostMessage(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to create chat message")
		return
	}
	writeJSON(w, http.StatusCreated, m)
}
