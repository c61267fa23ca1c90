package handlers

import (
	"net/http"

	"github.com/aide-studio/engine/internal/api/types"
	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/services"
)

// OpenRouterHandler serves the connector settings and the two proxy calls.
type OpenRouterHandler struct {
	svc services.ConnectorService
}

func NewOpenRouterHandler(svc services.ConnectorService) *OpenRouterHandler {
	return &OpenRouterHandler{svc: svc}
}

func (h *OpenRouterHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetConfig(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch OpenRouter config")
		return
	}
	if cfg == nil {
		writeJSON(w, http.StatusOK, types.ConnectorStatus{IsConnected: false})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *OpenRouterHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateConnectorInput
	if err := decodeJSON(w, r, &req, "Invalid OpenRouter config"); err != nil {
		writeError(w, r, err, "Invalid OpenRouter config")
		return
	}
	cfg, err := h.svc.UpdateConfig(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to update OpenRouter config")
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Chat relays the upstream completion body verbatim on success.
func (h *OpenRouterHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatProxyRequest
	if err := decodeJSON(w, r, &req, "Invalid chat request"); err != nil {
		writeError(w, r, err, "Invalid chat request")
		return
	}
	out, err := h.svc.Chat(r.Context(), req.Messages, req.Options)
	if err != nil {
		writeError(w, r, err, "Failed to communicate with OpenRouter API")
		return
	}
	writeRaw(w, http.StatusOK, out)
}

func (h *OpenRouterHandler) Models(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Models(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch OpenRouter models")
		return
	}
	writeRaw(w, http.StatusOK, out)
}
