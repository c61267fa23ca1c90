package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/services"
)

type FilesHandler struct {
	svc services.FileService
}

func NewFilesHandler(svc services.FileService) *FilesHandler {
	return &FilesHandler{svc: svc}
}

// ListByProject answers with an empty array for unknown projects.
func (h *FilesHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFiles(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch files")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FilesHandler) Tree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.svc.FileTree(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		writeError(w, r, err, "Failed to build file tree")
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.GetFile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch file")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFileInput
	if err := decodeJSON(w, r, &req, "Invalid file data"); err != nil {
		writeError(w, r, err, "Invalid file data")
		return
	}
	f, err := h.svc.CreateFile(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to create file")
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (h *FilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateFileInput
	if err := decodeJSON(w, r, &req, "Invalid file data"); err != nil {
		writeError(w, r, err, "Invalid file data")
		return
	}
	f, err := h.svc.UpdateFile(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err, "Failed to update file")
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFile(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "Failed to delete file")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
