package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aide-studio/engine/internal/models"
	"github.com/aide-studio/engine/internal/services"
)

type ProjectsHandler struct {
	svc services.ProjectService
}

func NewProjectsHandler(svc services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{svc: svc}
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch projects")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectInput
	if err := decodeJSON(w, r, &req, "Invalid project data"); err != nil {
		writeError(w, r, err, "Invalid project data")
		return
	}
	p, err := h.svc.CreateProject(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProjectInput
	if err := decodeJSON(w, r, &req, "Invalid project data"); err != nil {
		writeError(w, r, err, "Invalid project data")
		return
	}
	p, err := h.svc.UpdateProject(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err, "Failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "Failed to delete project")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
