package handlers

import (
	"net/http"

	"github.com/dom/nonprofit-site/internal/api/httpx"
	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/service"
)

type ProjectHandler struct {
	projectService *service.ProjectService
}

func NewProjectHandler(projectService *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, "project.List", "Project", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "project.Get", "Project", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.Project
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, "project.Create", "Project", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, project)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	var req domain.Project
	if !decode(w, r, &req) {
		return
	}

	project, err := h.projectService.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, "project.Update", "Project", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, project)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "Project")
	if !ok {
		return
	}

	if err := h.projectService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, "project.Delete", "Project", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Project deleted successfully"})
}
