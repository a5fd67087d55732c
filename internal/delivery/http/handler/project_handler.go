package handler

import (
	"errors"
	"time"

	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ProjectHandler struct {
	uc usecase.ProjectUsecase
}

type createProjectRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	AdminID     string     `json:"adminId"`
	Tags        []string   `json:"tags"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type joinProjectRequest struct {
	UserID string `json:"userId"`
}

type updateProgressRequest struct {
	Progress *int   `json:"progress"`
	AdminID  string `json:"adminId"`
}

type updateStatusRequest struct {
	Status  string `json:"status"`
	AdminID string `json:"adminId"`
}

func NewProjectHandler(uc usecase.ProjectUsecase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

func (h *ProjectHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/projects")
	grp.Post("/create", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:projectId", h.Get)
	grp.Post("/:projectId/join", h.Join)
	grp.Patch("/:projectId/progress", h.UpdateProgress)
	grp.Patch("/:projectId/status", h.UpdateStatus)
}

func (h *ProjectHandler) Create(c fiber.Ctx) error {
	var req createProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	var missing []string
	if req.Title == "" {
		missing = append(missing, "title")
	}
	if req.Description == "" {
		missing = append(missing, "description")
	}
	if req.Category == "" {
		missing = append(missing, "category")
	}
	if req.AdminID == "" {
		missing = append(missing, "adminId")
	}
	if len(missing) > 0 {
		return response.ErrorBodyJSON(c, fiber.StatusBadRequest, response.ErrorBody{
			Error:         "Missing required fields",
			MissingFields: missing,
			ReceivedData: fiber.Map{
				"title":       req.Title,
				"description": req.Description,
				"category":    req.Category,
				"adminId":     req.AdminID,
			},
		})
	}

	project, err := h.uc.Create(c.Context(), usecase.CreateProjectInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AdminID:     req.AdminID,
		Tags:        req.Tags,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return response.Error(c, fiber.StatusBadRequest, "Missing required fields")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to create project")
	}

	return response.JSON(c, fiber.StatusCreated, fiber.Map{
		"message": "Project created successfully",
		"project": project,
	})
}

func (h *ProjectHandler) List(c fiber.Ctx) error {
	projects, err := h.uc.List(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch projects")
	}
	return response.JSON(c, fiber.StatusOK, projects)
}

func (h *ProjectHandler) Get(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Project not found")
	}

	project, err := h.uc.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch project")
	}
	return response.JSON(c, fiber.StatusOK, project)
}

func (h *ProjectHandler) Join(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Project not found")
	}

	var req joinProjectRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	userID := middleware.RequesterID(c, req.UserID)
	if userID == "" {
		return response.Error(c, fiber.StatusBadRequest, "userId is required to join a project")
	}

	project, err := h.uc.Join(c.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		case errors.Is(err, usecase.ErrAlreadyMember):
			return response.Error(c, fiber.StatusBadRequest, "User is already a member")
		case errors.Is(err, usecase.ErrInvalidInput):
			return response.Error(c, fiber.StatusBadRequest, "userId is required to join a project")
		default:
			return response.Error(c, fiber.StatusInternalServerError, "Failed to join project")
		}
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Successfully joined project",
		"project": project,
	})
}

func (h *ProjectHandler) UpdateProgress(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Project not found")
	}

	var req updateProgressRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Progress == nil {
		return response.Error(c, fiber.StatusBadRequest, "progress is required")
	}

	requesterID := middleware.RequesterID(c, req.AdminID)

	project, err := h.uc.UpdateProgress(c.Context(), id, requesterID, *req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		case errors.Is(err, usecase.ErrForbidden):
			return response.Error(c, fiber.StatusForbidden, "Only project admin can update progress")
		case errors.Is(err, usecase.ErrInvalidInput):
			return response.Error(c, fiber.StatusBadRequest, "progress must be between 0 and 100")
		default:
			return response.Error(c, fiber.StatusInternalServerError, "Failed to update progress")
		}
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Progress updated successfully",
		"project": project,
	})
}

func (h *ProjectHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Project not found")
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	requesterID := middleware.RequesterID(c, req.AdminID)

	project, err := h.uc.UpdateStatus(c.Context(), id, requesterID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return response.Error(c, fiber.StatusNotFound, "Project not found")
		case errors.Is(err, usecase.ErrForbidden):
			return response.Error(c, fiber.StatusForbidden, "Only project admin can update status")
		case errors.Is(err, usecase.ErrInvalidInput):
			return response.Error(c, fiber.StatusBadRequest, "status must be one of planning, in-progress, completed, on-hold")
		default:
			return response.Error(c, fiber.StatusInternalServerError, "Failed to update status")
		}
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Status updated successfully",
		"project": project,
	})
}
