package handler

import (
	"errors"

	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type addSkillRequest struct {
	UserID string          `json:"userId"`
	Skill  addSkillPayload `json:"skill"`
}

type addSkillPayload struct {
	Name     string            `json:"name"`
	Level    *int              `json:"level"`
	Category string            `json:"category"`
	Location *addSkillLocation `json:"location"`
}

type addSkillLocation struct {
	Address     string          `json:"address"`
	Coordinates *addSkillCoords `json:"coordinates"`
}

type addSkillCoords struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Post("/add", h.Add)
	grp.Get("/", h.ListAll)
	grp.Get("/:userId", h.ListForUser)
	grp.Delete("/:userId/:skillName", h.Delete)
}

func (h *SkillHandler) Add(c fiber.Ctx) error {
	var req addSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.UserID == "" || req.Skill.Name == "" || req.Skill.Level == nil || req.Skill.Category == "" {
		return response.Error(c, fiber.StatusBadRequest, "Missing required fields")
	}
	if req.Skill.Location == nil || req.Skill.Location.Coordinates == nil ||
		req.Skill.Location.Coordinates.Lat == nil || req.Skill.Location.Coordinates.Lng == nil {
		return response.Error(c, fiber.StatusBadRequest, "Missing or invalid location (lat/lng required)")
	}

	skills, err := h.uc.Upsert(c.Context(), req.UserID, usecase.UpsertSkillInput{
		Name:     req.Skill.Name,
		Category: req.Skill.Category,
		Level:    *req.Skill.Level,
		Location: repository.Location{
			Address: req.Skill.Location.Address,
			Coordinates: repository.Coordinates{
				Lat: *req.Skill.Location.Coordinates.Lat,
				Lng: *req.Skill.Location.Coordinates.Lng,
			},
		},
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return response.Error(c, fiber.StatusBadRequest, "Missing required fields")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to add skill")
	}

	return response.JSON(c, fiber.StatusCreated, fiber.Map{
		"message": "Skill added successfully",
		"skills":  skills,
	})
}

func (h *SkillHandler) ListForUser(c fiber.Ctx) error {
	skills, err := h.uc.ListForUser(c.Context(), c.Params("userId"))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch skills")
	}
	return response.JSON(c, fiber.StatusOK, skills)
}

func (h *SkillHandler) ListAll(c fiber.Ctx) error {
	skills, err := h.uc.ListAll(c.Context())
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch skills")
	}
	return response.JSON(c, fiber.StatusOK, skills)
}

func (h *SkillHandler) Delete(c fiber.Ctx) error {
	skills, err := h.uc.Delete(c.Context(), c.Params("userId"), c.Params("skillName"))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to delete skill")
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Skill deleted successfully",
		"skills":  skills,
	})
}
