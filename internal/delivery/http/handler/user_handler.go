package handler

import (
	"errors"

	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.ProfileUsecase
}

type updateProfileRequest struct {
	UserID      string  `json:"userId"`
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	Location    *string `json:"location"`
	AvatarURL   *string `json:"avatarUrl"`
}

func NewUserHandler(uc usecase.ProfileUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/users")
	grp.Get("/:userId", h.Get)
	grp.Patch("/:userId", h.Update)
}

func (h *UserHandler) Get(c fiber.Ctx) error {
	profile, found, err := h.uc.Get(c.Context(), c.Params("userId"))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch profile")
	}
	if !found {
		// Absent profiles read as empty, not 404.
		return response.JSON(c, fiber.StatusOK, fiber.Map{})
	}
	return response.JSON(c, fiber.StatusOK, profile)
}

func (h *UserHandler) Update(c fiber.Ctx) error {
	userID := c.Params("userId")

	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	requesterID := middleware.RequesterID(c, req.UserID)

	profile, err := h.uc.Update(c.Context(), requesterID, userID, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		Location:    req.Location,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrForbidden) {
			return response.Error(c, fiber.StatusForbidden, "Forbidden: cannot edit other user profile")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated",
		"profile": profile,
	})
}
