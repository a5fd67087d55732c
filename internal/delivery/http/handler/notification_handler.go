package handler

import (
	"errors"

	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	uc usecase.NotificationUsecase
}

func NewNotificationHandler(uc usecase.NotificationUsecase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/notifications")
	grp.Get("/:userId", h.ListForUser)
	grp.Patch("/:id/read", h.MarkRead)
}

func (h *NotificationHandler) ListForUser(c fiber.Ctx) error {
	items, err := h.uc.ListForUser(c.Context(), c.Params("userId"))
	if err != nil {
		return response.Error(c, fiber.StatusInternalServerError, "Failed to fetch notifications")
	}
	return response.JSON(c, fiber.StatusOK, items)
}

func (h *NotificationHandler) MarkRead(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, fiber.StatusNotFound, "Notification not found")
	}

	n, err := h.uc.MarkRead(c.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			return response.Error(c, fiber.StatusNotFound, "Notification not found")
		}
		return response.Error(c, fiber.StatusInternalServerError, "Failed to update notification")
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"message":      "Notification marked as read",
		"notification": n,
	})
}
