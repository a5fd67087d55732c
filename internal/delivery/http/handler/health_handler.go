package handler

import (
	"time"

	"skill-bridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	return response.JSON(c, fiber.StatusOK, fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "Backend is working!",
	})
}
