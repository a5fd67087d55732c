package handler

import (
	"errors"

	"skill-bridge/internal/pkg/response"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ChatHandler struct {
	uc usecase.AssistantUsecase
}

type chatRequest struct {
	Message string `json:"message"`
}

func NewChatHandler(uc usecase.AssistantUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/chat", h.Chat)
}

func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var req chatRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "Message is required")
	}

	reply, err := h.uc.Reply(c.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidInput):
			return response.Error(c, fiber.StatusBadRequest, "Message is required")
		case errors.Is(err, usecase.ErrNotConfigured):
			return response.Error(c, fiber.StatusInternalServerError, "Chat assistant is not configured on server")
		default:
			return response.Error(c, fiber.StatusInternalServerError, "Failed to generate reply")
		}
	}

	return response.JSON(c, fiber.StatusOK, fiber.Map{"reply": reply})
}
