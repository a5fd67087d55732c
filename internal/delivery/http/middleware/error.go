package middleware

import (
	"errors"
	"log"

	"skill-bridge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type AppError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Cause: cause}
}

// ErrorMiddleware is the handler-boundary net: panics and uncaught
// errors become JSON error bodies, never a crashed process.
type ErrorMiddleware struct{}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg := normalizeError(err)
		return response.Error(c, status, msg)
	}
}

func normalizeError(err error) (int, string) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		msg := appErr.Message
		if msg == "" {
			msg = response.MessageBadRequest
		}
		return status, msg
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = response.MessageBadRequest
		}
		return status, msg
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError
}
