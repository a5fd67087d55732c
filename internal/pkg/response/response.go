package response

import "github.com/gofiber/fiber/v3"

// ErrorBody is the error envelope every failing endpoint returns.
// Details and ReceivedData are debugging context for the internal
// frontend, never populated from server-side errors.
type ErrorBody struct {
	Error         string   `json:"error"`
	Details       string   `json:"details,omitempty"`
	MissingFields []string `json:"missingFields,omitempty"`
	ReceivedData  any      `json:"receivedData,omitempty"`
}

const (
	MessageBadRequest          = "bad request"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageInternalServerError = "internal server error"
)

func JSON(c fiber.Ctx, status int, body any) error {
	return c.Status(status).JSON(body)
}

func Error(c fiber.Ctx, status int, message string) error {
	return c.Status(normalizeStatus(status)).JSON(ErrorBody{Error: message})
}

func ErrorBodyJSON(c fiber.Ctx, status int, body ErrorBody) error {
	if body.Error == "" {
		body.Error = defaultMessageForStatus(status)
	}
	return c.Status(normalizeStatus(status)).JSON(body)
}

func normalizeStatus(status int) int {
	if status < 100 || status > 599 {
		return fiber.StatusInternalServerError
	}
	return status
}

func defaultMessageForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	default:
		return MessageInternalServerError
	}
}
