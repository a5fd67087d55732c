package middleware

import (
	"strings"

	"skill-bridge/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const CtxUserIDKey = "requester_id"

// IdentityMiddleware resolves an optional requester identity from a
// bearer token. No endpoint requires one; handlers fall back to the
// body-supplied user id when the token is absent, mirroring the
// session-then-body resolution of the original platform. A present but
// invalid token is rejected.
type IdentityMiddleware struct {
	jwt jwt.Service
}

func NewIdentityMiddleware(jwtSvc jwt.Service) *IdentityMiddleware {
	return &IdentityMiddleware{jwt: jwtSvc}
}

func (m *IdentityMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok || m.jwt == nil {
			return c.Next()
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		return c.Next()
	}
}

// RequesterID returns the token-derived user id when present, else the
// supplied fallback.
func RequesterID(c fiber.Ctx, fallback string) string {
	if id, ok := c.Locals(CtxUserIDKey).(string); ok && id != "" {
		return id
	}
	return fallback
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
