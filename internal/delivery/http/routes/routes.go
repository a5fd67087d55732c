package routes

import (
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health        *handler.HealthHandler
	projects      *handler.ProjectHandler
	skills        *handler.SkillHandler
	users         *handler.UserHandler
	notifications *handler.NotificationHandler
	chat          *handler.ChatHandler
	realtime      *ws.Handler
}

func NewRegistry(
	projects *handler.ProjectHandler,
	skills *handler.SkillHandler,
	users *handler.UserHandler,
	notifications *handler.NotificationHandler,
	chat *handler.ChatHandler,
	realtime *ws.Handler,
) *Registry {
	return &Registry{
		health:        handler.NewHealthHandler(),
		projects:      projects,
		skills:        skills,
		users:         users,
		notifications: notifications,
		chat:          chat,
		realtime:      realtime,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.projects.RegisterRoutes(app)
	r.skills.RegisterRoutes(app)
	r.users.RegisterRoutes(app)
	r.notifications.RegisterRoutes(app)
	r.chat.RegisterRoutes(app)
	r.realtime.RegisterRoutes(app)
}
