package app

import (
	"fmt"
	"log"
	"strings"

	"skill-bridge/internal/config"
	"skill-bridge/internal/delivery/http/handler"
	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/delivery/http/routes"
	"skill-bridge/internal/infrastructure/llm"
	"skill-bridge/internal/pkg/jwt"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/scheduler"
	"skill-bridge/internal/usecase"
	"skill-bridge/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

type App struct {
	Fiber     *fiber.App
	Hub       *ws.Hub
	Scheduler *scheduler.ReminderScheduler
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	container, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	projectRepo := repository.NewPostgresProjectRepository(container.DB)
	skillRepo := repository.NewPostgresSkillRepository(container.DB)
	profileRepo := repository.NewPostgresProfileRepository(container.DB)
	notificationRepo := repository.NewPostgresNotificationRepository(container.DB)

	projectUC := usecase.NewProjectUsecase(projectRepo, container.Cache)
	skillUC := usecase.NewSkillUsecase(skillRepo)
	profileUC := usecase.NewProfileUsecase(profileRepo)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	var chatProvider usecase.ChatProvider
	if provider, err := llm.NewOpenAIProvider(cfg.Chat, logger); err != nil {
		logger.Printf("chat assistant disabled: %v", err)
	} else {
		chatProvider = provider
	}
	assistantUC := usecase.NewAssistantUsecase(chatProvider)

	hub := ws.NewHub(logger)
	wsHandler := ws.NewHandler(hub, logger, cfg.CORS.AllowedOrigins)

	registry := routes.NewRegistry(
		handler.NewProjectHandler(projectUC),
		handler.NewSkillHandler(skillUC),
		handler.NewUserHandler(profileUC),
		handler.NewNotificationHandler(notificationUC),
		handler.NewChatHandler(assistantUC),
		wsHandler,
	)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	registerGlobalMiddleware(f, cfg, logger)
	registry.Register(f)

	reminder := scheduler.NewReminderScheduler(projectRepo, notificationRepo, container.Cache, logger, cfg.Scheduler.CronSpec)
	reminder.Start()

	cleanup := func() error {
		reminder.Stop()
		return container.Close()
	}

	return &App{Fiber: f, Hub: hub, Scheduler: reminder}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware().Middleware())
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept"},
	}))

	if cfg.JWT.Secret != "" {
		app.Use(middleware.NewIdentityMiddleware(jwt.NewHMACService(cfg.JWT.Secret)).Middleware())
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
