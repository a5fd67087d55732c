package app

import (
	"context"
	"log"
	"time"

	"skill-bridge/internal/config"
	"skill-bridge/internal/database"
	"skill-bridge/internal/database/migration"
	dbpostgres "skill-bridge/internal/database/postgres"
	"skill-bridge/internal/infrastructure/cache"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Logger *log.Logger
}

func NewContainer(cfg config.Config, logger *log.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(logger),
		Logger: logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
