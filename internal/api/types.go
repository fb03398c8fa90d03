package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jananicare/server/internal/config"
	"github.com/jananicare/server/internal/reminders"
	"github.com/jananicare/server/internal/voicelog"
)

type Server struct {
	app       *fiber.App
	config    *config.Config
	reminders *reminders.Service
	logs      *voicelog.Store
	logger    *zap.Logger
}

func New(cfg *config.Config, svc *reminders.Service, logs *voicelog.Store, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	s := &Server{
		app:       app,
		config:    cfg,
		reminders: svc,
		logs:      logs,
		logger:    logger,
	}

	s.setupRoutes()

	return s
}
