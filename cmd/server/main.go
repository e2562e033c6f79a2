package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/example/payrelay/internal/config"
	"github.com/example/payrelay/internal/handlers"
	"github.com/example/payrelay/internal/middleware"
	"github.com/example/payrelay/internal/routes"
	"github.com/example/payrelay/internal/store"
)

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg := config.Load()
	transactionStore := store.New()

	app := fiber.New(fiber.Config{
		AppName:      "Payrelay Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(middleware.Prometheus())

	app.Static("/", "./public")

	routes.Register(app, transactionStore, cfg)

	app.Use(handlers.NotFoundHandler)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("server shutdown: ", err)
		}
	}()

	if !cfg.HasGatewayCredentials() {
		log.Warn("gateway credentials not configured; payment initialization will fail until they are set")
	}

	log.WithFields(log.Fields{
		"port": cfg.AppPort,
		"mode": cfg.GatewayMode,
	}).Info("starting server")

	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal("fiber.Listen error: ", err)
	}
}
