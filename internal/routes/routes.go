package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/payrelay/internal/config"
	"github.com/example/payrelay/internal/handlers"
	"github.com/example/payrelay/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, st *store.TransactionStore, cfg *config.Config) {
	paymentHandler := handlers.NewPaymentHandler(st, cfg)
	healthHandler := handlers.NewHealthHandler(st, cfg)

	api := app.Group("/api")

	payment := api.Group("/payment")
	payment.Post("/initialize", paymentHandler.Initialize)
	payment.Post("/notify", paymentHandler.Notify)
	payment.Get("/status/:transaction_id?", paymentHandler.Status)

	api.Get("/transactions", paymentHandler.ListTransactions)
	api.Delete("/transactions", paymentHandler.ClearTransactions)

	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/payment/return", func(c *fiber.Ctx) error {
		return c.SendFile("./public/return.html")
	})
}
