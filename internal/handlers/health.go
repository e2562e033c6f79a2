package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/payrelay/internal/config"
	"github.com/example/payrelay/internal/store"
)

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	store     *store.TransactionStore
	cfg       *config.Config
	startedAt time.Time
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(st *store.TransactionStore, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		store:     st,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

// Check reports process health, uptime, transaction count and operating mode.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "OK",
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds":     time.Since(h.startedAt).Seconds(),
		"transactions_count": h.store.Count(),
		"mode":               h.cfg.GatewayMode,
	})
}
