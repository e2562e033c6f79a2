package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error taxonomy. Every failure response carries exactly one of these in its
// "error" field alongside a human-readable message.
const (
	ErrMissingField       = "MissingField"
	ErrInvalidField       = "InvalidField"
	ErrConfigurationError = "ConfigurationError"
	ErrGatewayError       = "GatewayError"
	ErrNotFound           = "NotFound"
	ErrInternalError      = "InternalError"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Status  string          `json:"status"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    any             `json:"data,omitempty"`
	Details json.RawMessage `json:"details,omitempty"`
}

func respondSuccess(c *fiber.Ctx, message string, data any) error {
	return c.JSON(Envelope{
		Status:  "SUCCESS",
		Message: message,
		Data:    data,
	})
}

func respondError(c *fiber.Ctx, httpStatus int, taxonomy, message string) error {
	return c.Status(httpStatus).JSON(Envelope{
		Status:  "ERROR",
		Error:   taxonomy,
		Message: message,
	})
}

func respondErrorDetails(c *fiber.Ctx, httpStatus int, taxonomy, message string, details json.RawMessage) error {
	return c.Status(httpStatus).JSON(Envelope{
		Status:  "ERROR",
		Error:   taxonomy,
		Message: message,
		Details: details,
	})
}

// ErrorHandler is the outermost boundary for every handler: fiber errors keep
// their status code, anything else (including recovered panics) becomes a 500
// InternalError. Stack traces never reach the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}

	taxonomy := ErrInternalError
	switch {
	case status == fiber.StatusNotFound:
		taxonomy = ErrNotFound
	case status < fiber.StatusInternalServerError && status >= fiber.StatusBadRequest:
		taxonomy = ErrInvalidField
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    "ERROR",
		"error":     taxonomy,
		"message":   err.Error(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFoundHandler answers unmatched routes, echoing path and method.
func NotFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"status":  "ERROR",
		"error":   ErrNotFound,
		"message": "route not found",
		"path":    c.Path(),
		"method":  c.Method(),
	})
}
