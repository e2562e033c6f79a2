package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/example/payrelay/internal/config"
	"github.com/example/payrelay/internal/middleware"
	"github.com/example/payrelay/internal/models"
	"github.com/example/payrelay/internal/services"
	"github.com/example/payrelay/internal/store"
	"github.com/example/payrelay/internal/utils"
)

const (
	defaultCurrency = "XAF"
	defaultCountry  = "CM"
)

// PaymentHandler manages the payment endpoints.
type PaymentHandler struct {
	store    *store.TransactionStore
	gateway  *services.GatewayClient
	cfg      *config.Config
	validate *validator.Validate
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(st *store.TransactionStore, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		store:    st,
		gateway:  services.NewGatewayClient(cfg),
		cfg:      cfg,
		validate: validator.New(),
	}
}

// Initialize creates a transaction and starts a payment session with the
// gateway.
func (h *PaymentHandler) Initialize(c *fiber.Ctx) error {
	var req models.InitializePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, ErrInvalidField, "invalid request body")
	}

	if req.TotalAmount == nil {
		return respondError(c, fiber.StatusBadRequest, ErrMissingField, "total_amount is required")
	}

	if !h.cfg.HasGatewayCredentials() {
		log.Error("payment initialize rejected: gateway credentials not configured")
		return respondError(c, fiber.StatusInternalServerError, ErrConfigurationError,
			"gateway credentials are not configured")
	}

	amount, ok := parseAmount(req.TotalAmount)
	if !ok {
		return respondError(c, fiber.StatusBadRequest, ErrInvalidField,
			"total_amount must be a positive integer")
	}

	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, ErrInvalidField, err.Error())
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	country := req.PaymentCountry
	if country == "" {
		country = defaultCountry
	}

	transactionID := utils.NewTransactionID()
	baseURL := c.BaseURL()
	returnURL := baseURL + "/payment/return"
	notifyURL := baseURL + "/api/payment/notify"

	result, err := h.gateway.Initialize(c.Context(), services.InitializePayload{
		TotalAmount:    amount,
		Currency:       currency,
		TransactionID:  transactionID,
		ReturnURL:      returnURL,
		NotifyURL:      notifyURL,
		PaymentCountry: country,
		CustomerPhone:  req.CustomerPhone,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		middleware.PaymentsTotal.WithLabelValues("gateway_failed").Inc()

		var ge *services.GatewayError
		if errors.As(err, &ge) {
			status := ge.StatusCode
			if status == 0 {
				status = fiber.StatusInternalServerError
			}
			return respondErrorDetails(c, status, ErrGatewayError, ge.Message, ge.Details)
		}
		return respondError(c, fiber.StatusInternalServerError, ErrGatewayError, err.Error())
	}

	providers := result.Data.Providers
	if providers == nil {
		providers = []json.RawMessage{}
	}

	now := time.Now().UTC()
	txn := h.store.Insert(models.Transaction{
		TransactionID:  transactionID,
		TotalAmount:    amount,
		Currency:       currency,
		PaymentCountry: country,
		Status:         models.StatusPending,
		HostedURL:      result.Data.TransactionURL,
		Providers:      providers,
		ReturnURL:      returnURL,
		NotifyURL:      notifyURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	})

	middleware.PaymentsTotal.WithLabelValues("initialized").Inc()

	log.WithFields(log.Fields{
		"transaction_id": txn.TransactionID,
		"amount":         txn.TotalAmount,
		"currency":       txn.Currency,
	}).Info("transaction created")

	return respondSuccess(c, "payment initialized", fiber.Map{
		"transaction_id":  txn.TransactionID,
		"transaction_url": txn.HostedURL,
		"providers":       txn.Providers,
	})
}

// Notify receives gateway webhook notifications. It always acknowledges with
// success on handled paths: the gateway treats any failure response as a
// delivery error and may disable the webhook.
func (h *PaymentHandler) Notify(c *fiber.Ctx) error {
	var notification models.PaymentNotification
	if err := c.BodyParser(&notification); err != nil {
		return respondError(c, fiber.StatusBadRequest, ErrInvalidField, "invalid notification body")
	}

	middleware.NotificationsTotal.Inc()

	transactionID := notification.Data.TransactionID
	if transactionID == "" {
		log.Warn("notification without transaction_id received")
		return respondSuccess(c, "notification received", nil)
	}

	status := notification.Data.TransactionStatus
	if status == "" {
		status = notification.Status
	}
	if status == "" {
		status = models.StatusUnknown
	}

	message := notification.Message
	if message == "" {
		message = notification.Data.Message
	}

	txn, found := h.store.UpdateStatus(transactionID, models.StatusUpdate{
		Status:           status,
		Gateway:          notification.Data.TransactionGateway,
		GatewayReference: notification.Data.GatewayReference,
		Message:          message,
	})
	if !found {
		log.WithField("transaction_id", transactionID).Warn("notification for unknown transaction")
		return respondSuccess(c, "notification received", nil)
	}

	log.WithFields(log.Fields{
		"transaction_id": txn.TransactionID,
		"status":         txn.Status,
		"gateway":        txn.Gateway,
	}).Info("transaction updated from notification")

	return respondSuccess(c, "notification received and processed", nil)
}

// Status returns a single transaction by its external id.
func (h *PaymentHandler) Status(c *fiber.Ctx) error {
	transactionID := strings.TrimSpace(c.Params("transaction_id"))
	if transactionID == "" {
		return respondError(c, fiber.StatusBadRequest, ErrMissingField, "transaction_id is required")
	}

	txn, found := h.store.FindByID(transactionID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(Envelope{
			Status:  "ERROR",
			Error:   ErrNotFound,
			Message: "transaction not found",
			Data:    fiber.Map{"transaction_id": transactionID},
		})
	}

	return respondSuccess(c, "transaction found", txn)
}

// ListTransactions returns every transaction, newest first.
func (h *PaymentHandler) ListTransactions(c *fiber.Ctx) error {
	txns := h.store.ListAll()
	return respondSuccess(c, "transactions retrieved", fiber.Map{
		"total":        len(txns),
		"transactions": txns,
	})
}

// ClearTransactions wipes the store.
func (h *PaymentHandler) ClearTransactions(c *fiber.Ctx) error {
	count := h.store.Clear()
	log.WithField("deleted", count).Info("transactions cleared")
	return respondSuccess(c, fmt.Sprintf("%d transaction(s) deleted", count), fiber.Map{
		"deleted":   count,
		"remaining": h.store.Count(),
	})
}

// parseAmount coerces the untyped total_amount into a positive integer.
// Numbers must be whole, positive and within int64 range; strings must parse
// as a positive base-10 integer.
func parseAmount(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		// float64(math.MaxInt64) is exactly 2^63; anything >= that would
		// overflow the int64 conversion.
		if n >= 1 && n < float64(math.MaxInt64) && n == math.Trunc(n) {
			return int64(n), true
		}
	case int:
		if n > 0 {
			return int64(n), true
		}
	case string:
		if parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil && parsed > 0 {
			return parsed, true
		}
	}
	return 0, false
}
