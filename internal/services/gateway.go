package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/example/payrelay/internal/config"
)

const initializePath = "/api/gateway/initialize"

// GatewayClient talks to the external payment gateway's initialize endpoint.
type GatewayClient struct {
	client *resty.Client
	cfg    *config.Config
}

// NewGatewayClient builds a client with the fixed 10 second timeout. No
// automatic retries: initialization is at-most-once per inbound request.
func NewGatewayClient(cfg *config.Config) *GatewayClient {
	return &GatewayClient{
		client: resty.New().
			SetTimeout(10 * time.Second).
			SetRetryCount(0),
		cfg: cfg,
	}
}

// InitializePayload is the JSON body sent to the gateway.
type InitializePayload struct {
	TotalAmount    int64  `json:"total_amount"`
	Currency       string `json:"currency"`
	TransactionID  string `json:"transaction_id"`
	ReturnURL      string `json:"return_url"`
	NotifyURL      string `json:"notify_url"`
	PaymentCountry string `json:"payment_country"`
	CustomerPhone  string `json:"customer_phone,omitempty"`
	PaymentMethod  string `json:"payment_method,omitempty"`
}

// InitializeResult is the gateway's parsed response. transaction_url and
// providers are optional; their absence is not an error.
type InitializeResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TransactionURL string            `json:"transaction_url"`
		Providers      []json.RawMessage `json:"providers"`
	} `json:"data"`
}

// GatewayError carries the upstream failure through to the caller. A zero
// StatusCode means the gateway never answered (timeout or transport error).
type GatewayError struct {
	StatusCode int
	Message    string
	Details    json.RawMessage
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("gateway unreachable: %s", e.Message)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Message)
}

// gatewayErrorBody is the best-effort shape of a gateway failure response.
type gatewayErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Initialize posts a payment session to the gateway. Credentials are the
// server-held Basic pair plus the x-api-key and mode extension headers.
func (g *GatewayClient) Initialize(ctx context.Context, payload InitializePayload) (*InitializeResult, error) {
	correlationID := uuid.NewString()

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", g.cfg.GatewayAPIKey).
		SetHeader("mode", g.cfg.GatewayMode).
		SetHeader("X-Correlation-ID", correlationID).
		SetBasicAuth(g.cfg.GatewayUser, g.cfg.GatewayPassword).
		SetBody(payload).
		Post(g.cfg.GatewayBaseURL + initializePath)

	if err != nil {
		log.WithFields(log.Fields{
			"transaction_id": payload.TransactionID,
			"correlation_id": correlationID,
		}).Error("gateway initialize request failed: ", err)
		return nil, &GatewayError{Message: err.Error()}
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		var body gatewayErrorBody
		_ = json.Unmarshal(resp.Body(), &body)

		message := body.Message
		if message == "" {
			message = body.Error
		}
		if message == "" {
			message = "payment initialization failed"
		}

		log.WithFields(log.Fields{
			"transaction_id": payload.TransactionID,
			"correlation_id": correlationID,
			"status":         resp.StatusCode(),
		}).Error("gateway rejected initialize: ", message)

		// Details are echoed back to the caller as raw JSON, so a non-JSON
		// upstream body is dropped rather than forwarded.
		var details json.RawMessage
		if json.Valid(resp.Body()) {
			details = json.RawMessage(resp.Body())
		}

		return nil, &GatewayError{
			StatusCode: resp.StatusCode(),
			Message:    message,
			Details:    details,
		}
	}

	var result InitializeResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		// A 2xx with an unexpected body still counts as success, just with
		// no hosted URL or providers.
		log.WithField("correlation_id", correlationID).
			Warn("gateway initialize response not parseable: ", err)
	}

	log.WithFields(log.Fields{
		"transaction_id": payload.TransactionID,
		"correlation_id": correlationID,
		"amount":         payload.TotalAmount,
		"currency":       payload.Currency,
	}).Info("payment initialized with gateway")

	return &result, nil
}
