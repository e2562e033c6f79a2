package models

import (
	"encoding/json"
	"time"
)

// Transaction statuses. PENDING is set at creation; notifications overwrite
// it with whatever the gateway reports, or UNKNOWN when the payload carries
// no status at all.
const (
	StatusPending = "PENDING"
	StatusUnknown = "UNKNOWN"
)

// Transaction mirrors one payment attempt's lifecycle locally.
type Transaction struct {
	ID               int               `json:"id"`
	TransactionID    string            `json:"transaction_id"`
	TotalAmount      int64             `json:"total_amount"`
	Currency         string            `json:"currency"`
	PaymentCountry   string            `json:"payment_country"`
	Status           string            `json:"status"`
	HostedURL        string            `json:"hosted_url,omitempty"`
	Providers        []json.RawMessage `json:"providers"`
	ReturnURL        string            `json:"return_url"`
	NotifyURL        string            `json:"notify_url"`
	Gateway          string            `json:"gateway,omitempty"`
	GatewayReference string            `json:"gateway_reference,omitempty"`
	Message          string            `json:"message,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// InitializePaymentRequest is the inbound body for POST /api/payment/initialize.
// TotalAmount is untyped because clients send it both as a JSON number and as
// a string; the handler coerces it to a positive integer or rejects it.
type InitializePaymentRequest struct {
	TotalAmount    any    `json:"total_amount"`
	Currency       string `json:"currency" validate:"omitempty,len=3,alpha"`
	PaymentCountry string `json:"payment_country" validate:"omitempty,len=2,alpha"`
	CustomerPhone  string `json:"customer_phone"`
	PaymentMethod  string `json:"payment_method"`
}

// PaymentNotification is the gateway's webhook payload. Everything is
// optional; the top-level status/message act as fallbacks for the nested
// fields.
type PaymentNotification struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		TransactionID      string `json:"transaction_id"`
		TransactionStatus  string `json:"transaction_status"`
		TransactionGateway string `json:"transaction_gateway"`
		GatewayReference   string `json:"gateway_reference"`
		Message            string `json:"message"`
	} `json:"data"`
}

// StatusUpdate carries the notification-driven mutation applied to a stored
// transaction. Fields overwrite unconditionally, matching gateway semantics
// where a notification is the authoritative latest word.
type StatusUpdate struct {
	Status           string
	Gateway          string
	GatewayReference string
	Message          string
}
