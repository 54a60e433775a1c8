package events

import (
	"context"
	"time"
)

// Checkout event types
const (
	TicketCreated   = "checkout.ticket_created"
	PaymentApproved = "checkout.payment_approved"
	PaymentDeclined = "checkout.payment_declined"
	PaymentInvalid  = "checkout.payment_invalid"
	ReceiptSent     = "checkout.receipt_sent"
	ReceiptFailed   = "checkout.receipt_failed"
)

// CheckoutEvent records one step of a checkout attempt
type CheckoutEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	ItemName   string    `json:"item_name,omitempty"`
	Total      string    `json:"total,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits domain events keyed by aggregate ID
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }
