package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPaymentMethod is printed on every ticket; only card payments exist
const DefaultPaymentMethod = "Tarjeta"

// Customer holds the contact fields captured by the checkout form
type Customer struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shippingAddress"`
}

// PurchaseTicket is the immutable record of a completed checkout.
// It only lives in the in-memory session store.
type PurchaseTicket struct {
	OrderID         string          `json:"orderId"`
	Customer        Customer        `json:"customer"`
	ItemName        string          `json:"itemName"`
	ItemDescription string          `json:"itemDescription"`
	Products        []string        `json:"products"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CheckoutRequest represents an incoming direct-purchase request
type CheckoutRequest struct {
	ItemID     string   `json:"itemId"`
	Customer   Customer `json:"customer"`
	CardNumber string   `json:"cardNumber"`
}

// ResendReceiptRequest names the customer a stored ticket belongs to
type ResendReceiptRequest struct {
	Email string `json:"email"`
}

// ReceiptStatus reports the outcome of the emailed receipt for a ticket
type ReceiptStatus struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}
