package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/martin0965432/SmartView/internal/events"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/payment"
	"github.com/martin0965432/SmartView/internal/repository"
)

var (
	ErrPaymentDeclined = errors.New("payment declined")
	ErrPaymentInvalid  = errors.New("invalid payment details")
)

// ItemResolver looks up a product or pack by ID
type ItemResolver interface {
	Resolve(ctx context.Context, itemID string) (models.Selection, error)
}

// ReceiptSender emails a ticket and reports the outcome on the returned channel
type ReceiptSender interface {
	SendAsync(ctx context.Context, ticket *models.PurchaseTicket) <-chan error
}

// CheckoutResult is what a checkout attempt produced. Ticket is nil unless
// the payment was approved.
type CheckoutResult struct {
	Ticket  *models.PurchaseTicket `json:"ticket,omitempty"`
	Payment payment.Outcome        `json:"payment"`
	Receipt *models.ReceiptStatus  `json:"receipt,omitempty"`
}

// CheckoutService runs a purchase: build the ticket, authorize the card,
// keep the ticket for the session and email the receipt.
type CheckoutService struct {
	items     ItemResolver
	builder   *TicketBuilder
	gateway   payment.Gateway
	tickets   repository.TicketRepository
	receipts  ReceiptSender
	publisher events.Publisher
	log       *slog.Logger
}

// NewCheckoutService creates a new checkout service. A nil publisher drops events.
func NewCheckoutService(
	items ItemResolver,
	builder *TicketBuilder,
	gateway payment.Gateway,
	tickets repository.TicketRepository,
	receipts ReceiptSender,
	publisher events.Publisher,
	log *slog.Logger,
) *CheckoutService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &CheckoutService{
		items:     items,
		builder:   builder,
		gateway:   gateway,
		tickets:   tickets,
		receipts:  receipts,
		publisher: publisher,
		log:       log,
	}
}

// Checkout purchases the item named in req.
//
// A declined or invalid card returns a result carrying the payment outcome
// together with ErrPaymentDeclined or ErrPaymentInvalid. A failed receipt does
// not fail the purchase; it is reported in the result's Receipt status.
func (s *CheckoutService) Checkout(ctx context.Context, req models.CheckoutRequest) (*CheckoutResult, error) {
	sel, err := s.items.Resolve(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.builder.Build(sel, req.Customer)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, ticket, events.TicketCreated, "")

	outcome, err := s.gateway.Authorize(ctx, payment.NormalizeCardNumber(req.CardNumber), ticket.Total)
	if err != nil {
		return nil, fmt.Errorf("payment authorization: %w", err)
	}

	result := &CheckoutResult{Payment: outcome}

	switch outcome.Status {
	case payment.StatusApproved:
		s.publish(ctx, ticket, events.PaymentApproved, outcome.AuthorizationID)
	case payment.StatusDeclined:
		s.publish(ctx, ticket, events.PaymentDeclined, outcome.Reason)
		return result, fmt.Errorf("%w: %s", ErrPaymentDeclined, outcome.Reason)
	default:
		s.publish(ctx, ticket, events.PaymentInvalid, outcome.Reason)
		return result, fmt.Errorf("%w: %s", ErrPaymentInvalid, outcome.Reason)
	}

	result.Ticket = ticket

	// The purchase stands even if the ticket cannot be kept; it just
	// cannot be looked up or re-sent later.
	if err := s.tickets.Save(ctx, ticket); err != nil {
		s.log.Error("failed to store ticket", "order_id", ticket.OrderID, "error", err)
	}

	status := s.dispatchReceipt(ctx, ticket)
	result.Receipt = &status

	s.log.Info("checkout completed",
		"order_id", ticket.OrderID,
		"item", ticket.ItemName,
		"total", ticket.Total.StringFixed(2),
		"receipt_sent", status.Sent,
	)

	return result, nil
}

// GetTicket returns a ticket created earlier in this process. The email must
// be the one the ticket was bought with.
func (s *CheckoutService) GetTicket(ctx context.Context, orderID, email string) (*models.PurchaseTicket, error) {
	return s.tickets.GetByOrderID(ctx, orderID, email)
}

// ResendReceipt emails a stored ticket again to the customer identified by
// email. The error is the dispatch failure, if any.
func (s *CheckoutService) ResendReceipt(ctx context.Context, orderID, email string) error {
	ticket, err := s.tickets.GetByOrderID(ctx, orderID, email)
	if err != nil {
		return err
	}

	done := s.receipts.SendAsync(context.WithoutCancel(ctx), ticket)

	select {
	case err := <-done:
		s.publishReceipt(ctx, ticket, err)
		return err
	case <-ctx.Done():
		go s.finishReceipt(context.WithoutCancel(ctx), ticket, done)
		return ctx.Err()
	}
}

// dispatchReceipt sends the receipt detached from the caller's cancellation
// and waits for the result until ctx ends
func (s *CheckoutService) dispatchReceipt(ctx context.Context, ticket *models.PurchaseTicket) models.ReceiptStatus {
	done := s.receipts.SendAsync(context.WithoutCancel(ctx), ticket)

	select {
	case err := <-done:
		s.publishReceipt(ctx, ticket, err)
		if err != nil {
			return models.ReceiptStatus{Error: err.Error()}
		}
		return models.ReceiptStatus{Sent: true}
	case <-ctx.Done():
		go s.finishReceipt(context.WithoutCancel(ctx), ticket, done)
		return models.ReceiptStatus{Error: ctx.Err().Error()}
	}
}

// finishReceipt records the outcome of a send nobody is waiting for anymore
func (s *CheckoutService) finishReceipt(ctx context.Context, ticket *models.PurchaseTicket, done <-chan error) {
	err := <-done
	if err != nil {
		s.log.Warn("receipt failed after caller returned", "order_id", ticket.OrderID, "error", err)
	} else {
		s.log.Info("receipt sent after caller returned", "order_id", ticket.OrderID)
	}
	s.publishReceipt(ctx, ticket, err)
}

func (s *CheckoutService) publishReceipt(ctx context.Context, ticket *models.PurchaseTicket, err error) {
	if err != nil {
		s.publish(ctx, ticket, events.ReceiptFailed, err.Error())
		return
	}
	s.publish(ctx, ticket, events.ReceiptSent, ticket.Customer.Email)
}

// publish emits a checkout event. Broker errors are logged and otherwise ignored.
func (s *CheckoutService) publish(ctx context.Context, ticket *models.PurchaseTicket, eventType, detail string) {
	event := events.CheckoutEvent{
		Type:       eventType,
		OrderID:    ticket.OrderID,
		ItemName:   ticket.ItemName,
		Total:      ticket.Total.StringFixed(2),
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, ticket.OrderID, event); err != nil {
		s.log.Warn("failed to publish checkout event", "type", eventType, "order_id", ticket.OrderID, "error", err)
	}
}
