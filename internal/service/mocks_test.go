package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/martin0965432/SmartView/internal/events"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/payment"
	"github.com/shopspring/decimal"
)

type mockGateway struct {
	outcome    payment.Outcome
	err        error
	calls      int
	lastCard   string
	lastAmount decimal.Decimal
}

func (m *mockGateway) Authorize(ctx context.Context, cardNumber string, amount decimal.Decimal) (payment.Outcome, error) {
	m.calls++
	m.lastCard = cardNumber
	m.lastAmount = amount
	return m.outcome, m.err
}

type mockReceipts struct {
	mu      sync.Mutex
	err     error
	block   chan struct{}
	tickets []string
}

func (m *mockReceipts) SendAsync(ctx context.Context, ticket *models.PurchaseTicket) <-chan error {
	m.mu.Lock()
	m.tickets = append(m.tickets, ticket.OrderID)
	m.mu.Unlock()

	result := make(chan error, 1)
	go func() {
		if m.block != nil {
			<-m.block
		}
		result <- m.err
	}()
	return result
}

func (m *mockReceipts) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tickets...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	err    error
	events []events.CheckoutEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := event.(events.CheckoutEvent); ok {
		p.events = append(p.events, e)
	}
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

var errBroker = errors.New("broker unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
