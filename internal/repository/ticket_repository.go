package repository

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/martin0965432/SmartView/internal/models"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrTicketExists   = errors.New("ticket already exists")
)

// TicketRepository keeps purchase tickets for the lifetime of the process.
// A ticket is addressed by its order ID together with the customer email.
type TicketRepository interface {
	Save(ctx context.Context, ticket *models.PurchaseTicket) error
	GetByOrderID(ctx context.Context, orderID, email string) (*models.PurchaseTicket, error)
}

// InMemoryTicketRepository is the session store for tickets. Nothing is
// written to disk; tickets are gone when the process exits.
type InMemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string][]models.PurchaseTicket
}

func NewInMemoryTicketRepository() *InMemoryTicketRepository {
	return &InMemoryTicketRepository{
		tickets: make(map[string][]models.PurchaseTicket),
	}
}

// Save stores a ticket. Order IDs are not unique: tickets of different
// customers may share one and are kept side by side. Saving a second ticket
// for the same order ID and email returns ErrTicketExists.
func (r *InMemoryTicketRepository) Save(ctx context.Context, ticket *models.PurchaseTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.tickets[ticket.OrderID] {
		if sameEmail(existing.Customer.Email, ticket.Customer.Email) {
			return ErrTicketExists
		}
	}
	r.tickets[ticket.OrderID] = append(r.tickets[ticket.OrderID], copyTicket(*ticket))
	return nil
}

// GetByOrderID returns a copy of the ticket with the given order ID that was
// bought with email. A blank or mismatching email is ErrTicketNotFound.
func (r *InMemoryTicketRepository) GetByOrderID(ctx context.Context, orderID, email string) (*models.PurchaseTicket, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrTicketNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ticket := range r.tickets[orderID] {
		if sameEmail(ticket.Customer.Email, email) {
			out := copyTicket(ticket)
			return &out, nil
		}
	}
	return nil, ErrTicketNotFound
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func copyTicket(t models.PurchaseTicket) models.PurchaseTicket {
	t.Products = append([]string(nil), t.Products...)
	return t
}
