package payment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the kind of an authorization outcome
type Status string

const (
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
	StatusInvalid  Status = "invalid"
)

// Outcome is the result of submitting payment details.
// AuthorizationID is set only when Status is approved, Reason otherwise.
type Outcome struct {
	Status          Status `json:"status"`
	AuthorizationID string `json:"authorizationId,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

// Approved builds an approved outcome
func Approved(authorizationID string) Outcome {
	return Outcome{Status: StatusApproved, AuthorizationID: authorizationID}
}

// Declined builds a declined outcome
func Declined(reason string) Outcome {
	return Outcome{Status: StatusDeclined, Reason: reason}
}

// Invalid builds an invalid outcome
func Invalid(reason string) Outcome {
	return Outcome{Status: StatusInvalid, Reason: reason}
}

// IsApproved reports whether the payment went through
func (o Outcome) IsApproved() bool {
	return o.Status == StatusApproved
}

// Gateway authorizes a card payment. A real payment-provider client
// replaces MockAuthorizer behind this interface.
type Gateway interface {
	Authorize(ctx context.Context, cardNumber string, amount decimal.Decimal) (Outcome, error)
}

// MockAuthorizer simulates a payment gateway in test mode. It does not
// contact any payment provider.
type MockAuthorizer struct {
	table DecisionTable
	delay time.Duration
	newID func() string
	log   *slog.Logger
}

// Option configures a MockAuthorizer
type Option func(*MockAuthorizer)

// WithDecisionTable replaces DefaultDecisionTable
func WithDecisionTable(table DecisionTable) Option {
	return func(a *MockAuthorizer) {
		a.table = table
	}
}

// WithIDGenerator replaces the authorization ID generator
func WithIDGenerator(newID func() string) Option {
	return func(a *MockAuthorizer) {
		a.newID = newID
	}
}

// NewMockAuthorizer creates a mock authorizer that answers after delay.
// The delay only paces the checkout UX; zero answers immediately.
func NewMockAuthorizer(delay time.Duration, log *slog.Logger, opts ...Option) *MockAuthorizer {
	a := &MockAuthorizer{
		table: DefaultDecisionTable,
		delay: delay,
		newID: newAuthorizationID,
		log:   log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize waits for the simulated delay and then evaluates the decision
// table. The error is non-nil only when ctx ends first, in which case the
// attempt is abandoned and no outcome exists.
func (a *MockAuthorizer) Authorize(ctx context.Context, cardNumber string, amount decimal.Decimal) (Outcome, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-timer.C:
		}
	}

	if !amount.IsPositive() {
		a.log.Warn("payment rejected", "reason", ReasonBadAmount, "amount", amount.String())
		return Invalid(ReasonBadAmount), nil
	}

	status, reason := a.table.Decide(cardNumber)

	var outcome Outcome
	switch status {
	case StatusApproved:
		outcome = Approved(a.newID())
	case StatusDeclined:
		outcome = Declined(reason)
	default:
		outcome = Invalid(reason)
	}

	a.log.Info("payment authorization simulated",
		"status", outcome.Status,
		"card_last4", last4(cardNumber),
		"amount", amount.StringFixed(2),
	)

	return outcome, nil
}

func newAuthorizationID() string {
	return "pi_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}
