package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/martin0965432/SmartView/internal/models"
)

var (
	// ErrDispatchFailure matches every failed receipt send
	ErrDispatchFailure = errors.New("receipt dispatch failed")
	ErrNotConfigured   = errors.New("receipt email service is not configured")
)

// DispatchError describes a failed send. StatusCode is zero when the request
// never got a response; Body is the provider's response body, unchanged.
type DispatchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("receipt dispatch failed: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("receipt dispatch failed: %v", e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	return target == ErrDispatchFailure
}

// Config holds the transactional email provider settings
type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as accessToken when the provider account requires it
	PrivateKey string
	Timeout    time.Duration
	Location   *time.Location
}

// sendRequest is the body the provider's send endpoint expects
type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams TemplateParams `json:"template_params"`
}

// Service emails purchase tickets through the EmailJS HTTP API.
// Each send is a single attempt; there is no retry or queue.
type Service struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewService creates a receipt service. A nil client gets one with cfg.Timeout.
func NewService(cfg Config, client *http.Client, log *slog.Logger) *Service {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		cfg:    cfg,
		client: client,
		log:    log,
	}
}

// Configured reports whether provider credentials are set
func (s *Service) Configured() bool {
	return s.cfg.ServiceID != "" && s.cfg.TemplateID != "" && s.cfg.PublicKey != ""
}

// Send posts the ticket to the provider once. A nil error means HTTP 200.
func (s *Service) Send(ctx context.Context, ticket *models.PurchaseTicket) error {
	if !s.Configured() {
		return &DispatchError{Err: ErrNotConfigured}
	}

	body, err := json.Marshal(sendRequest{
		ServiceID:      s.cfg.ServiceID,
		TemplateID:     s.cfg.TemplateID,
		UserID:         s.cfg.PublicKey,
		AccessToken:    s.cfg.PrivateKey,
		TemplateParams: BuildTemplateParams(ticket, s.cfg.Location),
	})
	if err != nil {
		return &DispatchError{Err: fmt.Errorf("failed to encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return &DispatchError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("failed to send receipt", "order_id", ticket.OrderID, "error", err)
		return &DispatchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			s.log.Warn("failed to read receipt error body", "order_id", ticket.OrderID, "error", readErr)
		}
		s.log.Error("receipt rejected by email provider",
			"order_id", ticket.OrderID,
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return &DispatchError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	s.log.Info("receipt sent", "order_id", ticket.OrderID, "to", ticket.Customer.Email)
	return nil
}

// SendAsync runs Send on its own goroutine and delivers the result on the
// returned channel, which receives exactly one value.
func (s *Service) SendAsync(ctx context.Context, ticket *models.PurchaseTicket) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- s.Send(ctx, ticket)
	}()
	return result
}
