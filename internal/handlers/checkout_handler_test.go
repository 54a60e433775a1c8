package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/payment"
	"github.com/martin0965432/SmartView/internal/receipt"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
	"github.com/martin0965432/SmartView/pkg/logger"
)

// emailProvider fakes the transactional email API
type emailProvider struct {
	status int
	body   string
	calls  atomic.Int32
}

func (p *emailProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.calls.Add(1)
	w.WriteHeader(p.status)
	_, _ = w.Write([]byte(p.body))
}

func newCheckoutRouter(t *testing.T, provider *emailProvider) chi.Router {
	t.Helper()

	server := httptest.NewServer(provider)
	t.Cleanup(server.Close)

	log := logger.New("error")
	receipts := receipt.NewService(receipt.Config{
		Endpoint:   server.URL,
		ServiceID:  "service_test",
		TemplateID: "template_test",
		PublicKey:  "public_test",
		Timeout:    5 * time.Second,
	}, nil, log)

	svc := service.NewCheckoutService(
		repository.NewCatalog(),
		service.NewTicketBuilder(),
		payment.NewMockAuthorizer(0, log),
		repository.NewInMemoryTicketRepository(),
		receipts,
		nil,
		log,
	)
	handler := NewCheckoutHandler(svc, log)

	r := chi.NewRouter()
	r.Post("/api/checkout", handler.Checkout)
	r.Get("/api/order/{orderId}", handler.GetOrder)
	r.Post("/api/order/{orderId}/receipt", handler.ResendReceipt)
	return r
}

func checkoutBody(itemID, card string) models.CheckoutRequest {
	return models.CheckoutRequest{
		ItemID: itemID,
		Customer: models.Customer{
			Name:            "Ana López",
			Email:           "ana@example.com",
			Phone:           "+52 938 123 4567",
			ShippingAddress: "Av. Corregidora 26, Ciudad del Carmen",
		},
		CardNumber: card,
	}
}

func postJSON(r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	var raw []byte
	if s, ok := body.(string); ok {
		raw = []byte(s)
	} else {
		raw, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedEmails int32
	}{
		{
			name:           "approved product",
			requestBody:    checkoutBody("baston_inteligente", "4242424242424242"),
			expectedStatus: http.StatusOK,
			expectedEmails: 1,
		},
		{
			name:           "approved pack with spaced card",
			requestBody:    checkoutBody("pack_vision", "5555 5555 5555 4444"),
			expectedStatus: http.StatusOK,
			expectedEmails: 1,
		},
		{
			name:           "declined card",
			requestBody:    checkoutBody("pack_vision", "4000000000000002"),
			expectedStatus: http.StatusPaymentRequired,
		},
		{
			name:           "invalid card",
			requestBody:    checkoutBody("pack_vision", "1234"),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "unknown item",
			requestBody:    checkoutBody("monoculo", "4242424242424242"),
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "missing customer data",
			requestBody: models.CheckoutRequest{
				ItemID:     "baston_inteligente",
				CardNumber: "4242424242424242",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "invalid json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			provider := &emailProvider{status: http.StatusOK, body: "OK"}
			r := newCheckoutRouter(t, provider)

			// Execute
			w := postJSON(r, "/api/checkout", tt.requestBody)

			// Assert
			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.expectedStatus, w.Body.String())
			}
			if got := provider.calls.Load(); got != tt.expectedEmails {
				t.Errorf("emails sent = %d, want %d", got, tt.expectedEmails)
			}
		})
	}
}

func TestCheckoutHandler_ApprovedResponse(t *testing.T) {
	// Setup
	provider := &emailProvider{status: http.StatusOK}
	r := newCheckoutRouter(t, provider)

	// Execute
	w := postJSON(r, "/api/checkout", checkoutBody("pack_vision", "4242424242424242"))

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result service.CheckoutResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.Payment.Status != payment.StatusApproved {
		t.Errorf("payment status = %s, want approved", result.Payment.Status)
	}
	if result.Ticket == nil {
		t.Fatal("ticket missing from response")
	}
	if result.Ticket.Total.StringFixed(2) != "5999.00" {
		t.Errorf("total = %s, want 5999.00", result.Ticket.Total.StringFixed(2))
	}
	if result.Ticket.Discount.StringFixed(2) != "499.00" {
		t.Errorf("discount = %s, want 499.00", result.Ticket.Discount.StringFixed(2))
	}
	if result.Receipt == nil || !result.Receipt.Sent {
		t.Errorf("receipt = %+v, want sent", result.Receipt)
	}

	// The ticket is kept for the session
	req := httptest.NewRequest(http.MethodGet, "/api/order/"+result.Ticket.OrderID+"?email=ana@example.com", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("get order status = %d, want 200", rec.Code)
	}
}

func TestCheckoutHandler_ReceiptFailureStillApproves(t *testing.T) {
	provider := &emailProvider{status: http.StatusBadRequest, body: "The user_id parameter is invalid"}
	r := newCheckoutRouter(t, provider)

	w := postJSON(r, "/api/checkout", checkoutBody("dije_sensores", "4242424242424242"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var result service.CheckoutResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.Receipt == nil || result.Receipt.Sent {
		t.Fatalf("receipt = %+v, want failure", result.Receipt)
	}
	if !bytes.Contains([]byte(result.Receipt.Error), []byte("The user_id parameter is invalid")) {
		t.Errorf("receipt error %q does not carry the provider body", result.Receipt.Error)
	}
}

func TestCheckoutHandler_DeclinedResponse(t *testing.T) {
	r := newCheckoutRouter(t, &emailProvider{status: http.StatusOK})

	w := postJSON(r, "/api/checkout", checkoutBody("baston_inteligente", "4000000000000002"))

	var response paymentErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Payment.Status != payment.StatusDeclined {
		t.Errorf("payment status = %s, want declined", response.Payment.Status)
	}
	if response.Payment.Reason != payment.ReasonCardRejected {
		t.Errorf("reason = %q, want %q", response.Payment.Reason, payment.ReasonCardRejected)
	}
}

func TestCheckoutHandler_ResendReceipt(t *testing.T) {
	// Setup
	provider := &emailProvider{status: http.StatusOK}
	r := newCheckoutRouter(t, provider)

	w := postJSON(r, "/api/checkout", checkoutBody("pack_esencial", "4242424242424242"))
	var result service.CheckoutResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	orderID := result.Ticket.OrderID

	owner := models.ResendReceiptRequest{Email: "ana@example.com"}

	// Execute & Assert: success
	w = postJSON(r, "/api/order/"+orderID+"/receipt", owner)
	if w.Code != http.StatusOK {
		t.Errorf("resend status = %d, want 200", w.Code)
	}

	// provider failure surfaces the raw body
	provider.status = http.StatusInternalServerError
	provider.body = "Internal error"

	w = postJSON(r, "/api/order/"+orderID+"/receipt", owner)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("resend status = %d, want 502", w.Code)
	}

	var failure receiptErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&failure); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if failure.ProviderStatus != http.StatusInternalServerError {
		t.Errorf("provider status = %d, want 500", failure.ProviderStatus)
	}
	if failure.ProviderBody != "Internal error" {
		t.Errorf("provider body = %q, want %q", failure.ProviderBody, "Internal error")
	}

	// unknown order
	w = postJSON(r, "/api/order/VS-0000000000/receipt", owner)
	if w.Code != http.StatusNotFound {
		t.Errorf("resend status = %d, want 404", w.Code)
	}

	// someone else's email never reaches the provider
	calls := provider.calls.Load()
	w = postJSON(r, "/api/order/"+orderID+"/receipt", models.ResendReceiptRequest{Email: "eve@example.com"})
	if w.Code != http.StatusNotFound {
		t.Errorf("resend status = %d, want 404", w.Code)
	}
	if provider.calls.Load() != calls {
		t.Errorf("provider called for a mismatching email")
	}

	// missing email
	w = postJSON(r, "/api/order/"+orderID+"/receipt", models.ResendReceiptRequest{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("resend status = %d, want 400", w.Code)
	}
}

func TestCheckoutHandler_GetOrder_RequiresOwnerEmail(t *testing.T) {
	r := newCheckoutRouter(t, &emailProvider{status: http.StatusOK})

	w := postJSON(r, "/api/checkout", checkoutBody("baston_inteligente", "4242424242424242"))
	var result service.CheckoutResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	orderID := result.Ticket.OrderID

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "owner email",
			path:           "/api/order/" + orderID + "?email=ana@example.com",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "owner email in other case",
			path:           "/api/order/" + orderID + "?email=ANA@example.com",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "other email",
			path:           "/api/order/" + orderID + "?email=eve@example.com",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "missing email",
			path:           "/api/order/" + orderID,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown order",
			path:           "/api/order/VS-0000000000?email=ana@example.com",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}
