package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/martin0965432/SmartView/internal/models"
	"github.com/martin0965432/SmartView/internal/payment"
	"github.com/martin0965432/SmartView/internal/receipt"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
)

// paymentErrorResponse is returned when the card is not approved
type paymentErrorResponse struct {
	Error   string          `json:"error"`
	Payment payment.Outcome `json:"payment"`
}

// receiptErrorResponse carries the email provider's answer unchanged
type receiptErrorResponse struct {
	Error          string `json:"error"`
	ProviderStatus int    `json:"providerStatus,omitempty"`
	ProviderBody   string `json:"providerBody,omitempty"`
}

// CheckoutHandler handles purchases and their tickets
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	log             *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		log:             log,
	}
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode checkout request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	result, err := h.checkoutService.Checkout(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSelection):
			h.log.Info("checkout rejected", "item_id", req.ItemID, "error", err)
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		case errors.Is(err, repository.ErrItemNotFound):
			h.log.Info("checkout item not found", "item_id", req.ItemID)
			WriteError(w, http.StatusNotFound, "Product or pack not found", h.log)
		case errors.Is(err, service.ErrPaymentDeclined):
			h.log.Info("payment declined", "item_id", req.ItemID, "reason", result.Payment.Reason)
			WriteJSON(w, http.StatusPaymentRequired, paymentErrorResponse{
				Error:   "Payment declined: " + result.Payment.Reason,
				Payment: result.Payment,
			}, h.log)
		case errors.Is(err, service.ErrPaymentInvalid):
			h.log.Info("payment details invalid", "item_id", req.ItemID, "reason", result.Payment.Reason)
			WriteJSON(w, http.StatusUnprocessableEntity, paymentErrorResponse{
				Error:   "Invalid payment details: " + result.Payment.Reason,
				Payment: result.Payment,
			}, h.log)
		default:
			h.log.Error("checkout failed", "item_id", req.ItemID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
}

// GetOrder handles GET /api/order/{orderId}?email=
// The email must match the one the order was placed with; otherwise 404.
func (h *CheckoutHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		WriteError(w, http.StatusBadRequest, "email is required", h.log)
		return
	}

	ticket, err := h.checkoutService.GetTicket(r.Context(), orderID, email)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.log)
			return
		}
		h.log.Error("failed to get order", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, ticket, h.log)
}

// ResendReceipt handles POST /api/order/{orderId}/receipt with {"email": ...}
// - 200: receipt sent
// - 400: missing email
// - 404: no order with this ID and email
// - 502: the email provider rejected the receipt or could not be reached
// - 503: the email provider is not configured
func (h *CheckoutHandler) ResendReceipt(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req models.ResendReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode resend request", "order_id", orderID, "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		WriteError(w, http.StatusBadRequest, "email is required", h.log)
		return
	}

	err := h.checkoutService.ResendReceipt(r.Context(), orderID, req.Email)
	if err == nil {
		WriteJSON(w, http.StatusOK, models.ReceiptStatus{Sent: true}, h.log)
		return
	}

	var dispatchErr *receipt.DispatchError
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		WriteError(w, http.StatusNotFound, "Order not found", h.log)
	case errors.Is(err, receipt.ErrNotConfigured):
		WriteError(w, http.StatusServiceUnavailable, err.Error(), h.log)
	case errors.As(err, &dispatchErr):
		WriteJSON(w, http.StatusBadGateway, receiptErrorResponse{
			Error:          "Receipt could not be sent",
			ProviderStatus: dispatchErr.StatusCode,
			ProviderBody:   dispatchErr.Body,
		}, h.log)
	default:
		h.log.Error("failed to resend receipt", "order_id", orderID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
