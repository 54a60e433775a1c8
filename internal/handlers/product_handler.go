package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/martin0965432/SmartView/internal/repository"
	"github.com/martin0965432/SmartView/internal/service"
)

// ProductHandler serves the catalog
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/product
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// GetProduct handles GET /api/product/{productId}
// - 200: successful operation
// - 404: Product not found
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	product, err := h.service.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			h.logger.Info("product not found", "productId", productID)
			WriteError(w, http.StatusNotFound, "Product not found", h.logger)
			return
		}

		h.logger.Error("failed to get product", "productId", productID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// ListPacks handles GET /api/pack
func (h *ProductHandler) ListPacks(w http.ResponseWriter, r *http.Request) {
	packs, err := h.service.ListPacks(r.Context())
	if err != nil {
		h.logger.Error("failed to list packs", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, packs, h.logger)
}

// GetPack handles GET /api/pack/{packId}
func (h *ProductHandler) GetPack(w http.ResponseWriter, r *http.Request) {
	packID := chi.URLParam(r, "packId")

	pack, err := h.service.GetPack(r.Context(), packID)
	if err != nil {
		if errors.Is(err, repository.ErrPackNotFound) {
			h.logger.Info("pack not found", "packId", packID)
			WriteError(w, http.StatusNotFound, "Pack not found", h.logger)
			return
		}

		h.logger.Error("failed to get pack", "packId", packID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, pack, h.logger)
}
