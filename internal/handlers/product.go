// internal/handlers/product.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	service ports.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ports.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "product")),
	}
}

// ProductRequest represents the request body for creating or updating a
// product. The group and producer are referenced by name.
type ProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Group        string          `json:"group"`
	Producer     string          `json:"producer"`
	Quantity     int             `json:"quantity,omitempty"`
	IncomePrice  decimal.Decimal `json:"income_price"`
	OutcomePrice decimal.Decimal `json:"outcome_price"`
}

// ToDomain converts the request to a domain model
func (r *ProductRequest) ToDomain() *domain.Product {
	return &domain.Product{
		Name:         r.Name,
		Description:  r.Description,
		GroupName:    r.Group,
		ProducerName: r.Producer,
		Quantity:     r.Quantity,
		IncomePrice:  r.IncomePrice,
		OutcomePrice: r.OutcomePrice,
	}
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.ToDomain()
	if err := h.service.Create(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, product)
}

// Get handles GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, product)
}

// List handles GET /api/v1/products with optional name, group_id and
// producer_id query filters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := ports.ProductFilter{
		NameLike: r.URL.Query().Get("name"),
	}
	if groupID := r.URL.Query().Get("group_id"); groupID != "" {
		if id, err := strconv.ParseInt(groupID, 10, 64); err == nil {
			filter.GroupID = id
		}
	}
	if producerID := r.URL.Query().Get("producer_id"); producerID != "" {
		if id, err := strconv.ParseInt(producerID, 10, 64); err == nil {
			filter.ProducerID = id
		}
	}

	products, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list products",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, products)
}

// Update handles PUT /api/v1/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid product id")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	product := req.ToDomain()
	product.ID = id

	if err := h.service.Update(ctx, product); err != nil {
		h.logger.ErrorContext(ctx, "failed to update product",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, product)
}

// Delete handles DELETE /api/v1/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "product deleted",
		"id":      id,
	})
}
