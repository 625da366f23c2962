// internal/handlers/product_group.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ProductGroupHandler handles product group HTTP requests
type ProductGroupHandler struct {
	service ports.ProductGroupService
	logger  *slog.Logger
}

// NewProductGroupHandler creates a new product group handler
func NewProductGroupHandler(service ports.ProductGroupService, logger *slog.Logger) *ProductGroupHandler {
	return &ProductGroupHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "product_group")),
	}
}

// ProductGroupRequest represents the request body for creating or updating a group
type ProductGroupRequest struct {
	Name string `json:"name"`
}

// ToDomain converts the request to a domain model
func (r *ProductGroupRequest) ToDomain() *domain.ProductGroup {
	return &domain.ProductGroup{Name: r.Name}
}

// Create handles POST /api/v1/groups
func (h *ProductGroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProductGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	group := req.ToDomain()
	if err := h.service.Create(ctx, group); err != nil {
		h.logger.ErrorContext(ctx, "failed to create product group",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, group)
}

// Get handles GET /api/v1/groups/{id}
func (h *ProductGroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid group id")
		return
	}

	group, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, group)
}

// List handles GET /api/v1/groups
func (h *ProductGroupHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if name := r.URL.Query().Get("name"); name != "" {
		group, err := h.service.GetByName(ctx, name)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, []domain.ProductGroup{*group})
		return
	}

	groups, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list product groups",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, groups)
}

// Update handles PUT /api/v1/groups/{id}
func (h *ProductGroupHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid group id")
		return
	}

	var req ProductGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	group := req.ToDomain()
	group.ID = id

	if err := h.service.Update(ctx, group); err != nil {
		h.logger.ErrorContext(ctx, "failed to update product group",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, group)
}

// Delete handles DELETE /api/v1/groups/{id}
func (h *ProductGroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "product group deleted",
		"id":      id,
	})
}
