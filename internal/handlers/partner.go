// internal/handlers/partner.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// PartnerHandler handles partner-related HTTP requests
type PartnerHandler struct {
	service ports.PartnerService
	logger  *slog.Logger
}

// NewPartnerHandler creates a new partner handler
func NewPartnerHandler(service ports.PartnerService, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "partner")),
	}
}

// PartnerRequest represents the request body for creating or updating a partner
type PartnerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Email      string `json:"email,omitempty"`
	Requisites string `json:"requisites"`
}

// ToDomain converts the request to a domain model
func (r *PartnerRequest) ToDomain() *domain.Partner {
	return &domain.Partner{
		Name:       r.Name,
		Address:    r.Address,
		Email:      r.Email,
		Requisites: r.Requisites,
	}
}

// Create handles POST /api/v1/partners
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	partner := req.ToDomain()
	if err := h.service.Create(ctx, partner); err != nil {
		h.logger.ErrorContext(ctx, "failed to create partner",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, partner)
}

// Get handles GET /api/v1/partners/{id}
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid partner id")
		return
	}

	partner, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, partner)
}

// List handles GET /api/v1/partners. A name or requisites query parameter
// narrows to a single partner; address and email match as substrings.
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if name := r.URL.Query().Get("name"); name != "" {
		partner, err := h.service.GetByName(ctx, name)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, []domain.Partner{*partner})
		return
	}

	if requisites := r.URL.Query().Get("requisites"); requisites != "" {
		partner, err := h.service.GetByRequisites(ctx, requisites)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, []domain.Partner{*partner})
		return
	}

	if address := r.URL.Query().Get("address"); address != "" {
		partners, err := h.service.ListByAddress(ctx, address)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, partners)
		return
	}

	if email := r.URL.Query().Get("email"); email != "" {
		partners, err := h.service.ListByEmail(ctx, email)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, partners)
		return
	}

	partners, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list partners",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, partners)
}

// Update handles PUT /api/v1/partners/{id}
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid partner id")
		return
	}

	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	partner := req.ToDomain()
	partner.ID = id

	if err := h.service.Update(ctx, partner); err != nil {
		h.logger.ErrorContext(ctx, "failed to update partner",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, partner)
}

// Delete handles DELETE /api/v1/partners/{id}
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid partner id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "partner deleted",
		"id":      id,
	})
}
