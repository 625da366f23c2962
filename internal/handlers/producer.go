// internal/handlers/producer.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ProducerHandler handles producer-related HTTP requests
type ProducerHandler struct {
	service ports.ProducerService
	logger  *slog.Logger
}

// NewProducerHandler creates a new producer handler
func NewProducerHandler(service ports.ProducerService, logger *slog.Logger) *ProducerHandler {
	return &ProducerHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "producer")),
	}
}

// ProducerRequest represents the request body for creating or updating a producer
type ProducerRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *ProducerRequest) ToDomain() *domain.Producer {
	return &domain.Producer{
		Name:    r.Name,
		Address: r.Address,
	}
}

// Create handles POST /api/v1/producers
func (h *ProducerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ProducerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	producer := req.ToDomain()
	if err := h.service.Create(ctx, producer); err != nil {
		h.logger.ErrorContext(ctx, "failed to create producer",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, producer)
}

// Get handles GET /api/v1/producers/{id}
func (h *ProducerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid producer id")
		return
	}

	producer, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, producer)
}

// List handles GET /api/v1/producers
func (h *ProducerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if name := r.URL.Query().Get("name"); name != "" {
		producer, err := h.service.GetByName(ctx, name)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, []domain.Producer{*producer})
		return
	}

	producers, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list producers",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, producers)
}

// Update handles PUT /api/v1/producers/{id}
func (h *ProducerHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid producer id")
		return
	}

	var req ProducerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	producer := req.ToDomain()
	producer.ID = id

	if err := h.service.Update(ctx, producer); err != nil {
		h.logger.ErrorContext(ctx, "failed to update producer",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, producer)
}

// Delete handles DELETE /api/v1/producers/{id}
func (h *ProducerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid producer id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "producer deleted",
		"id":      id,
	})
}
