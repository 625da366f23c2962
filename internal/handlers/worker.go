// internal/handlers/worker.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// WorkerHandler handles warehouse worker HTTP requests
type WorkerHandler struct {
	service ports.WorkerService
	logger  *slog.Logger
}

// NewWorkerHandler creates a new worker handler
func NewWorkerHandler(service ports.WorkerService, logger *slog.Logger) *WorkerHandler {
	return &WorkerHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "worker")),
	}
}

// WorkerRequest represents the request body for creating or updating a worker
type WorkerRequest struct {
	Name string `json:"name"`
	Job  string `json:"job,omitempty"`
}

// ToDomain converts the request to a domain model
func (r *WorkerRequest) ToDomain() *domain.Worker {
	return &domain.Worker{
		Name: r.Name,
		Job:  r.Job,
	}
}

// Create handles POST /api/v1/workers
func (h *WorkerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req WorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	worker := req.ToDomain()
	if err := h.service.Create(ctx, worker); err != nil {
		h.logger.ErrorContext(ctx, "failed to create worker",
			slog.String("name", req.Name),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, worker)
}

// Get handles GET /api/v1/workers/{id}
func (h *WorkerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid worker id")
		return
	}

	worker, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, worker)
}

// List handles GET /api/v1/workers
func (h *WorkerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if name := r.URL.Query().Get("name"); name != "" {
		worker, err := h.service.GetByName(ctx, name)
		if err != nil {
			respondDomainError(w, h.logger, err)
			return
		}
		respondJSON(w, h.logger, http.StatusOK, []domain.Worker{*worker})
		return
	}

	workers, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list workers",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, workers)
}

// Update handles PUT /api/v1/workers/{id}
func (h *WorkerHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid worker id")
		return
	}

	var req WorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	worker := req.ToDomain()
	worker.ID = id

	if err := h.service.Update(ctx, worker); err != nil {
		h.logger.ErrorContext(ctx, "failed to update worker",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, worker)
}

// Delete handles DELETE /api/v1/workers/{id}
func (h *WorkerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid worker id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "worker deleted",
		"id":      id,
	})
}
