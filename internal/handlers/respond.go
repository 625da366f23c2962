// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
)

// errorResponse is the JSON body for all error replies.
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondMessage(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, errorResponse{Error: message})
}

// respondDomainError maps typed domain errors onto HTTP statuses: validation
// errors are 400, missing entities 404, uniqueness violations 409, and
// insufficient stock 422. Anything else is an internal error.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		respondJSON(w, logger, http.StatusUnprocessableEntity, errorResponse{
			Error: stockErr.Error(),
			Details: map[string]any{
				"product":   stockErr.ProductName,
				"required":  stockErr.Required,
				"available": stockErr.Available,
			},
		})
		return
	}

	switch {
	case domain.IsValidation(err):
		respondMessage(w, logger, http.StatusBadRequest, err.Error())
	case domain.IsNotFound(err):
		respondMessage(w, logger, http.StatusNotFound, err.Error())
	case domain.IsAlreadyExists(err):
		respondMessage(w, logger, http.StatusConflict, err.Error())
	default:
		respondMessage(w, logger, http.StatusInternalServerError, "internal server error")
	}
}
