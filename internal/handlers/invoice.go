// internal/handlers/invoice.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// InvoiceHandler handles invoice posting HTTP requests
type InvoiceHandler struct {
	service ports.InvoiceService
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(service ports.InvoiceService, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "invoice")),
	}
}

// InvoiceItemRequest is one line of an invoice posting. Prices are not
// accepted from the client: the posting snapshots the catalog price.
type InvoiceItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// InvoiceRequest represents the request body for posting an invoice. The
// posting date is always the server's current date, never client-supplied.
type InvoiceRequest struct {
	PartnerID int64                `json:"partner_id"`
	WorkerID  int64                `json:"worker_id"`
	Type      string               `json:"type"`
	Items     []InvoiceItemRequest `json:"items"`
}

// ToDomain converts the request to a domain model
func (r *InvoiceRequest) ToDomain() (*domain.Invoice, error) {
	txType, err := domain.ParseTransactionType(r.Type)
	if err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{
		PartnerID: r.PartnerID,
		WorkerID:  r.WorkerID,
		Type:      txType,
		Date:      time.Now(),
		Items:     make([]domain.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		invoice.Items = append(invoice.Items, domain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	return invoice, nil
}

// Create handles POST /api/v1/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	invoice, err := req.ToDomain()
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	if _, err := h.service.Create(ctx, invoice); err != nil {
		h.logger.ErrorContext(ctx, "failed to post invoice",
			slog.String("type", req.Type),
			slog.Int64("partner_id", req.PartnerID),
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, invoice)
}

// Get handles GET /api/v1/invoices/{id}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid invoice id")
		return
	}

	invoice, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, invoice)
}

// List handles GET /api/v1/invoices with optional partner_id, worker_id,
// type and date query filters.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter, err := h.parseListFilter(r)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	invoices, err := h.service.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list invoices",
			slog.String("error", err.Error()))
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, invoices)
}

// Delete handles DELETE /api/v1/invoices/{id}. Stock movements from the
// original posting are never reversed.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondMessage(w, h.logger, http.StatusBadRequest, "invalid invoice id")
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]any{
		"message": "invoice deleted",
		"id":      id,
	})
}

func (h *InvoiceHandler) parseListFilter(r *http.Request) (ports.InvoiceFilter, error) {
	var filter ports.InvoiceFilter

	if partnerID := r.URL.Query().Get("partner_id"); partnerID != "" {
		id, err := strconv.ParseInt(partnerID, 10, 64)
		if err != nil {
			return filter, domain.NewValidation("partner_id", "must be an integer")
		}
		filter.PartnerID = id
	}
	if workerID := r.URL.Query().Get("worker_id"); workerID != "" {
		id, err := strconv.ParseInt(workerID, 10, 64)
		if err != nil {
			return filter, domain.NewValidation("worker_id", "must be an integer")
		}
		filter.WorkerID = id
	}
	if txType := r.URL.Query().Get("type"); txType != "" {
		parsed, err := domain.ParseTransactionType(txType)
		if err != nil {
			return filter, err
		}
		filter.Type = parsed
	}
	if date := r.URL.Query().Get("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return filter, domain.NewValidation("date", "must be in YYYY-MM-DD format")
		}
		filter.Date = &parsed
	}

	return filter, nil
}
