// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ReportEnqueuer queues background generation of a stock report.
type ReportEnqueuer interface {
	EnqueueStockReport(ctx context.Context) error
}

// ExportHandler handles stock export operations
type ExportHandler struct {
	products ports.ProductService
	reports  ReportEnqueuer
	logger   *slog.Logger
}

// NewExportHandler creates a new export handler. The report enqueuer is
// optional and may be nil.
func NewExportHandler(products ports.ProductService, reports ReportEnqueuer, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		products: products,
		reports:  reports,
		logger:   logger.With(slog.String("handler", "export")),
	}
}

// ExportProducts handles GET /api/v1/export/products.xlsx
func (h *ExportHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.products.List(ctx, ports.ProductFilter{})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load products for export",
			slog.String("error", err.Error()))
		respondMessage(w, h.logger, http.StatusInternalServerError, "failed to retrieve data")
		return
	}

	excelData, err := h.generateExcelFile(products)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file",
			slog.String("error", err.Error()))
		respondMessage(w, h.logger, http.StatusInternalServerError, "failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("stock_export_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(excelData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(excelData); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "stock export completed",
		slog.Int("total_rows", len(products)),
		slog.String("filename", filename))
}

// ScheduleReport handles POST /api/v1/export/report. The report is built in
// the background and written to the configured report directory.
func (h *ExportHandler) ScheduleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.reports == nil {
		respondMessage(w, h.logger, http.StatusServiceUnavailable, "background reports are not configured")
		return
	}

	if err := h.reports.EnqueueStockReport(ctx); err != nil {
		h.logger.ErrorContext(ctx, "failed to schedule stock report",
			slog.String("error", err.Error()))
		respondMessage(w, h.logger, http.StatusInternalServerError, "failed to schedule report")
		return
	}

	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{
		"message": "stock report scheduled",
	})
}

func (h *ExportHandler) generateExcelFile(products []domain.Product) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headers := []string{
		"ID", "Name", "Description", "Group", "Producer",
		"Quantity", "Income Price", "Outcome Price",
	}
	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for i := range products {
		p := &products[i]
		row := sheet.AddRow()
		row.AddCell().SetInt64(p.ID)
		row.AddCell().Value = p.Name
		row.AddCell().Value = p.Description
		row.AddCell().Value = p.GroupName
		row.AddCell().Value = p.ProducerName
		row.AddCell().SetInt(p.Quantity)
		row.AddCell().Value = p.IncomePrice.StringFixed(2)
		row.AddCell().Value = p.OutcomePrice.StringFixed(2)
	}

	// xlsx column indices are 1-based.
	for i := 1; i <= len(headers); i++ {
		sheet.SetColWidth(i, i, 15)
	}

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}
