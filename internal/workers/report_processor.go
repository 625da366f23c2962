// internal/workers/report_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"
	"github.com/tealeg/xlsx/v3"

	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ReportProcessor generates stock level reports in the background
type ReportProcessor struct {
	products  ports.ProductRepository
	outputDir string
	logger    *slog.Logger
}

// NewReportProcessor creates a new report processor
func NewReportProcessor(products ports.ProductRepository, outputDir string, logger *slog.Logger) *ReportProcessor {
	return &ReportProcessor{
		products:  products,
		outputDir: outputDir,
		logger:    logger.With(slog.String("processor", "report")),
	}
}

// GenerateStockReport builds an xlsx snapshot of the whole catalog with
// current stock levels and writes it to the output directory.
func (p *ReportProcessor) GenerateStockReport(ctx context.Context, t *asynq.Task) error {
	var payload StockReportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	products, err := p.products.FindAll(ctx, ports.ProductFilter{})
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range []string{
		"ID", "Name", "Group", "Producer", "Quantity", "Income Price", "Outcome Price",
	} {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for i := range products {
		pr := &products[i]
		row := sheet.AddRow()
		row.AddCell().SetInt64(pr.ID)
		row.AddCell().Value = pr.Name
		row.AddCell().Value = pr.GroupName
		row.AddCell().Value = pr.ProducerName
		row.AddCell().SetInt(pr.Quantity)
		row.AddCell().Value = pr.IncomePrice.StringFixed(2)
		row.AddCell().Value = pr.OutcomePrice.StringFixed(2)
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("stock_report_%s.xlsx", payload.RequestedAt.Format("20060102_150405"))
	path := filepath.Join(p.outputDir, filename)
	if err := file.Save(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	p.logger.InfoContext(ctx, "stock report generated",
		slog.String("path", path),
		slog.Int("products", len(products)))

	return nil
}
