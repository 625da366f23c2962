// internal/workers/stock_alert_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/mvolkova/warehouse-be/internal/pkg/config"
)

// StockAlertProcessor delivers low stock notifications
type StockAlertProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewStockAlertProcessor creates a new stock alert processor
func NewStockAlertProcessor(config *config.Config, logger *slog.Logger) *StockAlertProcessor {
	return &StockAlertProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "stock_alert")),
	}
}

// HandleLowStockAlert notifies the warehouse mailbox about a product whose
// stock level fell to or below the threshold.
func (p *StockAlertProcessor) HandleLowStockAlert(ctx context.Context, t *asynq.Task) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "low stock alert",
		slog.Int64("product_id", payload.ProductID),
		slog.String("product", payload.ProductName),
		slog.Int("quantity", payload.Quantity))

	// In development, just log the alert
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "alert email would be sent",
			slog.String("to", p.config.Inventory.AlertEmail),
			slog.String("product", payload.ProductName))
		return nil
	}

	subject := fmt.Sprintf("Low stock: %s", payload.ProductName)
	body := fmt.Sprintf("Product %q (id %d) is down to %d units.",
		payload.ProductName, payload.ProductID, payload.Quantity)

	from := "noreply@warehouse.local"
	to := p.config.Inventory.AlertEmail
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", p.config.SMTP.Username, p.config.SMTP.Password, p.config.SMTP.Host)
	addr := fmt.Sprintf("%s:%d", p.config.SMTP.Host, p.config.SMTP.Port)
	if err := smtp.SendMail(addr, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	p.logger.InfoContext(ctx, "alert email sent", slog.String("to", to))
	return nil
}
