// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// Task type identifiers
const (
	TypeLowStockAlert = "stock:low_alert"
	TypeStockReport   = "stock:report"
)

// LowStockAlertPayload carries the product whose on-hand quantity dropped
// to or below the configured threshold.
type LowStockAlertPayload struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// StockReportPayload requests generation of a stock level report.
type StockReportPayload struct {
	RequestedAt time.Time `json:"requested_at"`
}

// NewLowStockAlertTask creates a low stock alert task.
func NewLowStockAlertTask(productID int64, productName string, quantity int) (*asynq.Task, error) {
	payload, err := json.Marshal(LowStockAlertPayload{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, payload, asynq.MaxRetry(3)), nil
}

// NewStockReportTask creates a stock report generation task.
func NewStockReportTask() (*asynq.Task, error) {
	payload, err := json.Marshal(StockReportPayload{RequestedAt: time.Now()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeStockReport, payload, asynq.MaxRetry(2), asynq.Timeout(5*time.Minute)), nil
}

// Enqueuer hands tasks to the asynq queue.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

var _ ports.TaskEnqueuer = (*Enqueuer)(nil)

// NewEnqueuer creates a new task enqueuer
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueLowStockAlert queues a low stock alert for background delivery.
func (e *Enqueuer) EnqueueLowStockAlert(ctx context.Context, productID int64, productName string, quantity int) error {
	task, err := NewLowStockAlertTask(productID, productName, quantity)
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue low stock alert: %w", err)
	}

	e.logger.DebugContext(ctx, "low stock alert enqueued",
		slog.String("task_id", info.ID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity))

	return nil
}

// EnqueueStockReport queues generation of a full stock report.
func (e *Enqueuer) EnqueueStockReport(ctx context.Context) error {
	task, err := NewStockReportTask()
	if err != nil {
		return err
	}

	info, err := e.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue stock report: %w", err)
	}

	e.logger.DebugContext(ctx, "stock report enqueued", slog.String("task_id", info.ID))
	return nil
}
