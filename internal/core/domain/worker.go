// internal/core/domain/worker.go
package domain

import "time"

// Worker is a warehouse employee who handles invoices.
type Worker struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Job       string    `json:"job"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate performs domain validation on the worker.
func (w *Worker) Validate() error {
	if w.Name == "" {
		return NewValidation("name", "is required")
	}
	if w.Job == "" {
		return NewValidation("job", "is required")
	}
	return nil
}
