// internal/adapters/db/worker_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// workerRepository implements ports.WorkerRepository
type workerRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewWorkerRepository creates a new worker repository
func NewWorkerRepository(db *Database, logger *slog.Logger) ports.WorkerRepository {
	return &workerRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "worker")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *workerRepository) WithTx(tx pgx.Tx) ports.WorkerRepository {
	return &workerRepository{q: tx, logger: r.logger}
}

// Save creates a new worker
func (r *workerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	query := `
		INSERT INTO worker (name, job, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, worker.Name, worker.Job, time.Now()).
		Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save worker: %w", err)
	}

	r.logger.DebugContext(ctx, "worker saved",
		slog.Int64("id", worker.ID),
		slog.String("name", worker.Name))

	return nil
}

// Update replaces an existing worker's data
func (r *workerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	query := `
		UPDATE worker SET name = $2, job = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query, worker.ID, worker.Name, worker.Job, time.Now()).
		Scan(&worker.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("worker", fmt.Sprintf("id = %d", worker.ID))
		}
		return fmt.Errorf("failed to update worker: %w", err)
	}

	return nil
}

// Delete removes a worker
func (r *workerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM worker WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("worker", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "worker deleted", slog.Int64("id", id))
	return nil
}

// FindByID retrieves a worker by id
func (r *workerRepository) FindByID(ctx context.Context, id int64) (*domain.Worker, error) {
	query := `SELECT id, name, job, created_at, updated_at FROM worker WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByName retrieves a worker by its unique name
func (r *workerRepository) FindByName(ctx context.Context, name string) (*domain.Worker, error) {
	query := `SELECT id, name, job, created_at, updated_at FROM worker WHERE name = $1`
	return r.scanOne(ctx, query, name)
}

// FindAll retrieves all workers ordered by name
func (r *workerRepository) FindAll(ctx context.Context) ([]domain.Worker, error) {
	query := `SELECT id, name, job, created_at, updated_at FROM worker ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		var w domain.Worker
		if err := rows.Scan(&w.ID, &w.Name, &w.Job, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		workers = append(workers, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return workers, nil
}

func (r *workerRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Worker, error) {
	w := &domain.Worker{}
	err := r.q.QueryRow(ctx, query, arg).Scan(&w.ID, &w.Name, &w.Job, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}
	return w, nil
}
