// internal/adapters/db/producer_repository.go
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

// producerRepository implements ports.ProducerRepository
type producerRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewProducerRepository creates a new producer repository
func NewProducerRepository(db *Database, logger *slog.Logger) ports.ProducerRepository {
	return &producerRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "producer")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *producerRepository) WithTx(tx pgx.Tx) ports.ProducerRepository {
	return &producerRepository{q: tx, logger: r.logger}
}

// Save creates a new producer
func (r *producerRepository) Save(ctx context.Context, producer *domain.Producer) error {
	query := `
		INSERT INTO producer (name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, producer.Name, producer.Address, time.Now()).
		Scan(&producer.ID, &producer.CreatedAt, &producer.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save producer: %w", err)
	}

	r.logger.DebugContext(ctx, "producer saved",
		slog.Int64("id", producer.ID),
		slog.String("name", producer.Name))

	return nil
}

// Update replaces an existing producer's data
func (r *producerRepository) Update(ctx context.Context, producer *domain.Producer) error {
	query := `
		UPDATE producer SET name = $2, address = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query, producer.ID, producer.Name, producer.Address, time.Now()).
		Scan(&producer.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("producer", fmt.Sprintf("id = %d", producer.ID))
		}
		return fmt.Errorf("failed to update producer: %w", err)
	}

	return nil
}

// Delete removes a producer
func (r *producerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM producer WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete producer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("producer", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "producer deleted", slog.Int64("id", id))
	return nil
}

// FindByID retrieves a producer by id
func (r *producerRepository) FindByID(ctx context.Context, id int64) (*domain.Producer, error) {
	query := `SELECT id, name, address, created_at, updated_at FROM producer WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByName retrieves a producer by its unique name
func (r *producerRepository) FindByName(ctx context.Context, name string) (*domain.Producer, error) {
	query := `SELECT id, name, address, created_at, updated_at FROM producer WHERE name = $1`
	return r.scanOne(ctx, query, name)
}

// FindAll retrieves all producers ordered by name
func (r *producerRepository) FindAll(ctx context.Context) ([]domain.Producer, error) {
	query := `SELECT id, name, address, created_at, updated_at FROM producer ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query producers: %w", err)
	}
	defer rows.Close()

	var producers []domain.Producer
	for rows.Next() {
		var p domain.Producer
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan producer: %w", err)
		}
		producers = append(producers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return producers, nil
}

func (r *producerRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Producer, error) {
	p := &domain.Producer{}
	err := r.q.QueryRow(ctx, query, arg).Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find producer: %w", err)
	}
	return p, nil
}
