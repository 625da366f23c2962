// internal/adapters/db/product_group_repository.go
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

// productGroupRepository implements ports.ProductGroupRepository
type productGroupRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewProductGroupRepository creates a new product group repository
func NewProductGroupRepository(db *Database, logger *slog.Logger) ports.ProductGroupRepository {
	return &productGroupRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "product_group")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *productGroupRepository) WithTx(tx pgx.Tx) ports.ProductGroupRepository {
	return &productGroupRepository{q: tx, logger: r.logger}
}

// Save creates a new product group
func (r *productGroupRepository) Save(ctx context.Context, group *domain.ProductGroup) error {
	query := `
		INSERT INTO product_group (name, created_at, updated_at)
		VALUES ($1, $2, $2)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query, group.Name, time.Now()).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save product group: %w", err)
	}

	r.logger.DebugContext(ctx, "product group saved",
		slog.Int64("id", group.ID),
		slog.String("name", group.Name))

	return nil
}

// Update replaces an existing product group's data
func (r *productGroupRepository) Update(ctx context.Context, group *domain.ProductGroup) error {
	query := `
		UPDATE product_group SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query, group.ID, group.Name, time.Now()).Scan(&group.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("product group", fmt.Sprintf("id = %d", group.ID))
		}
		return fmt.Errorf("failed to update product group: %w", err)
	}

	return nil
}

// Delete removes a product group
func (r *productGroupRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM product_group WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("product group", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "product group deleted", slog.Int64("id", id))
	return nil
}

// FindByID retrieves a product group by id
func (r *productGroupRepository) FindByID(ctx context.Context, id int64) (*domain.ProductGroup, error) {
	query := `SELECT id, name, created_at, updated_at FROM product_group WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByName retrieves a product group by its unique name
func (r *productGroupRepository) FindByName(ctx context.Context, name string) (*domain.ProductGroup, error) {
	query := `SELECT id, name, created_at, updated_at FROM product_group WHERE name = $1`
	return r.scanOne(ctx, query, name)
}

// FindAll retrieves all product groups ordered by name
func (r *productGroupRepository) FindAll(ctx context.Context) ([]domain.ProductGroup, error) {
	query := `SELECT id, name, created_at, updated_at FROM product_group ORDER BY name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query product groups: %w", err)
	}
	defer rows.Close()

	var groups []domain.ProductGroup
	for rows.Next() {
		var g domain.ProductGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product group: %w", err)
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return groups, nil
}

func (r *productGroupRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.ProductGroup, error) {
	g := &domain.ProductGroup{}
	err := r.q.QueryRow(ctx, query, arg).Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product group: %w", err)
	}
	return g, nil
}
