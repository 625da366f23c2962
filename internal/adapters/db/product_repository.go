// internal/adapters/db/product_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// productRepository implements ports.ProductRepository, including the stock
// ledger operations used by invoice posting.
type productRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "product")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *productRepository) WithTx(tx pgx.Tx) ports.ProductRepository {
	return &productRepository{q: tx, logger: r.logger}
}

// Save creates a new product
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO product (
			group_id, producer_id, name, description, quantity,
			income_price, outcome_price, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		product.GroupID, product.ProducerID, product.Name, product.Description,
		product.Quantity, product.IncomePrice, product.OutcomePrice, time.Now(),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	r.logger.DebugContext(ctx, "product saved",
		slog.Int64("id", product.ID),
		slog.String("name", product.Name))

	return nil
}

// Update replaces an existing product's data, including its on-hand quantity.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE product SET
			group_id = $2, producer_id = $3, name = $4, description = $5,
			quantity = $6, income_price = $7, outcome_price = $8, updated_at = $9
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		product.ID, product.GroupID, product.ProducerID, product.Name, product.Description,
		product.Quantity, product.IncomePrice, product.OutcomePrice, time.Now(),
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("product", fmt.Sprintf("id = %d", product.ID))
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM product WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("product", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "product deleted", slog.Int64("id", id))
	return nil
}

// FindByID retrieves a product by id, with its group and producer names.
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT p.id, p.group_id, g.name, p.producer_id, pr.name,
		       p.name, p.description, p.quantity, p.income_price, p.outcome_price,
		       p.created_at, p.updated_at
		FROM product p
		JOIN product_group g ON g.id = p.group_id
		JOIN producer pr ON pr.id = p.producer_id
		WHERE p.id = $1`

	p := &domain.Product{}
	if err := scanProduct(r.q.QueryRow(ctx, query, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return p, nil
}

// FindAll retrieves products matching the filter, ordered by name.
func (r *productRepository) FindAll(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	qb := squirrel.Select(
		"p.id", "p.group_id", "g.name", "p.producer_id", "pr.name",
		"p.name", "p.description", "p.quantity", "p.income_price", "p.outcome_price",
		"p.created_at", "p.updated_at",
	).From("product p").
		Join("product_group g ON g.id = p.group_id").
		Join("producer pr ON pr.id = p.producer_id").
		OrderBy("p.name").
		PlaceholderFormat(squirrel.Dollar)

	if filter.NameLike != "" {
		qb = qb.Where("p.name ILIKE ?", "%"+filter.NameLike+"%")
	}
	if filter.ProducerID != 0 {
		qb = qb.Where(squirrel.Eq{"p.producer_id": filter.ProducerID})
	}
	if filter.GroupID != 0 {
		qb = qb.Where(squirrel.Eq{"p.group_id": filter.GroupID})
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

// IncreaseStock adds quantity to the product's on-hand count.
func (r *productRepository) IncreaseStock(ctx context.Context, productID int64, quantity int) error {
	query := `
		UPDATE product SET quantity = quantity + $2, updated_at = $3
		WHERE id = $1
		RETURNING quantity`

	var onHand int
	err := r.q.QueryRow(ctx, query, productID, quantity, time.Now()).Scan(&onHand)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("product", fmt.Sprintf("id = %d", productID))
		}
		return fmt.Errorf("failed to increase stock: %w", err)
	}

	r.logger.DebugContext(ctx, "stock increased",
		slog.Int64("product_id", productID),
		slog.Int("by", quantity),
		slog.Int("on_hand", onHand))

	return nil
}

// DecreaseStock subtracts quantity from the product's on-hand count. The
// predicate on the UPDATE means the row is only touched when enough stock is
// available, so two concurrent decrements cannot both pass the check and
// overdraw the product.
func (r *productRepository) DecreaseStock(ctx context.Context, productID int64, quantity int) error {
	query := `
		UPDATE product SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND quantity >= $2
		RETURNING quantity`

	var onHand int
	err := r.q.QueryRow(ctx, query, productID, quantity, time.Now()).Scan(&onHand)
	if err == nil {
		r.logger.DebugContext(ctx, "stock decreased",
			slog.Int64("product_id", productID),
			slog.Int("by", quantity),
			slog.Int("on_hand", onHand))
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to decrease stock: %w", err)
	}

	// The guard rejected the update: either the product is gone or the
	// stock is short. Look again to tell the two apart.
	var name string
	var available int
	err = r.q.QueryRow(ctx, `SELECT name, quantity FROM product WHERE id = $1`, productID).
		Scan(&name, &available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("product", fmt.Sprintf("id = %d", productID))
		}
		return fmt.Errorf("failed to inspect stock: %w", err)
	}

	return domain.NewInsufficientStock(quantity, available, name)
}

func scanProduct(row pgx.Row, p *domain.Product) error {
	var description sql.NullString
	err := row.Scan(
		&p.ID, &p.GroupID, &p.GroupName, &p.ProducerID, &p.ProducerName,
		&p.Name, &description, &p.Quantity, &p.IncomePrice, &p.OutcomePrice,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	p.Description = description.String
	return nil
}
