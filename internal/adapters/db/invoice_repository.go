// internal/adapters/db/invoice_repository.go
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// invoiceRepository implements ports.InvoiceRepository
type invoiceRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *Database, logger *slog.Logger) ports.InvoiceRepository {
	return &invoiceRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "invoice")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *invoiceRepository) WithTx(tx pgx.Tx) ports.InvoiceRepository {
	return &invoiceRepository{q: tx, logger: r.logger}
}

// SaveHeader inserts the invoice header and fills in its generated id.
func (r *invoiceRepository) SaveHeader(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoice (partner_id, worker_id, type, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		invoice.PartnerID, invoice.WorkerID, invoice.Type, invoice.Date, time.Now(),
	).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save invoice header: %w", err)
	}

	r.logger.DebugContext(ctx, "invoice header saved",
		slog.Int64("id", invoice.ID),
		slog.String("type", string(invoice.Type)))

	return nil
}

// SaveItem inserts one invoice line with its snapshot price.
func (r *invoiceRepository) SaveItem(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO item (invoice_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		item.InvoiceID, item.ProductID, item.Quantity, item.Price,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to save invoice item: %w", err)
	}

	return nil
}

// FindByID retrieves an invoice with partner/worker names and its items.
func (r *invoiceRepository) FindByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	query := `
		SELECT i.id, i.partner_id, p.name, i.worker_id, w.name, i.type, i.date, i.created_at
		FROM invoice i
		JOIN partner p ON p.id = i.partner_id
		JOIN worker w ON w.id = i.worker_id
		WHERE i.id = $1`

	inv := &domain.Invoice{}
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.PartnerID, &inv.PartnerName, &inv.WorkerID, &inv.WorkerName,
		&inv.Type, &inv.Date, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	items, err := r.findItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return inv, nil
}

// FindAll retrieves invoice headers matching the filter, newest first.
// Items are loaded for each returned invoice.
func (r *invoiceRepository) FindAll(ctx context.Context, filter ports.InvoiceFilter) ([]domain.Invoice, error) {
	qb := squirrel.Select(
		"i.id", "i.partner_id", "p.name", "i.worker_id", "w.name", "i.type", "i.date", "i.created_at",
	).From("invoice i").
		Join("partner p ON p.id = i.partner_id").
		Join("worker w ON w.id = i.worker_id").
		OrderBy("i.date DESC", "i.id DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.PartnerID != 0 {
		qb = qb.Where(squirrel.Eq{"i.partner_id": filter.PartnerID})
	}
	if filter.WorkerID != 0 {
		qb = qb.Where(squirrel.Eq{"i.worker_id": filter.WorkerID})
	}
	if filter.Type != "" {
		qb = qb.Where(squirrel.Eq{"i.type": filter.Type})
	}
	if filter.Date != nil {
		qb = qb.Where(squirrel.Eq{"i.date": *filter.Date})
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.q.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		err := rows.Scan(
			&inv.ID, &inv.PartnerID, &inv.PartnerName, &inv.WorkerID, &inv.WorkerName,
			&inv.Type, &inv.Date, &inv.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	for i := range invoices {
		items, err := r.findItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}

	return invoices, nil
}

// Delete removes an invoice. Items go with it through the FK cascade; stock
// mutations from the original posting are left in place.
func (r *invoiceRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("invoice", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "invoice deleted", slog.Int64("id", id))
	return nil
}

func (r *invoiceRepository) findItems(ctx context.Context, invoiceID int64) ([]domain.Item, error) {
	query := `
		SELECT it.id, it.invoice_id, it.product_id, pr.name, it.quantity, it.price
		FROM item it
		JOIN product pr ON pr.id = it.product_id
		WHERE it.invoice_id = $1
		ORDER BY it.id`

	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, nil
}
