// internal/adapters/db/partner_repository.go
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

// partnerRepository implements ports.PartnerRepository
type partnerRepository struct {
	q      Querier
	logger *slog.Logger
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *Database, logger *slog.Logger) ports.PartnerRepository {
	return &partnerRepository{
		q:      db.Pool(),
		logger: logger.With(slog.String("repository", "partner")),
	}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *partnerRepository) WithTx(tx pgx.Tx) ports.PartnerRepository {
	return &partnerRepository{q: tx, logger: r.logger}
}

// Save creates a new partner
func (r *partnerRepository) Save(ctx context.Context, partner *domain.Partner) error {
	query := `
		INSERT INTO partner (name, address, email, requisites, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, created_at, updated_at`

	now := time.Now()
	err := r.q.QueryRow(ctx, query,
		partner.Name, partner.Address, partner.Email, partner.Requisites, now,
	).Scan(&partner.ID, &partner.CreatedAt, &partner.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save partner: %w", err)
	}

	r.logger.DebugContext(ctx, "partner saved",
		slog.Int64("id", partner.ID),
		slog.String("name", partner.Name))

	return nil
}

// Update replaces an existing partner's data
func (r *partnerRepository) Update(ctx context.Context, partner *domain.Partner) error {
	query := `
		UPDATE partner SET name = $2, address = $3, email = $4, requisites = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at`

	err := r.q.QueryRow(ctx, query,
		partner.ID, partner.Name, partner.Address, partner.Email, partner.Requisites, time.Now(),
	).Scan(&partner.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewNotFound("partner", fmt.Sprintf("id = %d", partner.ID))
		}
		return fmt.Errorf("failed to update partner: %w", err)
	}

	return nil
}

// Delete removes a partner
func (r *partnerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM partner WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete partner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("partner", fmt.Sprintf("id = %d", id))
	}

	r.logger.InfoContext(ctx, "partner deleted", slog.Int64("id", id))
	return nil
}

const partnerColumns = `id, name, address, email, requisites, created_at, updated_at`

// FindByID retrieves a partner by id
func (r *partnerRepository) FindByID(ctx context.Context, id int64) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// FindByName retrieves a partner by its unique name
func (r *partnerRepository) FindByName(ctx context.Context, name string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE name = $1`
	return r.scanOne(ctx, query, name)
}

// FindByRequisites retrieves a partner by its unique requisites
func (r *partnerRepository) FindByRequisites(ctx context.Context, requisites string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE requisites = $1`
	return r.scanOne(ctx, query, requisites)
}

// FindByAddressLike retrieves partners whose address contains the given
// substring, case-insensitively
func (r *partnerRepository) FindByAddressLike(ctx context.Context, address string) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE address ILIKE $1 ORDER BY name`
	return r.scanMany(ctx, query, "%"+address+"%")
}

// FindByEmailLike retrieves partners whose email contains the given
// substring, case-insensitively
func (r *partnerRepository) FindByEmailLike(ctx context.Context, email string) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner WHERE email ILIKE $1 ORDER BY name`
	return r.scanMany(ctx, query, "%"+email+"%")
}

// FindAll retrieves all partners ordered by name
func (r *partnerRepository) FindAll(ctx context.Context) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partner ORDER BY name`
	return r.scanMany(ctx, query)
}

func (r *partnerRepository) scanMany(ctx context.Context, query string, args ...interface{}) ([]domain.Partner, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	var partners []domain.Partner
	for rows.Next() {
		var p domain.Partner
		if err := scanPartner(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return partners, nil
}

func (r *partnerRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Partner, error) {
	p := &domain.Partner{}
	if err := scanPartner(r.q.QueryRow(ctx, query, arg), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	return p, nil
}

func scanPartner(row pgx.Row, p *domain.Partner) error {
	return row.Scan(&p.ID, &p.Name, &p.Address, &p.Email, &p.Requisites, &p.CreatedAt, &p.UpdatedAt)
}
