// internal/core/services/partner.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// PartnerService handles partner business logic
type PartnerService struct {
	repo   ports.PartnerRepository
	logger *slog.Logger
}

// Statically assert that *PartnerService implements the PartnerService interface.
var _ ports.PartnerService = (*PartnerService)(nil)

// NewPartnerService creates a new partner service
func NewPartnerService(repo ports.PartnerRepository, logger *slog.Logger) *PartnerService {
	return &PartnerService{
		repo:   repo,
		logger: logger.With(slog.String("service", "partner")),
	}
}

// Create registers a new partner. Name and requisites are each unique
// across partners on their own.
func (s *PartnerService) Create(ctx context.Context, partner *domain.Partner) error {
	if err := partner.Validate(); err != nil {
		return err
	}

	if err := s.checkUnique(ctx, partner); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, partner); err != nil {
		return fmt.Errorf("failed to save partner: %w", err)
	}

	s.logger.InfoContext(ctx, "partner created",
		slog.Int64("id", partner.ID),
		slog.String("name", partner.Name))

	return nil
}

// Update modifies an existing partner.
func (s *PartnerService) Update(ctx context.Context, partner *domain.Partner) error {
	if err := partner.Validate(); err != nil {
		return err
	}

	if err := s.checkUnique(ctx, partner); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, partner); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "partner updated", slog.Int64("id", partner.ID))
	return nil
}

// checkUnique rejects a partner whose name or requisites already belong to a
// different partner.
func (s *PartnerService) checkUnique(ctx context.Context, partner *domain.Partner) error {
	existing, err := s.repo.FindByName(ctx, partner.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing partner: %w", err)
	}
	if existing != nil && existing.ID != partner.ID {
		return domain.NewAlreadyExists("partner", fmt.Sprintf("name = %s", partner.Name))
	}

	existing, err = s.repo.FindByRequisites(ctx, partner.Requisites)
	if err != nil {
		return fmt.Errorf("failed to check existing partner: %w", err)
	}
	if existing != nil && existing.ID != partner.ID {
		return domain.NewAlreadyExists("partner", fmt.Sprintf("requisites = %s", partner.Requisites))
	}

	return nil
}

// Delete removes a partner by id.
func (s *PartnerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "partner deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a partner by id.
func (s *PartnerService) GetByID(ctx context.Context, id int64) (*domain.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.NewNotFound("partner", fmt.Sprintf("id = %d", id))
	}
	return partner, nil
}

// GetByName retrieves a partner by name.
func (s *PartnerService) GetByName(ctx context.Context, name string) (*domain.Partner, error) {
	partner, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.NewNotFound("partner", fmt.Sprintf("name = %s", name))
	}
	return partner, nil
}

// GetByRequisites retrieves a partner by requisites.
func (s *PartnerService) GetByRequisites(ctx context.Context, requisites string) (*domain.Partner, error) {
	partner, err := s.repo.FindByRequisites(ctx, requisites)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, domain.NewNotFound("partner", fmt.Sprintf("requisites = %s", requisites))
	}
	return partner, nil
}

// ListByAddress retrieves partners whose address contains the substring.
func (s *PartnerService) ListByAddress(ctx context.Context, address string) ([]domain.Partner, error) {
	partners, err := s.repo.FindByAddressLike(ctx, address)
	if err != nil {
		return nil, err
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	return partners, nil
}

// ListByEmail retrieves partners whose email contains the substring.
func (s *PartnerService) ListByEmail(ctx context.Context, email string) ([]domain.Partner, error) {
	partners, err := s.repo.FindByEmailLike(ctx, email)
	if err != nil {
		return nil, err
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	return partners, nil
}

// List retrieves all partners. An empty catalog yields an empty slice.
func (s *PartnerService) List(ctx context.Context) ([]domain.Partner, error) {
	partners, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if partners == nil {
		partners = []domain.Partner{}
	}
	return partners, nil
}
