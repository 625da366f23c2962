// internal/core/services/product_group.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ProductGroupService handles product group business logic
type ProductGroupService struct {
	repo   ports.ProductGroupRepository
	logger *slog.Logger
}

var _ ports.ProductGroupService = (*ProductGroupService)(nil)

// NewProductGroupService creates a new product group service
func NewProductGroupService(repo ports.ProductGroupRepository, logger *slog.Logger) *ProductGroupService {
	return &ProductGroupService{
		repo:   repo,
		logger: logger.With(slog.String("service", "product_group")),
	}
}

// Create registers a new product group. Group names are unique.
func (s *ProductGroupService) Create(ctx context.Context, group *domain.ProductGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, group.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing group: %w", err)
	}
	if existing != nil {
		return domain.NewAlreadyExists("product group", fmt.Sprintf("name = %s", group.Name))
	}

	if err := s.repo.Save(ctx, group); err != nil {
		return fmt.Errorf("failed to save group: %w", err)
	}

	s.logger.InfoContext(ctx, "product group created",
		slog.Int64("id", group.ID),
		slog.String("name", group.Name))

	return nil
}

// Update modifies an existing product group.
func (s *ProductGroupService) Update(ctx context.Context, group *domain.ProductGroup) error {
	if err := group.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, group.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing group: %w", err)
	}
	if existing != nil && existing.ID != group.ID {
		return domain.NewAlreadyExists("product group", fmt.Sprintf("name = %s", group.Name))
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product group updated", slog.Int64("id", group.ID))
	return nil
}

// Delete removes a product group by id.
func (s *ProductGroupService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product group deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a product group by id.
func (s *ProductGroupService) GetByID(ctx context.Context, id int64) (*domain.ProductGroup, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NewNotFound("product group", fmt.Sprintf("id = %d", id))
	}
	return group, nil
}

// GetByName retrieves a product group by name.
func (s *ProductGroupService) GetByName(ctx context.Context, name string) (*domain.ProductGroup, error) {
	group, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.NewNotFound("product group", fmt.Sprintf("name = %s", name))
	}
	return group, nil
}

// List retrieves all product groups.
func (s *ProductGroupService) List(ctx context.Context) ([]domain.ProductGroup, error) {
	groups, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []domain.ProductGroup{}
	}
	return groups, nil
}
