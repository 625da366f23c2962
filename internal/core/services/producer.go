// internal/core/services/producer.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// ProducerService handles producer business logic
type ProducerService struct {
	repo   ports.ProducerRepository
	logger *slog.Logger
}

var _ ports.ProducerService = (*ProducerService)(nil)

// NewProducerService creates a new producer service
func NewProducerService(repo ports.ProducerRepository, logger *slog.Logger) *ProducerService {
	return &ProducerService{
		repo:   repo,
		logger: logger.With(slog.String("service", "producer")),
	}
}

// Create registers a new producer. Producer names are unique.
func (s *ProducerService) Create(ctx context.Context, producer *domain.Producer) error {
	if err := producer.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, producer.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing producer: %w", err)
	}
	if existing != nil {
		return domain.NewAlreadyExists("producer", fmt.Sprintf("name = %s", producer.Name))
	}

	if err := s.repo.Save(ctx, producer); err != nil {
		return fmt.Errorf("failed to save producer: %w", err)
	}

	s.logger.InfoContext(ctx, "producer created",
		slog.Int64("id", producer.ID),
		slog.String("name", producer.Name))

	return nil
}

// Update modifies an existing producer.
func (s *ProducerService) Update(ctx context.Context, producer *domain.Producer) error {
	if err := producer.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, producer.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing producer: %w", err)
	}
	if existing != nil && existing.ID != producer.ID {
		return domain.NewAlreadyExists("producer", fmt.Sprintf("name = %s", producer.Name))
	}

	if err := s.repo.Update(ctx, producer); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "producer updated", slog.Int64("id", producer.ID))
	return nil
}

// Delete removes a producer by id.
func (s *ProducerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "producer deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a producer by id.
func (s *ProducerService) GetByID(ctx context.Context, id int64) (*domain.Producer, error) {
	producer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.NewNotFound("producer", fmt.Sprintf("id = %d", id))
	}
	return producer, nil
}

// GetByName retrieves a producer by name.
func (s *ProducerService) GetByName(ctx context.Context, name string) (*domain.Producer, error) {
	producer, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if producer == nil {
		return nil, domain.NewNotFound("producer", fmt.Sprintf("name = %s", name))
	}
	return producer, nil
}

// List retrieves all producers.
func (s *ProducerService) List(ctx context.Context) ([]domain.Producer, error) {
	producers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if producers == nil {
		producers = []domain.Producer{}
	}
	return producers, nil
}
