// internal/core/services/worker.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// WorkerService handles warehouse worker business logic
type WorkerService struct {
	repo   ports.WorkerRepository
	logger *slog.Logger
}

var _ ports.WorkerService = (*WorkerService)(nil)

// NewWorkerService creates a new worker service
func NewWorkerService(repo ports.WorkerRepository, logger *slog.Logger) *WorkerService {
	return &WorkerService{
		repo:   repo,
		logger: logger.With(slog.String("service", "worker")),
	}
}

// Create registers a new worker. Worker names are unique.
func (s *WorkerService) Create(ctx context.Context, worker *domain.Worker) error {
	if err := worker.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, worker.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing worker: %w", err)
	}
	if existing != nil {
		return domain.NewAlreadyExists("worker", fmt.Sprintf("name = %s", worker.Name))
	}

	if err := s.repo.Save(ctx, worker); err != nil {
		return fmt.Errorf("failed to save worker: %w", err)
	}

	s.logger.InfoContext(ctx, "worker created",
		slog.Int64("id", worker.ID),
		slog.String("name", worker.Name))

	return nil
}

// Update modifies an existing worker.
func (s *WorkerService) Update(ctx context.Context, worker *domain.Worker) error {
	if err := worker.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindByName(ctx, worker.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing worker: %w", err)
	}
	if existing != nil && existing.ID != worker.ID {
		return domain.NewAlreadyExists("worker", fmt.Sprintf("name = %s", worker.Name))
	}

	if err := s.repo.Update(ctx, worker); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "worker updated", slog.Int64("id", worker.ID))
	return nil
}

// Delete removes a worker by id.
func (s *WorkerService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "worker deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a worker by id.
func (s *WorkerService) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.NewNotFound("worker", fmt.Sprintf("id = %d", id))
	}
	return worker, nil
}

// GetByName retrieves a worker by name.
func (s *WorkerService) GetByName(ctx context.Context, name string) (*domain.Worker, error) {
	worker, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if worker == nil {
		return nil, domain.NewNotFound("worker", fmt.Sprintf("name = %s", name))
	}
	return worker, nil
}

// List retrieves all workers.
func (s *WorkerService) List(ctx context.Context) ([]domain.Worker, error) {
	workers, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if workers == nil {
		workers = []domain.Worker{}
	}
	return workers, nil
}
