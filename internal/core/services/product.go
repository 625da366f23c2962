// internal/core/services/product.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

const (
	productCacheTTL       = 5 * time.Minute
	productCacheKeyPrefix = "product"
)

// ProductService handles product catalog business logic. Incoming products
// reference their group and producer by name; the service resolves those
// names to ids before persisting. The cache is optional and may be nil.
type ProductService struct {
	repo      ports.ProductRepository
	groups    ports.ProductGroupRepository
	producers ports.ProducerRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

// NewProductService creates a new product service
func NewProductService(
	repo ports.ProductRepository,
	groups ports.ProductGroupRepository,
	producers ports.ProducerRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		groups:    groups,
		producers: producers,
		cache:     cache,
		logger:    logger.With(slog.String("service", "product")),
	}
}

// Create registers a new catalog product. Product names are unique.
func (s *ProductService) Create(ctx context.Context, product *domain.Product) error {
	if err := s.resolveReferences(ctx, product); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return err
	}

	existing, err := s.findByName(ctx, product.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing product: %w", err)
	}
	if existing != nil {
		return domain.NewAlreadyExists("product", fmt.Sprintf("name = %s", product.Name))
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "product created",
		slog.Int64("id", product.ID),
		slog.String("name", product.Name))

	return nil
}

// Update modifies an existing product.
func (s *ProductService) Update(ctx context.Context, product *domain.Product) error {
	if err := s.resolveReferences(ctx, product); err != nil {
		return err
	}
	if err := product.Validate(); err != nil {
		return err
	}

	existing, err := s.findByName(ctx, product.Name)
	if err != nil {
		return fmt.Errorf("failed to check existing product: %w", err)
	}
	if existing != nil && existing.ID != product.ID {
		return domain.NewAlreadyExists("product", fmt.Sprintf("name = %s", product.Name))
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "product updated", slog.Int64("id", product.ID))
	return nil
}

// Delete removes a product by id.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "product deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves a product by id, consulting the cache first.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	key := productCacheKeyPrefix + ":" + strconv.FormatInt(id, 10)

	if s.cache != nil {
		var cached domain.Product
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("product", fmt.Sprintf("id = %d", id))
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, key, product, productCacheTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache product",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
		}
	}

	return product, nil
}

// List retrieves products matching the filter.
func (s *ProductService) List(ctx context.Context, filter ports.ProductFilter) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// resolveReferences fills in GroupID and ProducerID from the names carried
// on the product when the ids are not set.
func (s *ProductService) resolveReferences(ctx context.Context, product *domain.Product) error {
	if product.GroupID == 0 && product.GroupName != "" {
		group, err := s.groups.FindByName(ctx, product.GroupName)
		if err != nil {
			return fmt.Errorf("failed to resolve group: %w", err)
		}
		if group == nil {
			return domain.NewNotFound("product group", fmt.Sprintf("name = %s", product.GroupName))
		}
		product.GroupID = group.ID
	}

	if product.ProducerID == 0 && product.ProducerName != "" {
		producer, err := s.producers.FindByName(ctx, product.ProducerName)
		if err != nil {
			return fmt.Errorf("failed to resolve producer: %w", err)
		}
		if producer == nil {
			return domain.NewNotFound("producer", fmt.Sprintf("name = %s", product.ProducerName))
		}
		product.ProducerID = producer.ID
	}

	return nil
}

func (s *ProductService) findByName(ctx context.Context, name string) (*domain.Product, error) {
	products, err := s.repo.FindAll(ctx, ports.ProductFilter{NameLike: name})
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Name == name {
			return &products[i], nil
		}
	}
	return nil, nil
}

func (s *ProductService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, productCacheKeyPrefix+":*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate product cache",
			slog.String("error", err.Error()))
	}
}
