// internal/core/services/product_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
	"github.com/mvolkova/warehouse-be/internal/core/services"
	"github.com/mvolkova/warehouse-be/test/helpers"
	"github.com/mvolkova/warehouse-be/test/mocks"
)

type productMocks struct {
	repo      *mocks.MockProductRepository
	groups    *mocks.MockProductGroupRepository
	producers *mocks.MockProducerRepository
	cache     *mocks.MockCacheRepository
}

func newProductMocks(ctrl *gomock.Controller) *productMocks {
	return &productMocks{
		repo:      mocks.NewMockProductRepository(ctrl),
		groups:    mocks.NewMockProductGroupRepository(ctrl),
		producers: mocks.NewMockProducerRepository(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
	}
}

func (f *productMocks) service(t *testing.T) *services.ProductService {
	t.Helper()
	return services.NewProductService(f.repo, f.groups, f.producers, f.cache, helpers.TestLogger())
}

func TestProductService_Create(t *testing.T) {
	tests := []struct {
		name          string
		product       *domain.Product
		setupMocks    func(t *testing.T, f *productMocks)
		expectedError bool
		errorContains string
	}{
		{
			name: "resolves_group_and_producer_by_name",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = 0
				p.GroupID = 0
				p.ProducerID = 0
			}),
			setupMocks: func(t *testing.T, f *productMocks) {
				f.groups.EXPECT().
					FindByName(gomock.Any(), "Beverages").
					Return(&domain.ProductGroup{ID: 7, Name: "Beverages"}, nil)
				f.producers.EXPECT().
					FindByName(gomock.Any(), "Acme Foods").
					Return(&domain.Producer{ID: 3, Name: "Acme Foods"}, nil)
				f.repo.EXPECT().
					FindAll(gomock.Any(), ports.ProductFilter{NameLike: "Mineral Water 0.5L"}).
					Return(nil, nil)
				f.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Product) error {
						assert.Equal(t, int64(7), p.GroupID)
						assert.Equal(t, int64(3), p.ProducerID)
						return nil
					})
				f.cache.EXPECT().
					DeletePattern(gomock.Any(), "product:*").
					Return(nil)
			},
		},
		{
			name: "unknown_group_name",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = 0
				p.GroupID = 0
				p.GroupName = "Nonexistent"
			}),
			setupMocks: func(t *testing.T, f *productMocks) {
				f.groups.EXPECT().
					FindByName(gomock.Any(), "Nonexistent").
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "product group not found",
		},
		{
			name: "unknown_producer_name",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = 0
				p.ProducerID = 0
				p.ProducerName = "Nonexistent"
			}),
			setupMocks: func(t *testing.T, f *productMocks) {
				f.producers.EXPECT().
					FindByName(gomock.Any(), "Nonexistent").
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "producer not found",
		},
		{
			name: "duplicate_product_name",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = 0
			}),
			setupMocks: func(t *testing.T, f *productMocks) {
				f.repo.EXPECT().
					FindAll(gomock.Any(), ports.ProductFilter{NameLike: "Mineral Water 0.5L"}).
					Return([]domain.Product{*helpers.CreateTestProduct()}, nil)
			},
			expectedError: true,
			errorContains: "already exists",
		},
		{
			name: "validation_fails_for_non_positive_price",
			product: helpers.CreateTestProduct(func(p *domain.Product) {
				p.ID = 0
				p.OutcomePrice = decimal.Zero
			}),
			setupMocks:    func(t *testing.T, f *productMocks) {},
			expectedError: true,
			errorContains: "outcome_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newProductMocks(ctrl)
			tt.setupMocks(t, f)

			err := f.service(t).Create(context.Background(), tt.product)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestProductService_Update(t *testing.T) {
	t.Run("rename_collides_with_another_product", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.repo.EXPECT().
			FindAll(gomock.Any(), ports.ProductFilter{NameLike: "Mineral Water 0.5L"}).
			Return([]domain.Product{*helpers.CreateTestProduct()}, nil)

		product := helpers.CreateTestProduct(func(p *domain.Product) {
			p.ID = 2
		})

		err := f.service(t).Update(context.Background(), product)
		require.Error(t, err)
		assert.True(t, domain.IsAlreadyExists(err))
	})

	t.Run("keeping_own_name_is_allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.repo.EXPECT().
			FindAll(gomock.Any(), ports.ProductFilter{NameLike: "Mineral Water 0.5L"}).
			Return([]domain.Product{*helpers.CreateTestProduct()}, nil)
		f.repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			Return(nil)
		f.cache.EXPECT().
			DeletePattern(gomock.Any(), "product:*").
			Return(nil)

		err := f.service(t).Update(context.Background(), helpers.CreateTestProduct())
		require.NoError(t, err)
	})
}

func TestProductService_GetByID(t *testing.T) {
	testProduct := helpers.CreateTestProduct()

	t.Run("cache_hit_skips_repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.cache.EXPECT().
			Get(gomock.Any(), "product:1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dest interface{}) error {
				*dest.(*domain.Product) = *testProduct
				return nil
			})

		result, err := f.service(t).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, testProduct.Name, result.Name)
	})

	t.Run("cache_miss_falls_through_and_caches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.cache.EXPECT().
			Get(gomock.Any(), "product:1", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(testProduct, nil)
		f.cache.EXPECT().
			SetWithTTL(gomock.Any(), "product:1", testProduct, 5*time.Minute).
			Return(nil)

		result, err := f.service(t).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, testProduct.ID, result.ID)
	})

	t.Run("product_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.cache.EXPECT().
			Get(gomock.Any(), "product:99", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			FindByID(gomock.Any(), int64(99)).
			Return(nil, nil)

		_, err := f.service(t).GetByID(context.Background(), 99)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("cache_write_failure_is_not_fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.cache.EXPECT().
			Get(gomock.Any(), "product:1", gomock.Any()).
			Return(errors.New("cache miss"))
		f.repo.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(testProduct, nil)
		f.cache.EXPECT().
			SetWithTTL(gomock.Any(), "product:1", testProduct, 5*time.Minute).
			Return(errors.New("redis unavailable"))

		result, err := f.service(t).GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, testProduct.ID, result.ID)
	})
}

func TestProductService_List(t *testing.T) {
	t.Run("passes_filter_to_repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		filter := ports.ProductFilter{GroupID: 2, NameLike: "water"}
		f.repo.EXPECT().
			FindAll(gomock.Any(), filter).
			Return(helpers.CreateTestProducts(3), nil)

		result, err := f.service(t).List(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, result, 3)
	})

	t.Run("nil_result_becomes_empty_slice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newProductMocks(ctrl)
		f.repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			Return(nil, nil)

		result, err := f.service(t).List(context.Background(), ports.ProductFilter{})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newProductMocks(ctrl)
	f.repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
	f.cache.EXPECT().DeletePattern(gomock.Any(), "product:*").Return(nil)

	require.NoError(t, f.service(t).Delete(context.Background(), 1))
}
