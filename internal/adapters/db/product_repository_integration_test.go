//go:build integration
// +build integration

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/mvolkova/warehouse-be/internal/adapters/db"
	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
	"github.com/mvolkova/warehouse-be/test/helpers"
)

type ProductRepositorySuite struct {
	suite.Suite
	testDB *helpers.TestDB
	repo   ports.ProductRepository
	ctx    context.Context
}

func (s *ProductRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.repo = db.NewProductRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *ProductRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *ProductRepositorySuite) seedOne(name string, quantity int) *domain.Product {
	helpers.SeedTestProducts(s.T(), s.testDB.PgxPool, []domain.Product{
		{
			Name:         name,
			Quantity:     quantity,
			IncomePrice:  decimal.NewFromFloat(0.40),
			OutcomePrice: decimal.NewFromFloat(0.75),
		},
	})

	products, err := s.repo.FindAll(s.ctx, ports.ProductFilter{NameLike: name})
	s.Require().NoError(err)
	s.Require().Len(products, 1)
	return &products[0]
}

func (s *ProductRepositorySuite) TestDecreaseStock() {
	product := s.seedOne("Mineral Water 0.5L", 10)

	err := s.repo.DecreaseStock(s.ctx, product.ID, 4)
	s.NoError(err)

	reloaded, err := s.repo.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Equal(6, reloaded.Quantity)
}

func (s *ProductRepositorySuite) TestDecreaseStock_Insufficient() {
	product := s.seedOne("Mineral Water 0.5L", 10)

	err := s.repo.DecreaseStock(s.ctx, product.ID, 15)
	s.Error(err)

	var stockErr *domain.InsufficientStockError
	s.ErrorAs(err, &stockErr)
	s.Equal(15, stockErr.Required)
	s.Equal(10, stockErr.Available)
	s.Equal("Mineral Water 0.5L", stockErr.ProductName)

	// The failed decrement must not touch the row.
	reloaded, err := s.repo.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Equal(10, reloaded.Quantity)
}

func (s *ProductRepositorySuite) TestDecreaseStock_ExactlyToZero() {
	product := s.seedOne("Mineral Water 0.5L", 10)

	err := s.repo.DecreaseStock(s.ctx, product.ID, 10)
	s.NoError(err)

	reloaded, err := s.repo.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Equal(0, reloaded.Quantity)
}

func (s *ProductRepositorySuite) TestDecreaseStock_UnknownProduct() {
	err := s.repo.DecreaseStock(s.ctx, 99999, 1)
	s.Error(err)
	s.True(domain.IsNotFound(err))
}

// Two workers racing over the same stock must never overdraw it: the guarded
// UPDATE lets at most floor(10/6)=1 of the 6-unit decrements through.
func (s *ProductRepositorySuite) TestDecreaseStock_ConcurrentNeverOverdraws() {
	product := s.seedOne("Mineral Water 0.5L", 10)

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.repo.DecreaseStock(s.ctx, product.ID, 6)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.True(domain.IsInsufficientStock(err))
		}
	}
	s.Equal(1, succeeded)

	reloaded, err := s.repo.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Equal(4, reloaded.Quantity)
}

func (s *ProductRepositorySuite) TestIncreaseStock() {
	product := s.seedOne("Mineral Water 0.5L", 10)

	err := s.repo.IncreaseStock(s.ctx, product.ID, 30)
	s.NoError(err)

	reloaded, err := s.repo.FindByID(s.ctx, product.ID)
	s.NoError(err)
	s.Equal(40, reloaded.Quantity)
}

func (s *ProductRepositorySuite) TestFindByID_MissingReturnsNil() {
	product, err := s.repo.FindByID(s.ctx, 99999)
	s.NoError(err)
	s.Nil(product)
}

func (s *ProductRepositorySuite) TestFindAll_Filters() {
	helpers.SeedTestProducts(s.T(), s.testDB.PgxPool, []domain.Product{
		{Name: "Mineral Water 0.5L", Quantity: 10, IncomePrice: decimal.NewFromFloat(0.40), OutcomePrice: decimal.NewFromFloat(0.75)},
		{Name: "Mineral Water 1.5L", Quantity: 5, IncomePrice: decimal.NewFromFloat(0.70), OutcomePrice: decimal.NewFromFloat(1.20)},
		{Name: "Rye Bread", Quantity: 20, IncomePrice: decimal.NewFromFloat(0.90), OutcomePrice: decimal.NewFromFloat(1.50)},
	})

	water, err := s.repo.FindAll(s.ctx, ports.ProductFilter{NameLike: "water"})
	s.NoError(err)
	s.Len(water, 2)

	all, err := s.repo.FindAll(s.ctx, ports.ProductFilter{})
	s.NoError(err)
	s.Len(all, 3)
	// Ordered by name.
	s.Equal("Mineral Water 0.5L", all[0].Name)
	s.Equal("Rye Bread", all[2].Name)
}

func TestProductRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProductRepositorySuite))
}
