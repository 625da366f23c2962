// internal/core/services/invoice_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
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

// invoiceMocks bundles everything the invoice service touches so table cases
// can wire expectations against any of them.
type invoiceMocks struct {
	db       *mocks.MockTxRunner
	invoices *mocks.MockInvoiceRepository
	products *mocks.MockProductRepository
	partners *mocks.MockPartnerRepository
	workers  *mocks.MockWorkerRepository
	cache    *mocks.MockCacheRepository
	enqueuer *mocks.MockTaskEnqueuer
}

func newInvoiceMocks(ctrl *gomock.Controller) *invoiceMocks {
	return &invoiceMocks{
		db:       mocks.NewMockTxRunner(ctrl),
		invoices: mocks.NewMockInvoiceRepository(ctrl),
		products: mocks.NewMockProductRepository(ctrl),
		partners: mocks.NewMockPartnerRepository(ctrl),
		workers:  mocks.NewMockWorkerRepository(ctrl),
		cache:    mocks.NewMockCacheRepository(ctrl),
		enqueuer: mocks.NewMockTaskEnqueuer(ctrl),
	}
}

// expectTransaction makes the mocked runner execute the posting callback
// directly and has every repository hand back itself from WithTx, so the
// service exercises the same code path it would inside a real transaction.
func (f *invoiceMocks) expectTransaction() {
	f.db.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(pgx.Tx) error) error {
			return fn(nil)
		})
	f.partners.EXPECT().WithTx(gomock.Any()).Return(f.partners).AnyTimes()
	f.workers.EXPECT().WithTx(gomock.Any()).Return(f.workers).AnyTimes()
	f.invoices.EXPECT().WithTx(gomock.Any()).Return(f.invoices).AnyTimes()
	f.products.EXPECT().WithTx(gomock.Any()).Return(f.products).AnyTimes()
	f.cache.EXPECT().DeletePattern(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func (f *invoiceMocks) service(t *testing.T, lowStockThreshold int) *services.InvoiceService {
	t.Helper()
	return services.NewInvoiceService(
		f.db, f.invoices, f.products, f.partners, f.workers,
		f.cache, f.enqueuer, lowStockThreshold, helpers.TestLogger(),
	)
}

func TestInvoiceService_Create(t *testing.T) {
	tests := []struct {
		name          string
		invoice       *domain.Invoice
		threshold     int
		setupMocks    func(t *testing.T, f *invoiceMocks)
		expectedError bool
		errorContains string
		checkError    func(t *testing.T, err error)
		checkInvoice  func(t *testing.T, inv *domain.Invoice)
	}{
		{
			name:      "outcome_posting_decrements_stock_and_snapshots_price",
			invoice:   helpers.CreateTestInvoice(),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestWorker(), nil)
				f.invoices.EXPECT().
					SaveHeader(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *domain.Invoice) error {
						inv.ID = 42
						return nil
					})
				f.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil)
				f.products.EXPECT().
					DecreaseStock(gomock.Any(), int64(1), 4).
					Return(nil)
				f.invoices.EXPECT().
					SaveItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *domain.Item) error {
						assert.Equal(t, int64(42), item.InvoiceID)
						assert.Equal(t, "Mineral Water 0.5L", item.ProductName)
						assert.True(t, item.Price.Equal(decimal.NewFromFloat(0.75)),
							"expected outcome price snapshot, got %s", item.Price)
						return nil
					})
			},
			checkInvoice: func(t *testing.T, inv *domain.Invoice) {
				assert.Equal(t, "Northwind Traders", inv.PartnerName)
				assert.Equal(t, "Ivan Petrov", inv.WorkerName)
			},
		},
		{
			name: "income_posting_increments_stock_and_uses_income_price",
			invoice: helpers.CreateTestInvoice(func(inv *domain.Invoice) {
				inv.Type = domain.TransactionIncome
				inv.Items = []domain.Item{{ProductID: 1, Quantity: 30}}
			}),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestWorker(), nil)
				f.invoices.EXPECT().
					SaveHeader(gomock.Any(), gomock.Any()).
					Return(nil)
				f.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(), nil)
				f.products.EXPECT().
					IncreaseStock(gomock.Any(), int64(1), 30).
					Return(nil)
				f.invoices.EXPECT().
					SaveItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, item *domain.Item) error {
						assert.True(t, item.Price.Equal(decimal.NewFromFloat(0.40)),
							"expected income price snapshot, got %s", item.Price)
						return nil
					})
			},
		},
		{
			name: "insufficient_stock_rolls_back_posting",
			invoice: helpers.CreateTestInvoice(func(inv *domain.Invoice) {
				inv.Items = []domain.Item{{ProductID: 1, Quantity: 15}}
			}),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestWorker(), nil)
				f.invoices.EXPECT().
					SaveHeader(gomock.Any(), gomock.Any()).
					Return(nil)
				f.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestProduct(func(p *domain.Product) {
						p.Quantity = 10
					}), nil)
				f.products.EXPECT().
					DecreaseStock(gomock.Any(), int64(1), 15).
					Return(domain.NewInsufficientStock(15, 10, "Mineral Water 0.5L"))
			},
			expectedError: true,
			errorContains: "not enough stock",
			checkError: func(t *testing.T, err error) {
				var stockErr *domain.InsufficientStockError
				require.ErrorAs(t, err, &stockErr)
				assert.Equal(t, 15, stockErr.Required)
				assert.Equal(t, 10, stockErr.Available)
				assert.Equal(t, "Mineral Water 0.5L", stockErr.ProductName)
			},
		},
		{
			name:      "unknown_partner",
			invoice:   helpers.CreateTestInvoice(),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "partner not found",
			checkError: func(t *testing.T, err error) {
				assert.True(t, domain.IsNotFound(err))
			},
		},
		{
			name:      "unknown_worker",
			invoice:   helpers.CreateTestInvoice(),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "worker not found",
		},
		{
			name:      "unknown_product",
			invoice:   helpers.CreateTestInvoice(),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestWorker(), nil)
				f.invoices.EXPECT().
					SaveHeader(gomock.Any(), gomock.Any()).
					Return(nil)
				f.products.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "product not found",
		},
		{
			name: "validation_rejects_empty_items_before_any_storage",
			invoice: helpers.CreateTestInvoice(func(inv *domain.Invoice) {
				inv.Items = nil
			}),
			threshold:     5,
			setupMocks:    func(t *testing.T, f *invoiceMocks) {},
			expectedError: true,
			errorContains: "at least one item is required",
			checkError: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "validation_rejects_non_positive_quantity",
			invoice: helpers.CreateTestInvoice(func(inv *domain.Invoice) {
				inv.Items = []domain.Item{{ProductID: 1, Quantity: 0}}
			}),
			threshold:     5,
			setupMocks:    func(t *testing.T, f *invoiceMocks) {},
			expectedError: true,
			errorContains: "must be positive",
		},
		{
			name:      "repository_error_aborts_posting",
			invoice:   helpers.CreateTestInvoice(),
			threshold: 5,
			setupMocks: func(t *testing.T, f *invoiceMocks) {
				f.expectTransaction()
				f.partners.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestPartner(), nil)
				f.workers.EXPECT().
					FindByID(gomock.Any(), int64(1)).
					Return(helpers.CreateTestWorker(), nil)
				f.invoices.EXPECT().
					SaveHeader(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newInvoiceMocks(ctrl)
			tt.setupMocks(t, f)

			service := f.service(t, tt.threshold)

			id, err := service.Create(context.Background(), tt.invoice)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				if tt.checkError != nil {
					tt.checkError(t, err)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.invoice.ID, id)
			if tt.checkInvoice != nil {
				tt.checkInvoice(t, tt.invoice)
			}
		})
	}
}

func TestInvoiceService_Create_LowStockAlert(t *testing.T) {
	// Shipping 4 of 8 leaves 4, at or below the threshold of 5.
	product := helpers.CreateTestProduct(func(p *domain.Product) {
		p.Quantity = 8
	})

	expectPosting := func(f *invoiceMocks) {
		f.expectTransaction()
		f.partners.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestPartner(), nil)
		f.workers.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestWorker(), nil)
		f.invoices.EXPECT().
			SaveHeader(gomock.Any(), gomock.Any()).
			Return(nil)
		f.products.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(product, nil)
		f.products.EXPECT().
			DecreaseStock(gomock.Any(), int64(1), 4).
			Return(nil)
		f.invoices.EXPECT().
			SaveItem(gomock.Any(), gomock.Any()).
			Return(nil)
	}

	t.Run("enqueues_alert_after_commit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectPosting(f)
		f.enqueuer.EXPECT().
			EnqueueLowStockAlert(gomock.Any(), int64(1), "Mineral Water 0.5L", 4).
			Return(nil)

		_, err := f.service(t, 5).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})

	t.Run("enqueue_failure_does_not_fail_posting", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectPosting(f)
		f.enqueuer.EXPECT().
			EnqueueLowStockAlert(gomock.Any(), int64(1), "Mineral Water 0.5L", 4).
			Return(errors.New("redis unavailable"))

		_, err := f.service(t, 5).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})

	t.Run("no_alert_above_threshold", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectPosting(f)

		// Threshold 3: remaining 4 is still healthy, nothing enqueued.
		_, err := f.service(t, 3).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})

	t.Run("alerts_disabled_with_zero_threshold", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectPosting(f)

		_, err := f.service(t, 0).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})
}

func TestInvoiceService_Create_InvalidatesProductCache(t *testing.T) {
	// Cached product reads must not survive a stock movement, and a
	// rolled back posting must leave the cache alone. Expectations are
	// set up by hand here so DeletePattern calls are counted exactly.
	expectTx := func(f *invoiceMocks) {
		f.db.EXPECT().
			Transaction(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fn func(pgx.Tx) error) error {
				return fn(nil)
			})
		f.partners.EXPECT().WithTx(gomock.Any()).Return(f.partners).AnyTimes()
		f.workers.EXPECT().WithTx(gomock.Any()).Return(f.workers).AnyTimes()
		f.invoices.EXPECT().WithTx(gomock.Any()).Return(f.invoices).AnyTimes()
		f.products.EXPECT().WithTx(gomock.Any()).Return(f.products).AnyTimes()
	}

	t.Run("posting_evicts_product_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectTx(f)
		f.partners.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestPartner(), nil)
		f.workers.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestWorker(), nil)
		f.invoices.EXPECT().
			SaveHeader(gomock.Any(), gomock.Any()).
			Return(nil)
		f.products.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestProduct(), nil)
		f.products.EXPECT().
			DecreaseStock(gomock.Any(), int64(1), 4).
			Return(nil)
		f.invoices.EXPECT().
			SaveItem(gomock.Any(), gomock.Any()).
			Return(nil)
		f.cache.EXPECT().
			DeletePattern(gomock.Any(), "product:*").
			Return(nil).
			Times(1)

		_, err := f.service(t, 0).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})

	t.Run("eviction_failure_does_not_fail_posting", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectTx(f)
		f.partners.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestPartner(), nil)
		f.workers.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestWorker(), nil)
		f.invoices.EXPECT().
			SaveHeader(gomock.Any(), gomock.Any()).
			Return(nil)
		f.products.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(helpers.CreateTestProduct(), nil)
		f.products.EXPECT().
			DecreaseStock(gomock.Any(), int64(1), 4).
			Return(nil)
		f.invoices.EXPECT().
			SaveItem(gomock.Any(), gomock.Any()).
			Return(nil)
		f.cache.EXPECT().
			DeletePattern(gomock.Any(), "product:*").
			Return(errors.New("redis unavailable"))

		_, err := f.service(t, 0).Create(context.Background(), helpers.CreateTestInvoice())
		require.NoError(t, err)
	})

	t.Run("rolled_back_posting_keeps_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		expectTx(f)
		f.partners.EXPECT().
			FindByID(gomock.Any(), int64(1)).
			Return(nil, nil)

		_, err := f.service(t, 0).Create(context.Background(), helpers.CreateTestInvoice())
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestInvoiceService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		id            int64
		setupMocks    func(*mocks.MockInvoiceRepository)
		expectedError bool
		errorContains string
	}{
		{
			name: "successfully_deletes_invoice",
			id:   1,
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
			},
		},
		{
			name: "invoice_not_found",
			id:   99,
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.EXPECT().
					Delete(gomock.Any(), int64(99)).
					Return(domain.NewNotFound("invoice", "id = 99"))
			},
			expectedError: true,
			errorContains: "invoice not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newInvoiceMocks(ctrl)
			tt.setupMocks(f.invoices)

			err := f.service(t, 5).Delete(context.Background(), tt.id)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestInvoiceService_GetByID(t *testing.T) {
	testInvoice := helpers.CreateTestInvoice()

	tests := []struct {
		name          string
		id            int64
		setupMocks    func(*mocks.MockInvoiceRepository)
		expectedError bool
		errorContains string
	}{
		{
			name: "successfully_retrieves_invoice",
			id:   testInvoice.ID,
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testInvoice.ID).
					Return(testInvoice, nil)
			},
		},
		{
			name: "invoice_not_found",
			id:   99,
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), int64(99)).
					Return(nil, nil)
			},
			expectedError: true,
			errorContains: "invoice not found",
		},
		{
			name: "repository_error",
			id:   testInvoice.ID,
			setupMocks: func(m *mocks.MockInvoiceRepository) {
				m.EXPECT().
					FindByID(gomock.Any(), testInvoice.ID).
					Return(nil, errors.New("database error"))
			},
			expectedError: true,
			errorContains: "database error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newInvoiceMocks(ctrl)
			tt.setupMocks(f.invoices)

			result, err := f.service(t, 5).GetByID(context.Background(), tt.id)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, testInvoice.ID, result.ID)
		})
	}
}

func TestInvoiceService_List(t *testing.T) {
	t.Run("returns_matching_invoices", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		filter := ports.InvoiceFilter{Type: domain.TransactionOutcome}
		f.invoices.EXPECT().
			FindAll(gomock.Any(), filter).
			Return([]domain.Invoice{*helpers.CreateTestInvoice()}, nil)

		result, err := f.service(t, 5).List(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("nil_result_becomes_empty_slice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		f := newInvoiceMocks(ctrl)
		f.invoices.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			Return(nil, nil)

		result, err := f.service(t, 5).List(context.Background(), ports.InvoiceFilter{})
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result)
	})
}
