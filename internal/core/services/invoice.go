// internal/core/services/invoice.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/core/ports"
)

// InvoiceService runs the stock-aware invoice posting workflow. Posting an
// invoice verifies the partner and worker, writes the header, then walks the
// lines applying stock movements and snapshotting the catalog price into
// each line. Everything happens inside one database transaction: any line
// failing (unknown product, insufficient stock) rolls back the whole
// posting, header included.
type InvoiceService struct {
	db       ports.TxRunner
	invoices ports.InvoiceRepository
	products ports.ProductRepository
	partners ports.PartnerRepository
	workers  ports.WorkerRepository
	cache    ports.CacheRepository
	enqueuer ports.TaskEnqueuer
	lowStock int
	logger   *slog.Logger
}

var _ ports.InvoiceService = (*InvoiceService)(nil)

// NewInvoiceService creates a new invoice service. The cache and enqueuer
// are optional and may be nil; lowStockThreshold <= 0 disables low stock
// alerts.
func NewInvoiceService(
	db ports.TxRunner,
	invoices ports.InvoiceRepository,
	products ports.ProductRepository,
	partners ports.PartnerRepository,
	workers ports.WorkerRepository,
	cache ports.CacheRepository,
	enqueuer ports.TaskEnqueuer,
	lowStockThreshold int,
	logger *slog.Logger,
) *InvoiceService {
	return &InvoiceService{
		db:       db,
		invoices: invoices,
		products: products,
		partners: partners,
		workers:  workers,
		cache:    cache,
		enqueuer: enqueuer,
		lowStock: lowStockThreshold,
		logger:   logger.With(slog.String("service", "invoice")),
	}
}

type lowStockProduct struct {
	id       int64
	name     string
	quantity int
}

// Create posts an invoice atomically and returns its id.
func (s *InvoiceService) Create(ctx context.Context, invoice *domain.Invoice) (int64, error) {
	if err := invoice.Validate(); err != nil {
		return 0, err
	}

	var lowStockAlerts []lowStockProduct

	err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		partners := s.partners.WithTx(tx)
		workers := s.workers.WithTx(tx)
		invoices := s.invoices.WithTx(tx)
		products := s.products.WithTx(tx)

		partner, err := partners.FindByID(ctx, invoice.PartnerID)
		if err != nil {
			return err
		}
		if partner == nil {
			return domain.NewNotFound("partner", fmt.Sprintf("id = %d", invoice.PartnerID))
		}
		invoice.PartnerName = partner.Name

		worker, err := workers.FindByID(ctx, invoice.WorkerID)
		if err != nil {
			return err
		}
		if worker == nil {
			return domain.NewNotFound("worker", fmt.Sprintf("id = %d", invoice.WorkerID))
		}
		invoice.WorkerName = worker.Name

		if err := invoices.SaveHeader(ctx, invoice); err != nil {
			return err
		}

		for i := range invoice.Items {
			item := &invoice.Items[i]

			product, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.NewNotFound("product", fmt.Sprintf("id = %d", item.ProductID))
			}

			switch invoice.Type {
			case domain.TransactionIncome:
				if err := products.IncreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			case domain.TransactionOutcome:
				if err := products.DecreaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return err
				}
				remaining := product.Quantity - item.Quantity
				if s.lowStock > 0 && remaining <= s.lowStock {
					lowStockAlerts = append(lowStockAlerts, lowStockProduct{
						id:       product.ID,
						name:     product.Name,
						quantity: remaining,
					})
				}
			}

			// Snapshot the catalog price at posting time. Later price
			// changes never rewrite posted lines.
			item.InvoiceID = invoice.ID
			item.ProductName = product.Name
			item.Price = product.CatalogPrice(invoice.Type)

			if err := invoices.SaveItem(ctx, item); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "invoice posted",
		slog.Int64("id", invoice.ID),
		slog.String("type", string(invoice.Type)),
		slog.Int("items", len(invoice.Items)))

	// Stock moved, so cached product reads are stale.
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, productCacheKeyPrefix+":*"); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate product cache",
				slog.String("error", err.Error()))
		}
	}

	// Alerts go out only after the transaction committed; a failed enqueue
	// is logged, never surfaced to the caller.
	if s.enqueuer != nil {
		for _, p := range lowStockAlerts {
			if err := s.enqueuer.EnqueueLowStockAlert(ctx, p.id, p.name, p.quantity); err != nil {
				s.logger.WarnContext(ctx, "failed to enqueue low stock alert",
					slog.Int64("product_id", p.id),
					slog.String("error", err.Error()))
			}
		}
	}

	return invoice.ID, nil
}

// Delete removes an invoice and its items. Stock movements recorded by the
// posting are kept: the invoice documents a physical transfer that already
// happened.
func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	if err := s.invoices.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "invoice deleted", slog.Int64("id", id))
	return nil
}

// GetByID retrieves an invoice with its items.
func (s *InvoiceService) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.NewNotFound("invoice", fmt.Sprintf("id = %d", id))
	}
	return invoice, nil
}

// List retrieves invoices matching the filter.
func (s *InvoiceService) List(ctx context.Context, filter ports.InvoiceFilter) ([]domain.Invoice, error) {
	invoices, err := s.invoices.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	return invoices, nil
}
