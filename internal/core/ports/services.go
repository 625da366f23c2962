// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
)

// PartnerService is the application service port for partners.
type PartnerService interface {
	Create(ctx context.Context, partner *domain.Partner) error
	Update(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Partner, error)
	GetByName(ctx context.Context, name string) (*domain.Partner, error)
	GetByRequisites(ctx context.Context, requisites string) (*domain.Partner, error)
	ListByAddress(ctx context.Context, address string) ([]domain.Partner, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Partner, error)
	List(ctx context.Context) ([]domain.Partner, error)
}

// ProducerService is the application service port for producers.
type ProducerService interface {
	Create(ctx context.Context, producer *domain.Producer) error
	Update(ctx context.Context, producer *domain.Producer) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Producer, error)
	GetByName(ctx context.Context, name string) (*domain.Producer, error)
	List(ctx context.Context) ([]domain.Producer, error)
}

// WorkerService is the application service port for workers.
type WorkerService interface {
	Create(ctx context.Context, worker *domain.Worker) error
	Update(ctx context.Context, worker *domain.Worker) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetByName(ctx context.Context, name string) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
}

// ProductGroupService is the application service port for product groups.
type ProductGroupService interface {
	Create(ctx context.Context, group *domain.ProductGroup) error
	Update(ctx context.Context, group *domain.ProductGroup) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.ProductGroup, error)
	GetByName(ctx context.Context, name string) (*domain.ProductGroup, error)
	List(ctx context.Context) ([]domain.ProductGroup, error)
}

// ProductService is the application service port for products. Create and
// Update resolve the group and producer references the product names.
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
}

// InvoiceService is the application service port for invoice posting. Create
// runs the whole stock-aware posting workflow atomically and returns the id
// of the created invoice.
type InvoiceService interface {
	Create(ctx context.Context, invoice *domain.Invoice) (int64, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
}
