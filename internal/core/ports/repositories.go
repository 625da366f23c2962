// internal/core/ports/repositories.go
package ports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mvolkova/warehouse-be/internal/core/domain"
)

// Find* methods return (nil, nil) when no row matches; callers decide whether
// a miss is an error. WithTx returns a repository bound to the given
// transaction so multi-entity operations can share one atomic boundary.

// PartnerRepository is the persistence port for partners.
type PartnerRepository interface {
	WithTx(tx pgx.Tx) PartnerRepository
	Save(ctx context.Context, partner *domain.Partner) error
	Update(ctx context.Context, partner *domain.Partner) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Partner, error)
	FindByName(ctx context.Context, name string) (*domain.Partner, error)
	FindByRequisites(ctx context.Context, requisites string) (*domain.Partner, error)
	FindByAddressLike(ctx context.Context, address string) ([]domain.Partner, error)
	FindByEmailLike(ctx context.Context, email string) ([]domain.Partner, error)
	FindAll(ctx context.Context) ([]domain.Partner, error)
}

// ProducerRepository is the persistence port for producers.
type ProducerRepository interface {
	WithTx(tx pgx.Tx) ProducerRepository
	Save(ctx context.Context, producer *domain.Producer) error
	Update(ctx context.Context, producer *domain.Producer) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Producer, error)
	FindByName(ctx context.Context, name string) (*domain.Producer, error)
	FindAll(ctx context.Context) ([]domain.Producer, error)
}

// WorkerRepository is the persistence port for workers.
type WorkerRepository interface {
	WithTx(tx pgx.Tx) WorkerRepository
	Save(ctx context.Context, worker *domain.Worker) error
	Update(ctx context.Context, worker *domain.Worker) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Worker, error)
	FindByName(ctx context.Context, name string) (*domain.Worker, error)
	FindAll(ctx context.Context) ([]domain.Worker, error)
}

// ProductGroupRepository is the persistence port for product groups.
type ProductGroupRepository interface {
	WithTx(tx pgx.Tx) ProductGroupRepository
	Save(ctx context.Context, group *domain.ProductGroup) error
	Update(ctx context.Context, group *domain.ProductGroup) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.ProductGroup, error)
	FindByName(ctx context.Context, name string) (*domain.ProductGroup, error)
	FindAll(ctx context.Context) ([]domain.ProductGroup, error)
}

// ProductRepository is the persistence port for products, including the
// stock ledger operations. IncreaseStock and DecreaseStock return typed
// domain errors directly: NotFoundError when the product is missing and,
// for DecreaseStock, InsufficientStockError when the guarded decrement
// would drive the on-hand count negative (no mutation happens then).
type ProductRepository interface {
	WithTx(tx pgx.Tx) ProductRepository
	Save(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	IncreaseStock(ctx context.Context, productID int64, quantity int) error
	DecreaseStock(ctx context.Context, productID int64, quantity int) error
}

// ProductFilter narrows product listings. Zero values mean "no filter".
type ProductFilter struct {
	NameLike   string
	ProducerID int64
	GroupID    int64
}

// InvoiceRepository is the persistence port for invoices and their items.
type InvoiceRepository interface {
	WithTx(tx pgx.Tx) InvoiceRepository
	SaveHeader(ctx context.Context, invoice *domain.Invoice) error
	SaveItem(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id int64) (*domain.Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	Delete(ctx context.Context, id int64) error
}

// InvoiceFilter narrows invoice listings. Zero values mean "no filter".
type InvoiceFilter struct {
	PartnerID int64
	WorkerID  int64
	Type      domain.TransactionType
	Date      *time.Time
}
