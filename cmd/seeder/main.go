package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"
)

// CatalogProduct is one row of the Products sheet.
type CatalogProduct struct {
	Name         string
	Description  string
	Group        string
	Producer     string
	Quantity     int
	IncomePrice  decimal.Decimal
	OutcomePrice decimal.Decimal
}

// CatalogPartner is one row of the Partners sheet.
type CatalogPartner struct {
	Name       string
	Address    string
	Email      string
	Requisites string
}

// CatalogWorker is one row of the Workers sheet.
type CatalogWorker struct {
	Name string
	Job  string
}

// CatalogLoader parses the seed workbook.
type CatalogLoader struct {
	logger *slog.Logger
}

func NewCatalogLoader(logger *slog.Logger) *CatalogLoader {
	return &CatalogLoader{logger: logger}
}

// cellValue reads a cell by index, preferring the formatted value.
func cellValue(r *xlsx.Row, i int) string {
	c := r.GetCell(i)
	if c == nil {
		return ""
	}
	if s, err := c.FormattedValue(); err == nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(c.String())
}

func (l *CatalogLoader) sheet(file *xlsx.File, name string) *xlsx.Sheet {
	for _, s := range file.Sheets {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

// LoadProducts reads the Products sheet. Expected columns:
// Name, Description, Group, Producer, Quantity, IncomePrice, OutcomePrice.
func (l *CatalogLoader) LoadProducts(file *xlsx.File) ([]CatalogProduct, error) {
	sheet := l.sheet(file, "Products")
	if sheet == nil {
		return nil, fmt.Errorf("no Products sheet found")
	}

	var products []CatalogProduct
	rowIdx := 0
	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		name := cellValue(r, 0)
		if name == "" {
			return nil
		}

		quantity, _ := strconv.Atoi(cellValue(r, 4))
		incomePrice, err := decimal.NewFromString(cellValue(r, 5))
		if err != nil {
			l.logger.Warn("skipping product with bad income price",
				slog.String("name", name), slog.String("value", cellValue(r, 5)))
			return nil
		}
		outcomePrice, err := decimal.NewFromString(cellValue(r, 6))
		if err != nil {
			l.logger.Warn("skipping product with bad outcome price",
				slog.String("name", name), slog.String("value", cellValue(r, 6)))
			return nil
		}

		products = append(products, CatalogProduct{
			Name:         name,
			Description:  cellValue(r, 1),
			Group:        cellValue(r, 2),
			Producer:     cellValue(r, 3),
			Quantity:     quantity,
			IncomePrice:  incomePrice,
			OutcomePrice: outcomePrice,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}

	l.logger.Info("loaded products from workbook", slog.Int("count", len(products)))
	return products, nil
}

// LoadPartners reads the optional Partners sheet: Name, Address, Email, Requisites.
func (l *CatalogLoader) LoadPartners(file *xlsx.File) ([]CatalogPartner, error) {
	sheet := l.sheet(file, "Partners")
	if sheet == nil {
		return nil, nil
	}

	var partners []CatalogPartner
	rowIdx := 0
	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		name := cellValue(r, 0)
		if name == "" {
			return nil
		}

		partners = append(partners, CatalogPartner{
			Name:       name,
			Address:    cellValue(r, 1),
			Email:      cellValue(r, 2),
			Requisites: cellValue(r, 3),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate partner rows: %w", err)
	}

	l.logger.Info("loaded partners from workbook", slog.Int("count", len(partners)))
	return partners, nil
}

// LoadWorkers reads the optional Workers sheet: Name, Job.
func (l *CatalogLoader) LoadWorkers(file *xlsx.File) ([]CatalogWorker, error) {
	sheet := l.sheet(file, "Workers")
	if sheet == nil {
		return nil, nil
	}

	var workers []CatalogWorker
	rowIdx := 0
	err := sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		name := cellValue(r, 0)
		if name == "" {
			return nil
		}

		workers = append(workers, CatalogWorker{
			Name: name,
			Job:  cellValue(r, 1),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate worker rows: %w", err)
	}

	l.logger.Info("loaded workers from workbook", slog.Int("count", len(workers)))
	return workers, nil
}

// Seeder writes catalog data to the database.
type Seeder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewSeeder(db *pgxpool.Pool, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, logger: logger}
}

// SeedProducts inserts products, creating any missing groups and producers
// first. Existing products are left untouched.
func (s *Seeder) SeedProducts(ctx context.Context, products []CatalogProduct) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	groupIDs := make(map[string]int64)
	producerIDs := make(map[string]int64)

	for _, p := range products {
		if p.Group != "" && groupIDs[p.Group] == 0 {
			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO product_group (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, p.Group).Scan(&id)
			if err != nil {
				return 0, fmt.Errorf("failed to upsert group %q: %w", p.Group, err)
			}
			groupIDs[p.Group] = id
		}
		if p.Producer != "" && producerIDs[p.Producer] == 0 {
			var id int64
			err := tx.QueryRow(ctx, `
				INSERT INTO producer (name, address) VALUES ($1, '')
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id`, p.Producer).Scan(&id)
			if err != nil {
				return 0, fmt.Errorf("failed to upsert producer %q: %w", p.Producer, err)
			}
			producerIDs[p.Producer] = id
		}
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO product (
				name, description, group_id, producer_id,
				quantity, income_price, outcome_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (name) DO NOTHING`,
			p.Name, p.Description, groupIDs[p.Group], producerIDs[p.Producer],
			p.Quantity, p.IncomePrice, p.OutcomePrice,
		)
	}

	br := tx.SendBatch(ctx, batch)
	inserted := 0
	for range products {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return 0, fmt.Errorf("failed to insert product: %w", err)
		}
		inserted += int(tag.RowsAffected())
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seeded products", slog.Int("inserted", inserted))
	return inserted, nil
}

// SeedPartners inserts partners, skipping names already registered.
func (s *Seeder) SeedPartners(ctx context.Context, partners []CatalogPartner) (int, error) {
	inserted := 0
	for _, p := range partners {
		tag, err := s.db.Exec(ctx, `
			INSERT INTO partner (name, address, email, requisites)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING`,
			p.Name, p.Address, p.Email, p.Requisites)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert partner %q: %w", p.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	s.logger.Info("seeded partners", slog.Int("inserted", inserted))
	return inserted, nil
}

// SeedWorkers inserts workers, skipping existing names.
func (s *Seeder) SeedWorkers(ctx context.Context, workers []CatalogWorker) (int, error) {
	inserted := 0
	for _, w := range workers {
		tag, err := s.db.Exec(ctx, `
			INSERT INTO worker (name, job)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			w.Name, w.Job)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert worker %q: %w", w.Name, err)
		}
		inserted += int(tag.RowsAffected())
	}

	s.logger.Info("seeded workers", slog.Int("inserted", inserted))
	return inserted, nil
}

func main() {
	var (
		catalogFile = flag.String("catalog", "./catalog.xlsx", "Workbook with Products, Partners and Workers sheets")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun      = flag.Bool("dry-run", false, "Preview changes without modifying database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "warehouse"),
		getEnv("DB_PASSWORD", "warehouse_dev"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "warehouse"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	file, err := xlsx.OpenFile(*catalogFile)
	if err != nil {
		logger.Error("failed to open catalog workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loader := NewCatalogLoader(logger)

	products, err := loader.LoadProducts(file)
	if err != nil {
		logger.Error("failed to load products", slog.String("error", err.Error()))
		os.Exit(1)
	}
	partners, err := loader.LoadPartners(file)
	if err != nil {
		logger.Error("failed to load partners", slog.String("error", err.Error()))
		os.Exit(1)
	}
	workers, err := loader.LoadWorkers(file)
	if err != nil {
		logger.Error("failed to load workers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dryRun {
		fmt.Printf("[DRY RUN] would seed %d products, %d partners, %d workers\n",
			len(products), len(partners), len(workers))
		return
	}

	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	seeder := NewSeeder(db, logger)

	insertedProducts, err := seeder.SeedProducts(ctx, products)
	if err != nil {
		logger.Error("failed to seed products", slog.String("error", err.Error()))
		os.Exit(1)
	}
	insertedPartners, err := seeder.SeedPartners(ctx, partners)
	if err != nil {
		logger.Error("failed to seed partners", slog.String("error", err.Error()))
		os.Exit(1)
	}
	insertedWorkers, err := seeder.SeedWorkers(ctx, workers)
	if err != nil {
		logger.Error("failed to seed workers", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Products inserted: %d (of %d in workbook)\n", insertedProducts, len(products))
	fmt.Printf("Partners inserted: %d (of %d in workbook)\n", insertedPartners, len(partners))
	fmt.Printf("Workers inserted:  %d (of %d in workbook)\n", insertedWorkers, len(workers))

	logger.Info("seed operation completed",
		slog.Int("products", insertedProducts),
		slog.Int("partners", insertedPartners),
		slog.Int("workers", insertedWorkers))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
