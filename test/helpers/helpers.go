// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mvolkova/warehouse-be/internal/adapters/db"
	"github.com/mvolkova/warehouse-be/internal/core/domain"
	"github.com/mvolkova/warehouse-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_warehouse",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_warehouse",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		SourcePath: "../../migrations",
		TableName:  "schema_migrations",
		SchemaName: "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_warehouse",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Inventory: config.InventoryConfig{
			LowStockThreshold: 5,
			AlertEmail:        "warehouse@localhost",
			ReportDir:         os.TempDir(),
		},
		Security: config.SecurityConfig{
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

// CreateTestProduct creates a test product
func CreateTestProduct(overrides ...func(*domain.Product)) *domain.Product {
	product := &domain.Product{
		ID:           1,
		GroupID:      1,
		GroupName:    "Beverages",
		ProducerID:   1,
		ProducerName: "Acme Foods",
		Name:         "Mineral Water 0.5L",
		Description:  "Still mineral water, 0.5 liter bottle",
		Quantity:     100,
		IncomePrice:  decimal.NewFromFloat(0.40),
		OutcomePrice: decimal.NewFromFloat(0.75),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	for _, override := range overrides {
		override(product)
	}

	return product
}

// CreateTestProducts creates multiple test products
func CreateTestProducts(count int) []domain.Product {
	products := make([]domain.Product, count)

	for i := 0; i < count; i++ {
		products[i] = *CreateTestProduct(func(p *domain.Product) {
			p.ID = int64(i + 1)
			p.Name = fmt.Sprintf("Test Product %d", i+1)
			p.Quantity = 10 * (i + 1)
			p.IncomePrice = decimal.NewFromInt(int64(i + 1))
			p.OutcomePrice = decimal.NewFromInt(int64(2 * (i + 1)))
		})
	}

	return products
}

// CreateTestPartner creates a test partner
func CreateTestPartner(overrides ...func(*domain.Partner)) *domain.Partner {
	partner := &domain.Partner{
		ID:         1,
		Name:       "Northwind Traders",
		Address:    "12 Harbor St",
		Email:      "orders@northwind.example",
		Requisites: "NW-001-2026",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	for _, override := range overrides {
		override(partner)
	}

	return partner
}

// CreateTestWorker creates a test worker
func CreateTestWorker(overrides ...func(*domain.Worker)) *domain.Worker {
	worker := &domain.Worker{
		ID:        1,
		Name:      "Ivan Petrov",
		Job:       "storekeeper",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(worker)
	}

	return worker
}

// CreateTestInvoice creates a test invoice with a single line
func CreateTestInvoice(overrides ...func(*domain.Invoice)) *domain.Invoice {
	invoice := &domain.Invoice{
		ID:        1,
		PartnerID: 1,
		WorkerID:  1,
		Type:      domain.TransactionOutcome,
		Date:      time.Now().Truncate(24 * time.Hour),
		Items: []domain.Item{
			{ProductID: 1, Quantity: 4},
		},
		CreatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(invoice)
	}

	return invoice
}

// AssertEventuallyWithTimeout asserts that a condition is met within a timeout
func AssertEventuallyWithTimeout(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Errorf("Condition not met within %v: %s", timeout, msg)
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"item",
		"invoice",
		"product",
		"partner",
		"producer",
		"worker",
		"product_group",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}

// SeedTestProducts inserts products directly, creating a default group and
// producer on first use.
func SeedTestProducts(t *testing.T, db *pgxpool.Pool, products []domain.Product) {
	t.Helper()

	ctx := context.Background()

	var groupID, producerID int64
	err := db.QueryRow(ctx, `
		INSERT INTO product_group (name) VALUES ('Test Group')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`).Scan(&groupID)
	require.NoError(t, err, "Failed to seed product group")

	err = db.QueryRow(ctx, `
		INSERT INTO producer (name, address) VALUES ('Test Producer', '')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`).Scan(&producerID)
	require.NoError(t, err, "Failed to seed producer")

	for _, p := range products {
		_, err := db.Exec(ctx, `
			INSERT INTO product (
				name, description, group_id, producer_id,
				quantity, income_price, outcome_price
			) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.Name, p.Description, groupID, producerID,
			p.Quantity, p.IncomePrice, p.OutcomePrice,
		)
		require.NoError(t, err, "Failed to seed test product")
	}
}
