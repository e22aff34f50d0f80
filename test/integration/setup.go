package integration

import (
	"context"
	"testing"
	"time"

	"canteen/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the schema and
// inserts the seed data.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	logger := zerolog.Nop()
	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := database.Seed(ctx, pool, logger); err != nil {
		t.Fatalf("failed to seed database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// ResetDynamicState clears everything the tests create on top of the seed:
// meal records, payments, subscriptions, prepared batches, requisitions,
// reviews, notifications, card details and balances. Inventory is truncated
// and re-seeded so stock levels return to their starting values.
func ResetDynamicState(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		TRUNCATE meal_records, payments, subscriptions, prepared_dishes,
			purchase_requests, reviews, notifications`)
	if err != nil {
		t.Fatalf("failed to reset dynamic tables: %v", err)
	}

	_, err = pool.Exec(ctx, `
		UPDATE student_profiles
		SET balance = 0, allergies = '', preferences = '',
			encrypted_card_number = NULL, card_expiry = NULL`)
	if err != nil {
		t.Fatalf("failed to reset profiles: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE inventory`); err != nil {
		t.Fatalf("failed to reset inventory: %v", err)
	}
	if err := database.Seed(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to re-seed: %v", err)
	}
}
