package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/locus-core/internal/api"
	"github.com/dom/locus-core/internal/cache"
	"github.com/dom/locus-core/internal/config"
	"github.com/dom/locus-core/internal/repository"
	repoPostgres "github.com/dom/locus-core/internal/repository/postgres"
	"github.com/dom/locus-core/internal/repository/workbook"
	"github.com/dom/locus-core/internal/service"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Epoch is the fixed start time of every fake clock handed out here.
var Epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB starts a PostgreSQL container with the record store schema.
// Skipped in -short mode since it needs Docker.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_locus"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	testDB := &TestDB{Container: container}
	t.Cleanup(testDB.Cleanup)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	if err := repoPostgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB.DB = db
	testDB.DSN = dsn
	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"record_rows", "record_tables"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		LogLevel:           "error",
		AllowedOrigins:     []string{"https://peer.example.com"},
		StoreDriver:        config.StoreWorkbook,
		CacheDriver:        config.CacheMemory,
		CacheSweepSchedule: "@hourly",
		SessionTTL:         time.Hour,
		HandshakeTTL:       60 * time.Second,
		Timezone:           "UTC",
	}
}

// NewTestStore returns an in-memory workbook with every table created.
func NewTestStore(t *testing.T) *workbook.Store {
	t.Helper()

	store := workbook.NewInMemory()
	if err := repository.Bootstrap(context.Background(), store); err != nil {
		t.Fatalf("failed to bootstrap workbook: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	Store    *workbook.Store
	Cache    *cache.MemoryCache
	Clock    *Clock
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer wires the full HTTP stack over an in-memory workbook and a
// memory cache driven by a fake clock.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()
	store := NewTestStore(t)
	clock := NewClock(Epoch)
	memCache := cache.NewMemoryCache(cache.WithClock(clock.Now))

	repos := repository.NewRepositories(store)
	services := service.NewServices(repos, memCache, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		Store:    store,
		Cache:    memCache,
		Clock:    clock,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}
