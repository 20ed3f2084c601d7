package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/prepdeck/problembank/internal/bank"
	"github.com/prepdeck/problembank/internal/store"
)

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := t.Context()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("bank"),
		postgres.WithUsername("bank"),
		postgres.WithPassword("bank"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(pool.Close)

	s := store.New(pool)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return s
}

func TestStore_SyncAndRead(t *testing.T) {
	s := setupStore(t)
	ctx := t.Context()

	b, err := bank.Embedded()
	if err != nil {
		t.Fatalf("Embedded() error = %v", err)
	}

	if err := s.Sync(ctx, b.Document()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != b.Len() {
		t.Errorf("Count() = %d, want %d", n, b.Len())
	}

	p, err := s.GetBySlug(ctx, "leaf-similar-trees")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}
	if p.FrontendID != "872" {
		t.Errorf("FrontendID = %q, want 872", p.FrontendID)
	}
	if len(p.Examples) != 2 {
		t.Errorf("examples = %d, want 2", len(p.Examples))
	}
	if p.Examples[0].Output != "true" {
		t.Errorf("first example output = %q, want true", p.Examples[0].Output)
	}

	easy, err := s.ListByDifficulty(ctx, bank.Easy)
	if err != nil {
		t.Fatalf("ListByDifficulty() error = %v", err)
	}
	if len(easy) != 2 {
		t.Fatalf("Easy = %d problems, want 2", len(easy))
	}
	if easy[0].FrontendID != "872" {
		t.Errorf("first Easy problem = %q, want 872 (dataset order)", easy[0].FrontendID)
	}
}

func TestStore_Sync_Replaces(t *testing.T) {
	s := setupStore(t)
	ctx := t.Context()

	b, err := bank.Embedded()
	if err != nil {
		t.Fatalf("Embedded() error = %v", err)
	}

	if err := s.Sync(ctx, b.Document()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	// A second sync with a smaller document must fully replace the first.
	small := bank.Document{Hard: b.Tier(bank.Hard)}
	if err := s.Sync(ctx, small); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1 after replacing sync", n)
	}

	if _, err := s.GetBySlug(ctx, "two-sum"); !errors.Is(err, bank.ErrNotFound) {
		t.Errorf("GetBySlug(two-sum) error = %v, want ErrNotFound", err)
	}
}
