package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/auth"
	"github.com/Simplici0/printcost/internal/db"
	"github.com/Simplici0/printcost/internal/migrations"
	"github.com/Simplici0/printcost/internal/store"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(ctx, "sqlite", dbPath, 0, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database.DB, "sqlite"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	st := store.New(database)
	accounts := auth.NewService(st, zap.NewNop())
	cfg := Config{
		AdminUsername: "admin",
		AdminEmail:    "admin@printcost.local",
		AdminPassword: "12345",
	}

	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, accounts, st, cfg)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 2 {
				t.Fatalf("expected 2 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database.DB, `SELECT COUNT(*) FROM users WHERE role = 'admin'`, 1)
	assertCount(t, database.DB, `SELECT COUNT(*) FROM company_settings`, 1)

	admin, err := accounts.Login(ctx, "admin", "12345")
	if err != nil {
		t.Fatalf("login as seed admin: %v", err)
	}
	settings, err := st.CompanySettings(ctx, admin.ID)
	if err != nil {
		t.Fatalf("load company settings: %v", err)
	}
	if settings.DeliveryTime != store.DefaultDeliveryTime || settings.QuoteValidity != store.DefaultQuoteValidity {
		t.Fatalf("unexpected settings %+v", settings)
	}
}

func TestRunWithoutAdminPasswordInsertsNothing(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "seed-empty.db"), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()
	if err := migrations.Up(ctx, database.DB, "sqlite"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	st := store.New(database)
	stats, err := Run(ctx, auth.NewService(st, zap.NewNop()), st, Config{AdminEmail: "admin@printcost.local"})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != 0 {
		t.Fatalf("expected no inserts, got %d", stats.Inserts)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
