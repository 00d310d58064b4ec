package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/db"
)

func TestUp_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "m.db"), 0, zap.NewNop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := Up(ctx, conn.DB, "sqlite"); err != nil {
		t.Fatalf("Up: %v", err)
	}
	// Running twice is a no-op.
	if err := Up(ctx, conn.DB, "sqlite"); err != nil {
		t.Fatalf("second Up: %v", err)
	}

	v, err := Version(ctx, conn.DB, "sqlite")
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != 1 {
		t.Fatalf("version = %d, want 1", v)
	}

	for _, table := range []string{"users", "printers", "filaments", "accessories", "packaging", "categories", "company_settings", "job_history"} {
		var n int
		if err := conn.GetContext(ctx, &n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table); err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Fatalf("table %s missing", table)
		}
	}
}

func TestUp_UnknownDriver(t *testing.T) {
	if err := Up(context.Background(), nil, "mysql"); err == nil {
		t.Fatalf("expected error")
	}
}
