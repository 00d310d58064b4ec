package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/Simplici0/printcost/internal/auth"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Accounts creates the seed admin.
type Accounts interface {
	EnsureSeedAdmin(ctx context.Context, username, email, password string) (bool, error)
}

// Store is the persistence the seed touches.
type Store interface {
	UserByLogin(ctx context.Context, identifier string) (auth.User, string, error)
	EnsureCompanyDefaults(ctx context.Context, owner int64) (bool, error)
}

// Run executes the startup seed in an idempotent way: the configured admin
// is created when no admin exists, and the admin gets default company
// settings.
func Run(ctx context.Context, accounts Accounts, st Store, cfg Config) (Stats, error) {
	stats := Stats{}

	if err := seedAdmin(ctx, accounts, cfg, &stats); err != nil {
		return Stats{}, err
	}
	if err := ensureCompanySettings(ctx, st, cfg.AdminEmail, &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, accounts Accounts, cfg Config, stats *Stats) error {
	created, err := accounts.EnsureSeedAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	if created {
		stats.Inserts++
	}
	return nil
}

func ensureCompanySettings(ctx context.Context, st Store, adminEmail string, stats *Stats) error {
	if adminEmail == "" {
		return nil
	}

	admin, _, err := st.UserByLogin(ctx, adminEmail)
	if errors.Is(err, auth.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load seed admin: %w", err)
	}

	inserted, err := st.EnsureCompanyDefaults(ctx, admin.ID)
	if err != nil {
		return fmt.Errorf("seed company settings: %w", err)
	}
	if inserted {
		stats.Inserts++
	}
	return nil
}
