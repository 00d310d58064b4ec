package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/printcost/internal/auth"
)

const userColumns = `id, username, email, role, suspended, created_at, last_login_at`

// The user methods implement auth.Repository.
var _ auth.Repository = (*Store)(nil)

func (s *Store) UserByID(ctx context.Context, id int64) (auth.User, error) {
	var u auth.User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if errors.Is(notFound(err), ErrNotFound) {
		return auth.User{}, auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Store) UserByLogin(ctx context.Context, identifier string) (auth.User, string, error) {
	var row struct {
		auth.User
		PasswordHash string `db:"password_hash"`
	}
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT `+userColumns+`, password_hash FROM users
		WHERE lower(username) = lower(?) OR lower(email) = lower(?)
		ORDER BY id LIMIT 1`), identifier, identifier)
	if errors.Is(notFound(err), ErrNotFound) {
		return auth.User{}, "", auth.ErrUserNotFound
	}
	if err != nil {
		return auth.User{}, "", fmt.Errorf("get user by login: %w", err)
	}
	return row.User, row.PasswordHash, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]auth.User, error) {
	out := []auth.User{}
	if err := s.db.SelectContext(ctx, &out, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), auth.RoleAdmin); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string, exceptID int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE lower(username) = lower(?) AND id <> ?`, username, exceptID)
}

func (s *Store) EmailExists(ctx context.Context, email string, exceptID int64) (bool, error) {
	return s.exists(ctx, `SELECT COUNT(*) FROM users WHERE lower(email) = lower(?) AND id <> ?`, email, exceptID)
}

func (s *Store) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return n > 0, nil
}

func (s *Store) InsertUser(ctx context.Context, u auth.User, passwordHash string) (auth.User, error) {
	id, err := insert(ctx, s.db, `
		INSERT INTO users (username, email, password_hash, role, suspended, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, passwordHash, u.Role, u.Suspended, u.CreatedAt)
	if err != nil {
		return auth.User{}, fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u auth.User, passwordHash string) error {
	var err error
	if passwordHash == "" {
		err = exec(ctx, s.db, `UPDATE users SET username = ?, email = ? WHERE id = ?`, u.Username, u.Email, u.ID)
	} else {
		err = exec(ctx, s.db, `UPDATE users SET username = ?, email = ?, password_hash = ? WHERE id = ?`, u.Username, u.Email, passwordHash, u.ID)
	}
	if errors.Is(err, ErrNotFound) {
		return auth.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (s *Store) SetSuspended(ctx context.Context, id int64, suspended bool) error {
	err := exec(ctx, s.db, `UPDATE users SET suspended = ? WHERE id = ?`, suspended, id)
	if errors.Is(err, ErrNotFound) {
		return auth.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("set suspended %d: %w", id, err)
	}
	return nil
}

func (s *Store) SetLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := exec(ctx, s.db, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, id)
	if errors.Is(err, ErrNotFound) {
		return auth.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("set last login %d: %w", id, err)
	}
	return nil
}
