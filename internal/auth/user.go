// Package auth manages users, roles, passwords and signed session cookies.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Role is either admin or user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSuspended          = errors.New("user is suspended")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidUser        = errors.New("email and password are required")
)

// User is an account. The password hash never leaves the repository.
type User struct {
	ID          int64      `json:"id" db:"id"`
	Username    string     `json:"username" db:"username"`
	Email       string     `json:"email" db:"email"`
	Role        Role       `json:"role" db:"role"`
	Suspended   bool       `json:"suspended" db:"suspended"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Repository persists users. Lookups by username or email are
// case-insensitive. Missing users are reported as ErrUserNotFound.
type Repository interface {
	UserByID(ctx context.Context, id int64) (User, error)
	// UserByLogin matches identifier against username or email and returns
	// the user with its password hash.
	UserByLogin(ctx context.Context, identifier string) (User, string, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountAdmins(ctx context.Context) (int, error)
	UsernameExists(ctx context.Context, username string, exceptID int64) (bool, error)
	EmailExists(ctx context.Context, email string, exceptID int64) (bool, error)
	InsertUser(ctx context.Context, u User, passwordHash string) (User, error)
	// UpdateUser writes username and email, and the hash when it is not empty.
	UpdateUser(ctx context.Context, u User, passwordHash string) error
	SetSuspended(ctx context.Context, id int64, suspended bool) error
	SetLastLogin(ctx context.Context, id int64, at time.Time) error
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9._-]`)

// SlugFromEmail derives a username from the local part of an email address.
func SlugFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return slugInvalid.ReplaceAllString(strings.ToLower(local), "")
}

// PickUniqueUsername returns base, or base followed by the first counter
// that is not taken. An empty base becomes "user".
func PickUniqueUsername(base string, taken func(string) (bool, error)) (string, error) {
	candidate := base
	if candidate == "" {
		base, candidate = "user", "user"
	}
	for i := 1; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(i)
	}
}
