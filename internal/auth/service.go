package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Service implements the account operations on top of a Repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// NewUser is the input of CreateUser. An empty Username is derived from
// the email; an empty Role means RoleUser.
type NewUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// ProfileUpdate changes the caller's own account. Empty fields are kept.
type ProfileUpdate struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// EnsureSeedAdmin creates the configured admin when no admin exists yet.
// It reports whether a user was inserted. Empty credentials are a no-op.
func (s *Service) EnsureSeedAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	admins, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return false, nil
	}

	if username == "" {
		username = SlugFromEmail(email)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	u, err := s.repo.InsertUser(ctx, User{
		Username:  strings.ToLower(strings.TrimSpace(username)),
		Email:     strings.TrimSpace(email),
		Role:      RoleAdmin,
		CreatedAt: s.now().UTC(),
	}, hash)
	if err != nil {
		return false, fmt.Errorf("insert seed admin: %w", err)
	}

	s.logger.Info("seed admin created", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return true, nil
}

// Login authenticates by username or email. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, identifier, password string) (User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, hash, err := s.repo.UserByLogin(ctx, identifier)
	if errors.Is(err, ErrUserNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("load user: %w", err)
	}
	if !CheckPassword(hash, password) {
		return User{}, ErrInvalidCredentials
	}
	if u.Suspended {
		return User{}, ErrSuspended
	}

	at := s.now().UTC()
	if err := s.repo.SetLastLogin(ctx, u.ID, at); err != nil {
		return User{}, fmt.Errorf("record last login: %w", err)
	}
	u.LastLoginAt = &at
	return u, nil
}

// User loads a user by id.
func (s *Service) User(ctx context.Context, id int64) (User, error) {
	u, err := s.repo.UserByID(ctx, id)
	if err != nil {
		return User{}, fmt.Errorf("load user %d: %w", id, err)
	}
	return u, nil
}

// ListUsers is admin only.
func (s *Service) ListUsers(ctx context.Context, actor User) ([]User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser is admin only. Duplicate emails are rejected; a taken username
// gets a numeric suffix.
func (s *Service) CreateUser(ctx context.Context, actor User, in NewUser) (User, error) {
	if !actor.IsAdmin() {
		return User{}, ErrForbidden
	}

	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") || in.Password == "" {
		return User{}, ErrInvalidUser
	}
	role := in.Role
	if role != RoleAdmin {
		role = RoleUser
	}

	dup, err := s.repo.EmailExists(ctx, email, 0)
	if err != nil {
		return User{}, fmt.Errorf("check email: %w", err)
	}
	if dup {
		return User{}, ErrEmailTaken
	}

	base := strings.ToLower(strings.TrimSpace(in.Username))
	if base == "" {
		base = SlugFromEmail(email)
	}
	username, err := PickUniqueUsername(base, func(candidate string) (bool, error) {
		return s.repo.UsernameExists(ctx, candidate, 0)
	})
	if err != nil {
		return User{}, fmt.Errorf("pick username: %w", err)
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	u, err := s.repo.InsertUser(ctx, User{
		Username:  username,
		Email:     email,
		Role:      role,
		CreatedAt: s.now().UTC(),
	}, hash)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	s.logger.Info("user created",
		zap.Int64("user_id", u.ID),
		zap.String("username", u.Username),
		zap.Int64("created_by", actor.ID))
	return u, nil
}

// UpdateProfile changes the actor's own username, email or password.
func (s *Service) UpdateProfile(ctx context.Context, actor User, in ProfileUpdate) (User, error) {
	me, err := s.repo.UserByID(ctx, actor.ID)
	if err != nil {
		return User{}, fmt.Errorf("load user %d: %w", actor.ID, err)
	}

	if email := strings.TrimSpace(in.Email); email != "" && !strings.EqualFold(email, me.Email) {
		dup, err := s.repo.EmailExists(ctx, email, me.ID)
		if err != nil {
			return User{}, fmt.Errorf("check email: %w", err)
		}
		if dup {
			return User{}, ErrEmailTaken
		}
		me.Email = email
	}

	if username := strings.TrimSpace(in.Username); username != "" && !strings.EqualFold(username, me.Username) {
		dup, err := s.repo.UsernameExists(ctx, username, me.ID)
		if err != nil {
			return User{}, fmt.Errorf("check username: %w", err)
		}
		if dup {
			return User{}, ErrUsernameTaken
		}
		me.Username = username
	}

	hash := ""
	if in.NewPassword != "" {
		if hash, err = HashPassword(in.NewPassword); err != nil {
			return User{}, err
		}
	}

	if err := s.repo.UpdateUser(ctx, me, hash); err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	return me, nil
}

// SetSuspended is admin only. An admin cannot suspend themself.
func (s *Service) SetSuspended(ctx context.Context, actor User, id int64, suspended bool) error {
	if !actor.IsAdmin() || actor.ID == id {
		return ErrForbidden
	}
	if err := s.repo.SetSuspended(ctx, id, suspended); err != nil {
		return fmt.Errorf("set suspended: %w", err)
	}
	s.logger.Info("user suspension changed",
		zap.Int64("user_id", id),
		zap.Bool("suspended", suspended),
		zap.Int64("changed_by", actor.ID))
	return nil
}
