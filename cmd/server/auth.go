package main

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Simplici0/printcost/internal/auth"
)

type userKey struct{}

func withUser(ctx context.Context, u auth.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// currentUser returns the user loaded by requireUser.
func currentUser(r *http.Request) auth.User {
	u, _ := r.Context().Value(userKey{}).(auth.User)
	return u
}

// requireUser resolves the session cookie to an active user.
func (s *server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.sessions.UserID(r)
		if err != nil {
			s.fail(w, r, auth.ErrInvalidSession)
			return
		}

		u, err := s.accounts.User(r.Context(), id)
		if errors.Is(err, auth.ErrUserNotFound) {
			s.sessions.ClearCookie(w)
			s.fail(w, r, auth.ErrInvalidSession)
			return
		}
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if u.Suspended {
			s.sessions.ClearCookie(w)
			s.fail(w, r, auth.ErrSuspended)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentUser(r).IsAdmin() {
			writeJSON(w, http.StatusForbidden, errorBody{Error: auth.ErrForbidden.Error()})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.accounts.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrSuspended) {
			s.logger.Info("login rejected", zap.String("login", req.Login), zap.Error(err))
		}
		s.fail(w, r, err)
		return
	}

	s.sessions.SetCookie(w, u.ID)
	writeJSON(w, http.StatusOK, u)
}

func (s *server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in auth.ProfileUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}

	u, err := s.accounts.UpdateProfile(r.Context(), currentUser(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.accounts.ListUsers(r.Context(), currentUser(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in auth.NewUser
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	if in.Role != "" && in.Role != auth.RoleAdmin && in.Role != auth.RoleUser {
		s.fail(w, r, badRequestf("role must be %q or %q", auth.RoleAdmin, auth.RoleUser))
		return
	}

	u, err := s.accounts.CreateUser(r.Context(), currentUser(r), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if _, err := s.store.EnsureCompanyDefaults(r.Context(), u.ID); err != nil {
		s.logger.Warn("company defaults for new user", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	writeJSON(w, http.StatusCreated, u)
}

type suspendRequest struct {
	Suspended bool `json:"suspended"`
}

func (s *server) handleSuspendUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req suspendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	if err := s.accounts.SetSuspended(r.Context(), currentUser(r), id, req.Suspended); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
