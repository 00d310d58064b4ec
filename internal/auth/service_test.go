package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func newTestService(t *testing.T) (*Service, *memRepo, User) {
	t.Helper()
	repo := newMemRepo()
	svc := NewService(repo, zap.NewNop())

	created, err := svc.EnsureSeedAdmin(context.Background(), "admin", "admin@local", "s3cret")
	require.NoError(t, err)
	require.True(t, created)

	admin, _, err := repo.UserByLogin(context.Background(), "admin")
	require.NoError(t, err)
	return svc, repo, admin
}

func TestEnsureSeedAdmin_IsIdempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		created, err := svc.EnsureSeedAdmin(context.Background(), "other", "other@local", "pw")
		require.NoError(t, err)
		assert.False(t, created)
	}

	n, err := repo.CountAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEnsureSeedAdmin_SkipsWithoutPassword(t *testing.T) {
	svc := NewService(newMemRepo(), zap.NewNop())
	created, err := svc.EnsureSeedAdmin(context.Background(), "admin", "admin@local", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestLogin(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	u, err := svc.Login(ctx, "ADMIN", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, u.ID)
	require.NotNil(t, u.LastLoginAt)

	_, err = svc.Login(ctx, " Admin@Local ", "s3cret")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_SuspendedUserIsRejected(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, admin, NewUser{Email: "maria@shop.com", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, svc.SetSuspended(ctx, admin, u.ID, true))

	_, err = svc.Login(ctx, "maria", "pw")
	assert.ErrorIs(t, err, ErrSuspended)

	require.NoError(t, svc.SetSuspended(ctx, admin, u.ID, false))
	_, err = svc.Login(ctx, "maria", "pw")
	assert.NoError(t, err)
}

func TestCreateUser(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, admin, NewUser{Email: "Joao.Silva+x@shop.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "joao.silva", SlugFromEmail("Joao.Silva@shop.com"))
	assert.Equal(t, "joao.silvax", first.Username)
	assert.Equal(t, RoleUser, first.Role)

	second, err := svc.CreateUser(ctx, admin, NewUser{Username: "joao.silvax", Email: "other@shop.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "joao.silvax1", second.Username)

	_, err = svc.CreateUser(ctx, admin, NewUser{Email: "JOAO.SILVA+X@shop.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.CreateUser(ctx, admin, NewUser{Email: "no-at-sign", Password: "pw"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.CreateUser(ctx, first, NewUser{Email: "x@shop.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	other, err := svc.CreateUser(ctx, admin, NewUser{Email: "ana@shop.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(ctx, other, ProfileUpdate{Username: "ADMIN"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.UpdateProfile(ctx, other, ProfileUpdate{Email: "admin@local"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	updated, err := svc.UpdateProfile(ctx, other, ProfileUpdate{Username: "ana.p", NewPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, "ana.p", updated.Username)
	assert.Equal(t, "ana@shop.com", updated.Email)

	_, err = svc.Login(ctx, "ana.p", "new")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "ana.p", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetSuspended_Rules(t *testing.T) {
	svc, _, admin := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetSuspended(ctx, admin, admin.ID, true), ErrForbidden)

	u, err := svc.CreateUser(ctx, admin, NewUser{Email: "bia@shop.com", Password: "pw"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.SetSuspended(ctx, u, admin.ID, true), ErrForbidden)

	_, err = svc.ListUsers(ctx, u)
	assert.ErrorIs(t, err, ErrForbidden)
	users, err := svc.ListUsers(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestPickUniqueUsername_EmptyBase(t *testing.T) {
	taken := map[string]bool{"user": true, "user1": true}
	got, err := PickUniqueUsername("", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "user2", got)
}
