package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/application/auth"
	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/testutil/memstore"
	"github.com/jhoicas/Cafeteria-api/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*auth.AuthUseCase, *auth.UserUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	users := auth.NewUserUseCase(store.UserRepo(), nil)
	login := auth.NewAuthUseCase(store.UserRepo(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "cafeteria-api"}, nil)
	return login, users, store
}

func TestLogin(t *testing.T) {
	login, users, _ := setup(t)
	ctx := context.Background()

	created, err := users.Create(ctx, dto.CreateUserRequest{Email: "Caja@Cafe.co.ke", Password: "s3cret-pass", Name: "Caja 1", Role: entity.RoleCashier})
	require.NoError(t, err)
	assert.Equal(t, "caja@cafe.co.ke", created.Email)

	out, err := login.Login(ctx, dto.LoginRequest{Email: "caja@cafe.co.ke", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, out.User.ID)

	userID, role, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, userID)
	assert.Equal(t, entity.RoleCashier, role)

	_, err = login.Login(ctx, dto.LoginRequest{Email: "caja@cafe.co.ke", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = login.Login(ctx, dto.LoginRequest{Email: "nadie@cafe.co.ke", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	login, users, _ := setup(t)
	ctx := context.Background()

	admin, err := users.Create(ctx, dto.CreateUserRequest{Email: "admin@cafe.co.ke", Password: "admin-pass", Role: entity.RoleAdmin})
	require.NoError(t, err)
	cook, err := users.Create(ctx, dto.CreateUserRequest{Email: "cocina@cafe.co.ke", Password: "cocina-pass", Role: entity.RoleKitchen})
	require.NoError(t, err)

	_, err = users.Update(ctx, admin.ID, cook.ID, dto.UpdateUserRequest{Status: entity.UserStatusInactive})
	require.NoError(t, err)

	_, err = login.Login(ctx, dto.LoginRequest{Email: "cocina@cafe.co.ke", Password: "cocina-pass"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUserUseCase_Reglas(t *testing.T) {
	_, users, _ := setup(t)
	ctx := context.Background()

	_, err := users.Create(ctx, dto.CreateUserRequest{Email: "x@cafe.co.ke", Password: "password1", Role: "manager"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	admin, err := users.Create(ctx, dto.CreateUserRequest{Email: "admin@cafe.co.ke", Password: "admin-pass", Role: entity.RoleAdmin})
	require.NoError(t, err)
	_, err = users.Create(ctx, dto.CreateUserRequest{Email: "ADMIN@cafe.co.ke", Password: "admin-pass", Role: entity.RoleCashier})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = users.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Status: entity.UserStatusInactive})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = users.Update(ctx, admin.ID, admin.ID, dto.UpdateUserRequest{Role: entity.RoleCashier})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestEnsureAdmin(t *testing.T) {
	_, users, store := setup(t)
	ctx := context.Background()

	require.NoError(t, users.EnsureAdmin(ctx, "", ""))
	assert.Empty(t, store.Users)

	require.NoError(t, users.EnsureAdmin(ctx, "root@cafe.co.ke", "bootstrap-pass"))
	require.NoError(t, users.EnsureAdmin(ctx, "otro@cafe.co.ke", "bootstrap-pass"))
	require.Len(t, store.Users, 1)
	for _, u := range store.Users {
		assert.Equal(t, entity.RoleAdmin, u.Role)
	}
}
