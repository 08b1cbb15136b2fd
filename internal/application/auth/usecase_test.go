package auth_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-imagenes/internal/application/auth"
	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/portal-imagenes/pkg/jwt"
)

const secret = "test-secret"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.UserRepo, *memory.EmployeeRepo) {
	t.Helper()
	users := memory.NewUserRepository()
	employees := memory.NewEmployeeRepository()
	_, err := employees.Create(context.Background(), &entity.Employee{EmployeeID: "E100", DisplayName: "Ana Pérez"})
	require.NoError(t, err)

	hash, err := auth.HashPassword("compartida", bcrypt.MinCost)
	require.NoError(t, err)
	uc := auth.NewAuthUseCase(users, employees, hash, auth.JWTConfig{Secret: secret, ExpMinutes: 5, Issuer: "test"}, zerolog.Nop())
	return uc, users, employees
}

func TestLogin_PrimerIngresoCreaUsuario(t *testing.T) {
	uc, users, _ := newAuth(t)
	ctx := context.Background()

	res, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "E100", Password: "compartida"})
	require.NoError(t, err)
	assert.Equal(t, "E100", res.User.EmployeeID)
	assert.Equal(t, "Ana Pérez", res.User.DisplayName)
	assert.Equal(t, entity.RoleUser, res.User.Role)

	claims, err := pkgjwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)

	again, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "E100", Password: "compartida"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID, "el segundo ingreso reutiliza el usuario")

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLogin_AdminConservaRol(t *testing.T) {
	uc, users, _ := newAuth(t)
	ctx := context.Background()
	_, err := users.Create(ctx, &entity.User{EmployeeID: "E100", DisplayName: "Ana", Role: entity.RoleAdmin})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "E100", Password: "compartida"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, res.User.Role)
}

func TestLogin_Errores(t *testing.T) {
	uc, users, _ := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{EmployeeID: "E100", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{EmployeeID: "E999", Password: "compartida"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{EmployeeID: "", Password: "compartida"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "un login fallido no crea usuarios")
}

func TestHashPassword_Vacia(t *testing.T) {
	_, err := auth.HashPassword("", 0)
	assert.Error(t, err)
}
