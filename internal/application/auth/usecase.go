// Package auth implementa el login con contraseña compartida y la emisión del token de sesión.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
	"github.com/jhoicas/portal-imagenes/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de empleados: contraseña compartida + padrón de empleados.
type AuthUseCase struct {
	userRepo     repository.UserRepository
	employeeRepo repository.EmployeeRepository
	passwordHash []byte
	jwtCfg       JWTConfig
	log          zerolog.Logger
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso. passwordHash es un hash bcrypt de la contraseña
// compartida (ver HashPassword).
func NewAuthUseCase(
	userRepo repository.UserRepository,
	employeeRepo repository.EmployeeRepository,
	passwordHash string,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		employeeRepo: employeeRepo,
		passwordHash: []byte(passwordHash),
		jwtCfg:       jwtCfg,
		log:          log.With().Str("component", "auth").Logger(),
		now:          time.Now,
	}
}

// HashPassword hashea la contraseña compartida en texto plano con bcrypt.
func HashPassword(plain string, cost int) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("auth: contraseña compartida vacía")
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifica la contraseña compartida, exige que el empleado exista en el padrón
// y crea el usuario con rol user si es su primer ingreso.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: employeeId y password son requeridos", domain.ErrInvalidInput)
	}
	if err := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(in.Password)); err != nil {
		uc.log.Warn().Str("employee_id", employeeID).Msg("contraseña inválida")
		return nil, domain.ErrUnauthorized
	}

	employee, err := uc.employeeRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		uc.log.Error().Err(err).Str("employee_id", employeeID).Msg("buscar empleado")
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := uc.userRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		uc.log.Error().Err(err).Str("employee_id", employeeID).Msg("buscar usuario")
		return nil, err
	}
	if user == nil {
		user, err = uc.userRepo.Create(ctx, &entity.User{
			EmployeeID:  employeeID,
			DisplayName: employee.DisplayName,
			Role:        entity.RoleUser,
			CreatedAt:   uc.now().UTC(),
		})
		if err != nil {
			uc.log.Error().Err(err).Str("employee_id", employeeID).Msg("crear usuario")
			return nil, err
		}
		uc.log.Info().Str("user_id", user.ID).Str("employee_id", employeeID).Msg("usuario creado en primer ingreso")
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.EmployeeID, entity.NormalizeRole(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Message: "Inicio de sesión exitoso",
		Token:   token,
		User:    ToUserResponse(user),
	}, nil
}

// ToUserResponse mapea la entidad a DTO.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID,
		EmployeeID:  u.EmployeeID,
		DisplayName: u.DisplayName,
		Role:        entity.NormalizeRole(u.Role),
		CreatedAt:   u.CreatedAt,
	}
}
