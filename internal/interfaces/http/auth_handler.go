package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/auth"
	"github.com/jhoicas/portal-imagenes/internal/application/dto"
)

// AuthHandler maneja el login por ID de empleado.
type AuthHandler struct {
	uc *auth.AuthUseCase
	responder
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, r responder) *AuthHandler {
	return &AuthHandler{uc: uc, responder: r}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Valida la contraseña compartida, exige que el empleado exista y crea el usuario en su primer ingreso.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "employeeId, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if strings.TrimSpace(in.EmployeeID) == "" || in.Password == "" {
		return badRequest(c, "VALIDATION", "employeeId y password son requeridos")
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return h.fail(c, "login", err)
	}
	return c.JSON(out)
}
