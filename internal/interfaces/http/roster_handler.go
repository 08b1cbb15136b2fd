package http

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/portal-imagenes/internal/application/roster"
)

// maxSheetBytes límite de lectura para archivos de importación.
const maxSheetBytes = 20 << 20

// RosterHandler importación y exportación del padrón de empleados y usuarios.
type RosterHandler struct {
	uc *roster.RosterUseCase
	responder
}

// NewRosterHandler construye el handler del padrón.
func NewRosterHandler(uc *roster.RosterUseCase, r responder) *RosterHandler {
	return &RosterHandler{uc: uc, responder: r}
}

// ImportEmployees godoc
// @Summary      Importar empleados desde Excel
// @Description  Actualiza por employeeId; filas sin employeeId se omiten.
// @Tags         roster
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "archivo .xlsx"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/employees/import [post]
func (h *RosterHandler) ImportEmployees(c *fiber.Ctx) error {
	data, err := readSheet(c)
	if err != nil {
		return badRequest(c, "NO_FILE", "no se proporcionó ningún archivo")
	}
	out, err := h.uc.ImportEmployees(c.UserContext(), data)
	if err != nil {
		return h.fail(c, "import_employees", err)
	}
	return c.JSON(out)
}

// ExportEmployees godoc
// @Summary      Exportar empleados a Excel
// @Tags         roster
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /api/admin/employees/export [get]
func (h *RosterHandler) ExportEmployees(c *fiber.Ctx) error {
	f, err := h.uc.ExportEmployees(c.UserContext())
	if err != nil {
		return h.fail(c, "export_employees", err)
	}
	return sendFile(c, f)
}

// ClearEmployees godoc
// @Summary      Borrar el padrón de empleados
// @Tags         roster
// @Security     BearerAuth
// @Success      204
// @Router       /api/admin/employees [delete]
func (h *RosterHandler) ClearEmployees(c *fiber.Ctx) error {
	if err := h.uc.ClearEmployees(c.UserContext()); err != nil {
		return h.fail(c, "clear_employees", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportUsers godoc
// @Summary      Importar usuarios desde Excel
// @Description  Columnas "Employee ID", "Full Name", "Role".
// @Tags         roster
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "archivo .xlsx"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/users/import [post]
func (h *RosterHandler) ImportUsers(c *fiber.Ctx) error {
	data, err := readSheet(c)
	if err != nil {
		return badRequest(c, "NO_FILE", "no se proporcionó ningún archivo")
	}
	out, err := h.uc.ImportUsers(c.UserContext(), data)
	if err != nil {
		return h.fail(c, "import_users", err)
	}
	return c.JSON(out)
}

// ExportUsers godoc
// @Summary      Exportar usuarios a Excel
// @Tags         roster
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200
// @Router       /api/admin/users/export [get]
func (h *RosterHandler) ExportUsers(c *fiber.Ctx) error {
	f, err := h.uc.ExportUsers(c.UserContext())
	if err != nil {
		return h.fail(c, "export_users", err)
	}
	return sendFile(c, f)
}

func readSheet(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxSheetBytes))
}
