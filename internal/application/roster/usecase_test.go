package roster_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/memory"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/spreadsheet"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newRoster() (*roster.RosterUseCase, *memory.EmployeeRepo, *memory.UserRepo) {
	employees := memory.NewEmployeeRepository()
	users := memory.NewUserRepository()
	return roster.NewRosterUseCase(employees, users, spreadsheet.NewXLSXCodec(), zerolog.Nop()), employees, users
}

func workbook(t *testing.T, headers []string, rows ...[]string) []byte {
	t.Helper()
	data, err := spreadsheet.NewXLSXCodec().Write("Sheet1", headers, rows)
	require.NoError(t, err)
	return data
}

// ──────────────────────────────────────────────────────────────────────────────
// Empleados
// ──────────────────────────────────────────────────────────────────────────────

func TestImportEmployees_UpsertYOmitidos(t *testing.T) {
	uc, employees, _ := newRoster()
	ctx := context.Background()

	data := workbook(t, []string{"Employee ID", "Display Name", "Mini Region", "Region", "Sub Zone", "Zone"},
		[]string{"E100", "Ana", "MR1", "R1", "SZ1", "Z1"},
		[]string{"", "Sin ID", "", "", "", ""},
		[]string{"E200", "Luis", "MR2", "R2", "SZ2", "Z2"},
	)
	res, err := uc.ImportEmployees(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedCount)
	assert.Equal(t, 0, res.UpdatedCount)
	assert.Equal(t, 1, res.SkippedCount)

	e, err := employees.GetByEmployeeID(ctx, "E100")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "MR1", e.MiniRegionName)
	assert.Equal(t, "SZ1", e.SubZoneName)
	assert.Equal(t, "Z1", e.ZoneName)

	// Reimportar con encabezados en camelCase actualiza sin duplicar.
	data = workbook(t, []string{"employeeId", "displayName"}, []string{"E100", "Ana María"})
	res, err = uc.ImportEmployees(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 0, res.ImportedCount)
	assert.Equal(t, 1, res.UpdatedCount)

	e, err = employees.GetByEmployeeID(ctx, "E100")
	require.NoError(t, err)
	assert.Equal(t, "Ana María", e.DisplayName)
	assert.Equal(t, "MR1", e.MiniRegionName, "columnas ausentes conservan el valor")
	assert.Equal(t, "Z1", e.ZoneName)

	list, err := employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestImportEmployees_ArchivoInvalido(t *testing.T) {
	uc, _, _ := newRoster()
	_, err := uc.ImportEmployees(context.Background(), []byte("basura"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ImportEmployees(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportEmployees_RoundTrip(t *testing.T) {
	uc, employees, _ := newRoster()
	ctx := context.Background()
	_, err := employees.Upsert(ctx, &entity.Employee{EmployeeID: "E100", DisplayName: "Ana", ZoneName: "Z1"})
	require.NoError(t, err)

	file, err := uc.ExportEmployees(ctx)
	require.NoError(t, err)
	assert.Equal(t, "employees.xlsx", file.FileName)
	assert.Equal(t, roster.XLSXContentType, file.ContentType)

	require.NoError(t, uc.ClearEmployees(ctx))
	res, err := uc.ImportEmployees(ctx, file.Data)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ImportedCount)

	e, err := employees.GetByEmployeeID(ctx, "E100")
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Z1", e.ZoneName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestImportUsers_RolNormalizado(t *testing.T) {
	uc, _, users := newRoster()
	ctx := context.Background()

	data := workbook(t, []string{"Employee ID", "Full Name", "Role"},
		[]string{"E100", "Ana", "ADMIN"},
		[]string{"E200", "Luis", "superuser"},
	)
	res, err := uc.ImportUsers(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ImportedCount)

	ana, err := users.GetByEmployeeID(ctx, "E100")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, ana.Role)
	luis, err := users.GetByEmployeeID(ctx, "E200")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, luis.Role)

	file, err := uc.ExportUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "users.xlsx", file.FileName)
	assert.NotEmpty(t, file.Data)
}

func TestImportUsers_SinColumnaRolConservaAdmin(t *testing.T) {
	uc, _, users := newRoster()
	ctx := context.Background()
	_, err := users.Upsert(ctx, &entity.User{EmployeeID: "E1", DisplayName: "Ana", Role: entity.RoleAdmin})
	require.NoError(t, err)

	res, err := uc.ImportUsers(ctx, workbook(t, []string{"Employee ID"}, []string{"E1"}, []string{"E2"}))
	require.NoError(t, err)
	assert.Equal(t, 1, res.UpdatedCount)
	assert.Equal(t, 1, res.ImportedCount)

	admin, err := users.GetByEmployeeID(ctx, "E1")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.Equal(t, entity.RoleAdmin, admin.Role)
	assert.Equal(t, "Ana", admin.DisplayName)

	nuevo, err := users.GetByEmployeeID(ctx, "E2")
	require.NoError(t, err)
	require.NotNil(t, nuevo)
	assert.Equal(t, entity.RoleUser, nuevo.Role, "las cuentas nuevas sin rol quedan como user")

	// Un rol explícito sí se aplica sobre la cuenta existente.
	_, err = uc.ImportUsers(ctx, workbook(t, []string{"Employee ID", "Role"}, []string{"E1", "user"}))
	require.NoError(t, err)
	admin, err = users.GetByEmployeeID(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, admin.Role)
	assert.Equal(t, "Ana", admin.DisplayName)
}
