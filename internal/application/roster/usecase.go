// Package roster importa y exporta el padrón de empleados y las cuentas de usuario
// desde y hacia hojas de cálculo. El mapeo fila ↔ registro es puro; la persistencia
// es un upsert por EmployeeID.
package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/domain"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/domain/repository"
)

var (
	employeeHeaders = []string{"Employee ID", "Display Name", "Mini Region", "Region", "Sub Zone", "Zone", "Created At"}
	userHeaders     = []string{"User ID", "Employee ID", "Full Name", "Role", "Created At"}
)

// RosterUseCase importación/exportación masiva de empleados y usuarios.
type RosterUseCase struct {
	employees repository.EmployeeRepository
	users     repository.UserRepository
	codec     SheetCodec
	log       zerolog.Logger
	now       func() time.Time
}

// NewRosterUseCase construye el caso de uso.
func NewRosterUseCase(employees repository.EmployeeRepository, users repository.UserRepository, codec SheetCodec, log zerolog.Logger) *RosterUseCase {
	return &RosterUseCase{
		employees: employees,
		users:     users,
		codec:     codec,
		log:       log.With().Str("component", "roster").Logger(),
		now:       time.Now,
	}
}

// ImportEmployees upsert por EmployeeID. Filas sin EmployeeID se omiten.
func (uc *RosterUseCase) ImportEmployees(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	rows, err := uc.readRows(data)
	if err != nil {
		return nil, err
	}
	res := &dto.ImportResponse{Message: "Importación completada"}
	now := uc.now().UTC()
	for _, r := range rows {
		e, ok := employeeFromRow(r)
		if !ok {
			res.SkippedCount++
			continue
		}
		e.CreatedAt = now
		created, err := uc.employees.Upsert(ctx, e)
		if err != nil {
			uc.log.Error().Err(err).Str("employee_id", e.EmployeeID).Msg("importar empleado")
			return nil, err
		}
		countUpsert(res, created)
	}
	uc.log.Info().Int("imported", res.ImportedCount).Int("updated", res.UpdatedCount).Int("skipped", res.SkippedCount).
		Msg("importación de empleados")
	return res, nil
}

// ImportUsers upsert de cuentas por EmployeeID; el rol desconocido se trata como user.
func (uc *RosterUseCase) ImportUsers(ctx context.Context, data []byte) (*dto.ImportResponse, error) {
	rows, err := uc.readRows(data)
	if err != nil {
		return nil, err
	}
	res := &dto.ImportResponse{Message: "Importación completada"}
	now := uc.now().UTC()
	for _, r := range rows {
		u, ok := userFromRow(r)
		if !ok {
			res.SkippedCount++
			continue
		}
		u.CreatedAt = now
		created, err := uc.users.Upsert(ctx, u)
		if err != nil {
			uc.log.Error().Err(err).Str("employee_id", u.EmployeeID).Msg("importar usuario")
			return nil, err
		}
		countUpsert(res, created)
	}
	uc.log.Info().Int("imported", res.ImportedCount).Int("updated", res.UpdatedCount).Int("skipped", res.SkippedCount).
		Msg("importación de usuarios")
	return res, nil
}

// ExportEmployees genera employees.xlsx.
func (uc *RosterUseCase) ExportEmployees(ctx context.Context) (*dto.FileResponse, error) {
	list, err := uc.employees.List(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar empleados")
		return nil, err
	}
	rows := make([][]string, 0, len(list))
	for _, e := range list {
		rows = append(rows, []string{e.EmployeeID, e.DisplayName, e.MiniRegionName, e.RegionName, e.SubZoneName, e.ZoneName, formatTime(e.CreatedAt)})
	}
	return uc.write("Employees", "employees.xlsx", employeeHeaders, rows)
}

// ExportUsers genera users.xlsx.
func (uc *RosterUseCase) ExportUsers(ctx context.Context) (*dto.FileResponse, error) {
	list, err := uc.users.List(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar usuarios")
		return nil, err
	}
	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{u.ID, u.EmployeeID, u.DisplayName, entity.NormalizeRole(u.Role), formatTime(u.CreatedAt)})
	}
	return uc.write("Users", "users.xlsx", userHeaders, rows)
}

// ClearEmployees vacía el padrón antes de una reimportación completa.
func (uc *RosterUseCase) ClearEmployees(ctx context.Context) error {
	if err := uc.employees.DeleteAll(ctx); err != nil {
		uc.log.Error().Err(err).Msg("vaciar padrón")
		return err
	}
	uc.log.Warn().Msg("padrón de empleados vaciado")
	return nil
}

// employeeFromRow mapea una fila al empleado; false si no hay EmployeeID.
func employeeFromRow(r row) (*entity.Employee, bool) {
	id := r.get("Employee ID", "employeeId")
	if id == "" {
		return nil, false
	}
	return &entity.Employee{
		EmployeeID:     id,
		DisplayName:    r.get("Display Name", "displayName"),
		MiniRegionName: r.get("Mini Region", "miniRegionName"),
		RegionName:     r.get("Region", "regionName"),
		SubZoneName:    r.get("Sub Zone", "subZoneName"),
		ZoneName:       r.get("Zone", "zoneName"),
	}, true
}

// userFromRow mapea una fila a la cuenta; false si no hay EmployeeID.
// Un rol vacío queda vacío: Upsert conserva el de la cuenta existente.
func userFromRow(r row) (*entity.User, bool) {
	id := r.get("Employee ID", "employeeId")
	if id == "" {
		return nil, false
	}
	role := r.get("Role", "role")
	if role != "" {
		role = entity.NormalizeRole(role)
	}
	return &entity.User{
		EmployeeID:  id,
		DisplayName: r.get("Full Name", "displayName", "Display Name"),
		Role:        role,
	}, true
}

func (uc *RosterUseCase) readRows(data []byte) ([]row, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: archivo requerido", domain.ErrInvalidInput)
	}
	headers, values, err := uc.codec.Read(data)
	if err != nil {
		return nil, fmt.Errorf("%w: hoja de cálculo ilegible: %w", domain.ErrInvalidInput, err)
	}
	idx := newHeaderIndex(headers)
	rows := make([]row, 0, len(values))
	for _, v := range values {
		rows = append(rows, row{index: idx, values: v})
	}
	return rows, nil
}

func (uc *RosterUseCase) write(sheet, fileName string, headers []string, rows [][]string) (*dto.FileResponse, error) {
	data, err := uc.codec.Write(sheet, headers, rows)
	if err != nil {
		uc.log.Error().Err(err).Str("sheet", sheet).Msg("generar hoja de cálculo")
		return nil, err
	}
	return &dto.FileResponse{FileName: fileName, ContentType: XLSXContentType, Data: data}, nil
}

func countUpsert(res *dto.ImportResponse, created bool) {
	if created {
		res.ImportedCount++
	} else {
		res.UpdatedCount++
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
