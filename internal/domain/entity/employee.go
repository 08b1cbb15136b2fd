package entity

import "time"

// Employee entrada del padrón de empleados. EmployeeID es la clave de negocio.
// Solo cambia por reimportación masiva (upsert por EmployeeID).
type Employee struct {
	ID             string
	EmployeeID     string
	DisplayName    string
	MiniRegionName string
	RegionName     string
	SubZoneName    string
	ZoneName       string
	CreatedAt      time.Time
}
