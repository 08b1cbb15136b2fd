package entity

import (
	"strings"
	"time"
)

// Roles válidos para User.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NormalizeRole devuelve un rol válido; cualquier valor desconocido se trata como user.
func NormalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// User cuenta de la aplicación, 1:1 con Employee por EmployeeID.
// Se crea de forma perezosa en el primer login exitoso.
type User struct {
	ID          string
	EmployeeID  string
	DisplayName string
	Role        string // user, admin
	CreatedAt   time.Time
}
