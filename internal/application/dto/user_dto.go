package dto

import "time"

// LoginRequest entrada para login: ID de empleado + contraseña compartida.
type LoginRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// UserResponse salida de un usuario.
type UserResponse struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employeeId"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LoginResponse salida con token JWT y usuario.
type LoginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}
