package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin     = "admin"
	RoleDispenser = "dispenser"
)

// User es un usuario del establecimiento. FacilityCode es el código de
// unidad organizativa con el que el servidor remoto identifica al
// establecimiento; direcciona el payload de sincronización.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FacilityCode string
	FacilityName string
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
