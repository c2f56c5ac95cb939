package auth

import "time"

// Role identifica el tipo de principal autenticado.
type Role string

const (
	RoleUser   Role = "user"
	RoleClinic Role = "clinic"
	RoleVet    Role = "vet"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleClinic, RoleVet:
		return true
	default:
		return false
	}
}

// Claims representa la información extraída del token.
type Claims struct {
	Subject   string // id del usuario, clínica o vet
	Name      string
	Role      Role
	ExpiresAt time.Time
}
