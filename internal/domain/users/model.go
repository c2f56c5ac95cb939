package users

import "time"

// User es el dueño de una o más mascotas.
type User struct {
	ID string

	Email       string
	Name        string
	Lastname    string
	Document    string
	PhoneNumber string

	Address      string
	Number       string
	ZipCode      string
	Neighborhood string

	Username     string // por defecto = email
	PasswordHash string

	Activated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
