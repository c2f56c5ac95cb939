package clinics

import "time"

// Clinic es una clínica veterinaria. Puede iniciar sesión (rol clinic),
// ofrece servicios y atiende mascotas.
type Clinic struct {
	ID string

	Name string
	CNPJ string // identificador fiscal, único

	Address      string
	Number       string
	ZipCode      string
	Neighborhood string

	Username     string
	PasswordHash string

	Activated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
