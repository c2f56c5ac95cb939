package vets

import "time"

// Vet es un veterinario que trabaja en una clínica y puede iniciar sesión (rol vet).
type Vet struct {
	ID       string
	ClinicID string

	Name string

	Username     string
	PasswordHash string

	Activated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
