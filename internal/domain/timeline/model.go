package timeline

import "time"

// Actor es quien registra un ítem. Name y ClinicName no se persisten;
// se usan para completar los campos vet/clinic del ítem.
type Actor struct {
	Type ActorType
	ID   string

	Name       string
	ClinicName string
}

// Item es una entrada del historial médico de una mascota.
type Item struct {
	ID    string
	PetID string

	Type        ItemType
	Title       string
	Description string

	Vet    string // nombre del veterinario (texto)
	Clinic string // nombre de la clínica (texto)

	OccurredAt time.Time
	CreatedAt  time.Time

	CreatedByID   string
	CreatedByRole ActorType

	Activated bool
}

type ListFilter struct {
	Types []ItemType
	From  *time.Time
	To    *time.Time
	Query string
	Limit int
}
