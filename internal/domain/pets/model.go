package pets

import "time"

// Species define las especies más comunes. Se aceptan otras (texto libre).
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Size es el porte de la mascota.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Pet representa el perfil de una mascota registrada en el sistema.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex
	Size    Size

	Age       string // texto libre ("2 años", "6 meses")
	Castrated bool
	Weight    float64 // kg

	Description string

	Activated bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
