package clinics

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c Clinic) error
	Update(ctx context.Context, c Clinic) error
	GetByID(ctx context.Context, id string) (Clinic, error)
	GetByUsername(ctx context.Context, username string) (Clinic, error)
	GetByCNPJ(ctx context.Context, cnpj string) (Clinic, error)
	List(ctx context.Context) ([]Clinic, error)
	// ListByIDs ignora IDs inexistentes o inactivos. Ordena por nombre.
	ListByIDs(ctx context.Context, ids []string) ([]Clinic, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
	// ReactivateByCNPJ: ErrNotFound si no hay una clínica inactiva con ese CNPJ.
	ReactivateByCNPJ(ctx context.Context, cnpj string, at time.Time) (Clinic, error)

	// clinic_services. AddService es idempotente; RemoveService devuelve
	// ErrNotFound si el vínculo no existe.
	AddService(ctx context.Context, clinicID, serviceID string) error
	RemoveService(ctx context.Context, clinicID, serviceID string) error
	ServiceIDs(ctx context.Context, clinicID string) ([]string, error)

	// clinic_pets, mismas reglas que clinic_services.
	AddPet(ctx context.Context, clinicID, petID string) error
	RemovePet(ctx context.Context, clinicID, petID string) error
	PetIDs(ctx context.Context, clinicID string) ([]string, error)
	ClinicIDsForPet(ctx context.Context, petID string) ([]string, error)
}
