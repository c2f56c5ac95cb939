package pets

import (
	"context"
	"time"
)

// Repository: las lecturas solo devuelven mascotas activas.
type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context) ([]Pet, error)
	// ListByOwner ordena por nombre.
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	// ListByIDs ignora IDs inexistentes o inactivos. Ordena por nombre.
	ListByIDs(ctx context.Context, ids []string) ([]Pet, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
}
