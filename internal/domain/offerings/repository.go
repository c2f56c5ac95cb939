package offerings

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, o Offering) error
	Update(ctx context.Context, o Offering) error
	GetByID(ctx context.Context, id string) (Offering, error)
	GetByName(ctx context.Context, name string) (Offering, error)
	// List y ListByIDs ordenan por nombre.
	List(ctx context.Context) ([]Offering, error)
	ListByIDs(ctx context.Context, ids []string) ([]Offering, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
	// ReactivateByName compara el nombre sin distinguir mayúsculas.
	ReactivateByName(ctx context.Context, name string, at time.Time) (Offering, error)
}
