package timeline

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, it Item) error
	GetByID(ctx context.Context, id string) (Item, error)
	// ListByPet devuelve ítems activos, occurred_at desc.
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]Item, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
}
