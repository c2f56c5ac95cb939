package vets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, v Vet) error
	Update(ctx context.Context, v Vet) error
	GetByID(ctx context.Context, id string) (Vet, error)
	GetByUsername(ctx context.Context, username string) (Vet, error)
	// List y ListByClinic ordenan por nombre.
	List(ctx context.Context) ([]Vet, error)
	ListByClinic(ctx context.Context, clinicID string) ([]Vet, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
	ReactivateByUsername(ctx context.Context, username string, at time.Time) (Vet, error)
}
