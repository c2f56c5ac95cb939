package users

import (
	"context"
	"time"
)

// Repository solo devuelve usuarios activos en las lecturas.
// Email y username son únicos entre todas las filas (ErrConflict).
type Repository interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	// GetByLogin busca por username o email.
	GetByLogin(ctx context.Context, login string) (User, error)
	List(ctx context.Context) ([]User, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
	// ReactivateByEmail vuelve a activar un usuario desactivado.
	// ErrNotFound si no hay uno inactivo con ese email.
	ReactivateByEmail(ctx context.Context, email string, at time.Time) (User, error)
}
