package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/domain/users"
)

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return ErrConflict
	}
	if r.taken(u) {
		return ErrConflict
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[u.ID]
	if !exists || !cur.Activated {
		return ErrNotFound
	}
	if r.taken(u) {
		return ErrConflict
	}
	r.byID[u.ID] = u
	return nil
}

// taken: email y username son únicos entre todas las filas (activas o no).
func (r *userRepo) taken(u users.User) bool {
	for id, other := range r.byID {
		if id == u.ID {
			continue
		}
		if other.Email == u.Email || other.Username == u.Username {
			return true
		}
	}
	return false
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok || !u.Activated {
		return users.User{}, ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByLogin(ctx context.Context, login string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email := strings.ToLower(login)
	for _, u := range r.byID {
		if !u.Activated {
			continue
		}
		if u.Username == login || u.Email == email {
			return u, nil
		}
	}
	return users.User{}, ErrNotFound
}

func (r *userRepo) List(ctx context.Context) ([]users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]users.User, 0, len(r.byID))
	for _, u := range r.byID {
		if u.Activated {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *userRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok || !u.Activated {
		return ErrNotFound
	}
	u.Activated = false
	u.UpdatedAt = at
	r.byID[id] = u
	return nil
}

func (r *userRepo) ReactivateByEmail(ctx context.Context, email string, at time.Time) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for id, u := range r.byID {
		if u.Activated || u.Email != email {
			continue
		}
		u.Activated = true
		u.UpdatedAt = at
		r.byID[id] = u
		return u, nil
	}
	return users.User{}, ErrNotFound
}
