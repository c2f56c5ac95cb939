package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/domain/vets"
)

type vetRepo struct {
	mu   sync.RWMutex
	byID map[string]vets.Vet
}

func NewVetRepo() vets.Repository {
	return &vetRepo{
		byID: make(map[string]vets.Vet),
	}
}

func (r *vetRepo) Create(ctx context.Context, v vets.Vet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("vet id required")
	}
	if _, exists := r.byID[v.ID]; exists || r.taken(v) {
		return ErrConflict
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vetRepo) Update(ctx context.Context, v vets.Vet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[v.ID]
	if !exists || !cur.Activated {
		return ErrNotFound
	}
	if r.taken(v) {
		return ErrConflict
	}
	r.byID[v.ID] = v
	return nil
}

func (r *vetRepo) taken(v vets.Vet) bool {
	for id, other := range r.byID {
		if id != v.ID && other.Username == v.Username {
			return true
		}
	}
	return false
}

func (r *vetRepo) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok || !v.Activated {
		return vets.Vet{}, ErrNotFound
	}
	return v, nil
}

func (r *vetRepo) GetByUsername(ctx context.Context, username string) (vets.Vet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.byID {
		if v.Activated && v.Username == username {
			return v, nil
		}
	}
	return vets.Vet{}, ErrNotFound
}

func (r *vetRepo) List(ctx context.Context) ([]vets.Vet, error) {
	return r.filter(func(vets.Vet) bool { return true }), nil
}

func (r *vetRepo) ListByClinic(ctx context.Context, clinicID string) ([]vets.Vet, error) {
	return r.filter(func(v vets.Vet) bool { return v.ClinicID == clinicID }), nil
}

func (r *vetRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok || !v.Activated {
		return ErrNotFound
	}
	v.Activated = false
	v.UpdatedAt = at
	r.byID[id] = v
	return nil
}

func (r *vetRepo) filter(keep func(vets.Vet) bool) []vets.Vet {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vets.Vet, 0)
	for _, v := range r.byID {
		if v.Activated && keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name); a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *vetRepo) ReactivateByUsername(ctx context.Context, username string, at time.Time) (vets.Vet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, v := range r.byID {
		if v.Activated || v.Username != username {
			continue
		}
		v.Activated = true
		v.UpdatedAt = at
		r.byID[id] = v
		return v, nil
	}
	return vets.Vet{}, ErrNotFound
}
