package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/domain/clinics"
)

type link struct {
	clinicID string
	otherID  string
}

type clinicRepo struct {
	mu       sync.RWMutex
	byID     map[string]clinics.Clinic
	services map[link]struct{}
	pets     map[link]struct{}
}

func NewClinicRepo() clinics.Repository {
	return &clinicRepo{
		byID:     make(map[string]clinics.Clinic),
		services: make(map[link]struct{}),
		pets:     make(map[link]struct{}),
	}
}

func (r *clinicRepo) Create(ctx context.Context, c clinics.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("clinic id required")
	}
	if _, exists := r.byID[c.ID]; exists || r.taken(c) {
		return ErrConflict
	}
	r.byID[c.ID] = c
	return nil
}

func (r *clinicRepo) Update(ctx context.Context, c clinics.Clinic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[c.ID]
	if !exists || !cur.Activated {
		return ErrNotFound
	}
	if r.taken(c) {
		return ErrConflict
	}
	r.byID[c.ID] = c
	return nil
}

// taken: cnpj y username únicos.
func (r *clinicRepo) taken(c clinics.Clinic) bool {
	for id, other := range r.byID {
		if id == c.ID {
			continue
		}
		if other.CNPJ == c.CNPJ || other.Username == c.Username {
			return true
		}
	}
	return false
}

func (r *clinicRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok || !c.Activated {
		return clinics.Clinic{}, ErrNotFound
	}
	return c, nil
}

func (r *clinicRepo) GetByUsername(ctx context.Context, username string) (clinics.Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Activated && c.Username == username {
			return c, nil
		}
	}
	return clinics.Clinic{}, ErrNotFound
}

func (r *clinicRepo) List(ctx context.Context) ([]clinics.Clinic, error) {
	out := r.filter(func(clinics.Clinic) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *clinicRepo) ListByIDs(ctx context.Context, ids []string) ([]clinics.Clinic, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := r.filter(func(c clinics.Clinic) bool { return want[c.ID] })
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (r *clinicRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok || !c.Activated {
		return ErrNotFound
	}
	c.Activated = false
	c.UpdatedAt = at
	r.byID[id] = c
	return nil
}

func (r *clinicRepo) filter(keep func(clinics.Clinic) bool) []clinics.Clinic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]clinics.Clinic, 0)
	for _, c := range r.byID {
		if c.Activated && keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// -------------------------
// associations
// -------------------------

func (r *clinicRepo) AddService(ctx context.Context, clinicID, serviceID string) error {
	return r.add(r.services, link{clinicID, serviceID})
}

func (r *clinicRepo) RemoveService(ctx context.Context, clinicID, serviceID string) error {
	return r.remove(r.services, link{clinicID, serviceID})
}

func (r *clinicRepo) ServiceIDs(ctx context.Context, clinicID string) ([]string, error) {
	return r.linked(r.services, clinicID), nil
}

func (r *clinicRepo) AddPet(ctx context.Context, clinicID, petID string) error {
	return r.add(r.pets, link{clinicID, petID})
}

func (r *clinicRepo) RemovePet(ctx context.Context, clinicID, petID string) error {
	return r.remove(r.pets, link{clinicID, petID})
}

func (r *clinicRepo) PetIDs(ctx context.Context, clinicID string) ([]string, error) {
	return r.linked(r.pets, clinicID), nil
}

func (r *clinicRepo) ClinicIDsForPet(ctx context.Context, petID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for l := range r.pets {
		if l.otherID == petID {
			out = append(out, l.clinicID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *clinicRepo) add(set map[link]struct{}, l link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	set[l] = struct{}{}
	return nil
}

func (r *clinicRepo) remove(set map[link]struct{}, l link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := set[l]; !ok {
		return ErrNotFound
	}
	delete(set, l)
	return nil
}

func (r *clinicRepo) linked(set map[link]struct{}, clinicID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0)
	for l := range set {
		if l.clinicID == clinicID {
			out = append(out, l.otherID)
		}
	}
	sort.Strings(out)
	return out
}

func (r *clinicRepo) GetByCNPJ(ctx context.Context, cnpj string) (clinics.Clinic, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Activated && c.CNPJ == cnpj {
			return c, nil
		}
	}
	return clinics.Clinic{}, ErrNotFound
}

func (r *clinicRepo) ReactivateByCNPJ(ctx context.Context, cnpj string, at time.Time) (clinics.Clinic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, c := range r.byID {
		if c.Activated || c.CNPJ != cnpj {
			continue
		}
		c.Activated = true
		c.UpdatedAt = at
		r.byID[id] = c
		return c, nil
	}
	return clinics.Clinic{}, ErrNotFound
}
