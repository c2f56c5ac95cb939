package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/domain/offerings"
)

type offeringRepo struct {
	mu   sync.RWMutex
	byID map[string]offerings.Offering
}

func NewOfferingRepo() offerings.Repository {
	return &offeringRepo{
		byID: make(map[string]offerings.Offering),
	}
}

func (r *offeringRepo) Create(ctx context.Context, o offerings.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("service id required")
	}
	if _, exists := r.byID[o.ID]; exists || r.taken(o) {
		return ErrConflict
	}
	r.byID[o.ID] = o
	return nil
}

func (r *offeringRepo) Update(ctx context.Context, o offerings.Offering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[o.ID]
	if !exists || !cur.Activated {
		return ErrNotFound
	}
	if r.taken(o) {
		return ErrConflict
	}
	r.byID[o.ID] = o
	return nil
}

func (r *offeringRepo) taken(o offerings.Offering) bool {
	for id, other := range r.byID {
		if id != o.ID && strings.EqualFold(other.Name, o.Name) {
			return true
		}
	}
	return false
}

func (r *offeringRepo) GetByID(ctx context.Context, id string) (offerings.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok || !o.Activated {
		return offerings.Offering{}, ErrNotFound
	}
	return o, nil
}

func (r *offeringRepo) GetByName(ctx context.Context, name string) (offerings.Offering, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.byID {
		if o.Activated && strings.EqualFold(o.Name, name) {
			return o, nil
		}
	}
	return offerings.Offering{}, ErrNotFound
}

func (r *offeringRepo) List(ctx context.Context) ([]offerings.Offering, error) {
	return r.filter(func(offerings.Offering) bool { return true }), nil
}

func (r *offeringRepo) ListByIDs(ctx context.Context, ids []string) ([]offerings.Offering, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(o offerings.Offering) bool { return want[o.ID] }), nil
}

func (r *offeringRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.byID[id]
	if !ok || !o.Activated {
		return ErrNotFound
	}
	o.Activated = false
	o.UpdatedAt = at
	r.byID[id] = o
	return nil
}

func (r *offeringRepo) filter(keep func(offerings.Offering) bool) []offerings.Offering {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]offerings.Offering, 0)
	for _, o := range r.byID {
		if o.Activated && keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (r *offeringRepo) ReactivateByName(ctx context.Context, name string, at time.Time) (offerings.Offering, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, o := range r.byID {
		if o.Activated || !strings.EqualFold(o.Name, name) {
			continue
		}
		o.Activated = true
		o.UpdatedAt = at
		r.byID[id] = o
		return o, nil
	}
	return offerings.Offering{}, ErrNotFound
}
