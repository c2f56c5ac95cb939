package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"dogpass-api/internal/domain/timeline"
)

type timelineRepo struct {
	mu   sync.RWMutex
	byID map[string]timeline.Item
}

func NewTimelineRepo() timeline.Repository {
	return &timelineRepo{
		byID: make(map[string]timeline.Item),
	}
}

func (r *timelineRepo) Create(ctx context.Context, it timeline.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if it.ID == "" {
		return errors.New("timeline item id required")
	}
	if _, exists := r.byID[it.ID]; exists {
		return ErrConflict
	}

	r.byID[it.ID] = it
	return nil
}

func (r *timelineRepo) GetByID(ctx context.Context, id string) (timeline.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.byID[id]
	if !ok || !it.Activated {
		return timeline.Item{}, ErrNotFound
	}
	return it, nil
}

func (r *timelineRepo) ListByPet(ctx context.Context, petID string, filter timeline.ListFilter) ([]timeline.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]timeline.Item, 0)

	for _, it := range r.byID {
		if it.PetID != petID || !it.Activated {
			continue
		}

		// Type filter
		if len(filter.Types) > 0 {
			ok := false
			for _, t := range filter.Types {
				if it.Type == t {
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
		}

		// Date filters (occurred_at, inclusivo)
		if filter.From != nil && it.OccurredAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && it.OccurredAt.After(*filter.To) {
			continue
		}

		// Query filter
		if q != "" {
			if !strings.Contains(strings.ToLower(it.Title), q) &&
				!strings.Contains(strings.ToLower(it.Description), q) {
				continue
			}
		}

		out = append(out, it)
	}

	// Orden por occurred_at desc (más reciente primero)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *timelineRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it, ok := r.byID[id]
	if !ok || !it.Activated {
		return ErrNotFound
	}
	it.Activated = false
	r.byID[id] = it
	return nil
}
