package pets

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/platform/apperr"
)

// -------------------------
// Test doubles
// -------------------------

type testRepo struct {
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperr.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok || !p.Activated {
		return Pet{}, apperr.ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Pet, error) {
	return r.filter(func(Pet) bool { return true }), nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return r.filter(func(p Pet) bool { return p.OwnerUserID == ownerUserID }), nil
}

func (r *testRepo) ListByIDs(ctx context.Context, ids []string) ([]Pet, error) {
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(p Pet) bool { return want[p.ID] }), nil
}

func (r *testRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	p, ok := r.byID[id]
	if !ok || !p.Activated {
		return apperr.ErrNotFound
	}
	p.Activated = false
	r.byID[id] = p
	return nil
}

func (r *testRepo) filter(keep func(Pet) bool) []Pet {
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if p.Activated && keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type fakeUsers map[string]users.User

func (f fakeUsers) GetByID(ctx context.Context, id string) (users.User, error) {
	u, ok := f[id]
	if !ok {
		return users.User{}, apperr.NotFound("User %s not found", id)
	}
	return u, nil
}

func newSvc() *Service {
	svc := NewService(newTestRepo(), fakeUsers{"owner-1": {ID: "owner-1", Activated: true}})
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func validInput() CreateInput {
	castrated := true
	weight := 12.5
	return CreateInput{
		OwnerUserID: "owner-1",
		Name:        "Milo",
		Species:     "Dog",
		Breed:       "mixed",
		Sex:         "male",
		Size:        "medium",
		Age:         "3",
		Castrated:   &castrated,
		Weight:      &weight,
	}
}

func TestCreate_OK(t *testing.T) {
	svc := newSvc()
	p, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Species != SpeciesDog || p.Size != SizeMedium || !p.Castrated || p.Weight != 12.5 {
		t.Fatalf("unexpected pet: %+v", p)
	}
}

func TestCreate_RequiresCastratedAndWeight(t *testing.T) {
	svc := newSvc()
	in := validInput()
	in.Weight = nil
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_UnknownOwner(t *testing.T) {
	svc := newSvc()
	in := validInput()
	in.OwnerUserID = "ghost"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByOwner_SortedByName(t *testing.T) {
	svc := newSvc()
	for _, name := range []string{"Toby", "Aria", "Milo"} {
		in := validInput()
		in.Name = name
		if _, err := svc.Create(context.Background(), in); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	items, err := svc.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 3 || items[0].Name != "Aria" || items[2].Name != "Toby" {
		t.Fatalf("unexpected order: %+v", items)
	}

	if _, err := svc.ListByOwner(context.Background(), "ghost"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown owner, got %v", err)
	}
}

func TestUpdateAndDeactivate(t *testing.T) {
	svc := newSvc()
	p, _ := svc.Create(context.Background(), validInput())

	neg := -1.0
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{Weight: &neg}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative weight, got %v", err)
	}

	castrated := false
	name := "Milo II"
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{Name: &name, Castrated: &castrated})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if updated.Name != "Milo II" || updated.Castrated {
		t.Fatalf("unexpected update: %+v", updated)
	}

	if _, err := svc.Deactivate(context.Background(), p.ID); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.OwnerOf(context.Background(), p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after deactivate, got %v", err)
	}
}
