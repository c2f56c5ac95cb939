package pets

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/platform/apperr"

	"github.com/google/uuid"
)

// UserLookup resuelve el dueño. *users.Service la implementa.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (users.User, error)
}

type Service struct {
	repo  Repository
	users UserLookup
	now   func() time.Time
}

func NewService(repo Repository, users UserLookup) *Service {
	return &Service{
		repo:  repo,
		users: users,
		now:   time.Now,
	}
}

type CreateInput struct {
	OwnerUserID string
	Name        string
	Species     string
	Breed       string
	Sex         string
	Size        string
	Age         string
	Castrated   *bool
	Weight      *float64
	Description string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	for _, v := range []string{in.OwnerUserID, in.Name, in.Species, in.Breed, in.Sex, in.Size, in.Age} {
		if strings.TrimSpace(v) == "" {
			return Pet{}, apperr.MissingFields()
		}
	}
	if in.Castrated == nil || in.Weight == nil {
		return Pet{}, apperr.MissingFields()
	}
	if *in.Weight < 0 {
		return Pet{}, apperr.Invalid("weight must be positive")
	}

	owner, err := s.users.GetByID(ctx, strings.TrimSpace(in.OwnerUserID))
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:          uuid.NewString(),
		OwnerUserID: owner.ID,
		Name:        strings.TrimSpace(in.Name),
		Species:     Species(normalize(in.Species)),
		Breed:       strings.TrimSpace(in.Breed),
		Sex:         Sex(normalize(in.Sex)),
		Size:        Size(normalize(in.Size)),
		Age:         strings.TrimSpace(in.Age),
		Castrated:   *in.Castrated,
		Weight:      *in.Weight,
		Description: strings.TrimSpace(in.Description),
		Activated:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, apperr.NotFound("Pet not found")
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Pet{}, apperr.Describe(err, "Pet %s", id)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

// ListByOwner exige que el dueño exista y esté activo.
func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	if _, err := s.users.GetByID(ctx, ownerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Pet, error) {
	if len(ids) == 0 {
		return []Pet{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

// UpdateInput: punteros para PATCH real, nil o vacío = no tocar.
type UpdateInput struct {
	Name        *string
	Species     *string
	Breed       *string
	Sex         *string
	Size        *string
	Age         *string
	Castrated   *bool
	Weight      *float64
	Description *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	apply(&p.Name, in.Name)
	apply(&p.Breed, in.Breed)
	apply(&p.Age, in.Age)
	apply(&p.Description, in.Description)
	if v := trimmed(in.Species); v != "" {
		p.Species = Species(normalize(v))
	}
	if v := trimmed(in.Sex); v != "" {
		p.Sex = Sex(normalize(v))
	}
	if v := trimmed(in.Size); v != "" {
		p.Size = Size(normalize(v))
	}
	if in.Castrated != nil {
		p.Castrated = *in.Castrated
	}
	if in.Weight != nil {
		if *in.Weight < 0 {
			return Pet{}, apperr.Invalid("weight must be positive")
		}
		p.Weight = *in.Weight
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, apperr.Describe(err, "Pet %s", id)
	}
	return p, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if err := s.repo.Deactivate(ctx, p.ID, s.now()); err != nil {
		return Pet{}, apperr.Describe(err, "Pet %s", id)
	}
	p.Activated = false
	return p, nil
}

func apply(dst *string, v *string) {
	if t := trimmed(v); t != "" {
		*dst = t
	}
}

func trimmed(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
