package offerings

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, name string) (Offering, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Offering{}, apperr.MissingFields()
	}

	now := s.now()
	o := Offering{
		ID:        uuid.NewString(),
		Name:      name,
		Activated: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Offering{}, apperr.Describe(err, "Service %s", name)
	}
	return o, nil
}

// Ensure devuelve el servicio activo con ese nombre. Si existe desactivado
// lo reactiva; si no existe lo crea.
func (s *Service) Ensure(ctx context.Context, name string) (Offering, error) {
	name = strings.TrimSpace(name)
	o, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return o, nil
	}
	if !apperr.IsNotFound(err) {
		return Offering{}, err
	}

	o, err = s.repo.ReactivateByName(ctx, name, s.now())
	if err == nil {
		return o, nil
	}
	if !apperr.IsNotFound(err) {
		return Offering{}, err
	}
	return s.Create(ctx, name)
}

func (s *Service) GetByID(ctx context.Context, id string) (Offering, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Offering{}, apperr.NotFound("Service not found")
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Offering{}, apperr.Describe(err, "Service %s", id)
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]Offering, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByIDs(ctx context.Context, ids []string) ([]Offering, error) {
	if len(ids) == 0 {
		return []Offering{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) Rename(ctx context.Context, id string, name *string) (Offering, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Offering{}, err
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		o.Name = strings.TrimSpace(*name)
	}
	o.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, o); err != nil {
		return Offering{}, apperr.Describe(err, "Service %s", o.Name)
	}
	return o, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (Offering, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return Offering{}, err
	}
	if err := s.repo.Deactivate(ctx, o.ID, s.now()); err != nil {
		return Offering{}, apperr.Describe(err, "Service %s", id)
	}
	o.Activated = false
	return o, nil
}
