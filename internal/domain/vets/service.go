package vets

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"

	"github.com/google/uuid"
)

// ClinicLookup valida que la clínica exista y esté activa.
type ClinicLookup interface {
	GetByID(ctx context.Context, id string) (clinics.Clinic, error)
}

type Service struct {
	repo    Repository
	clinics ClinicLookup
	now     func() time.Time
}

func NewService(repo Repository, clinics ClinicLookup) *Service {
	return &Service{repo: repo, clinics: clinics, now: time.Now}
}

type CreateInput struct {
	ClinicID string
	Name     string
	Username string
	Pwd      string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Vet, error) {
	for _, v := range []string{in.ClinicID, in.Name, in.Username, in.Pwd} {
		if strings.TrimSpace(v) == "" {
			return Vet{}, apperr.MissingFields()
		}
	}

	c, err := s.clinics.GetByID(ctx, strings.TrimSpace(in.ClinicID))
	if err != nil {
		return Vet{}, err
	}

	hash, err := password.Hash(in.Pwd)
	if err != nil {
		return Vet{}, err
	}

	now := s.now()
	v := Vet{
		ID:           uuid.NewString(),
		ClinicID:     c.ID,
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Activated:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Vet{}, apperr.Describe(err, "Vet %s", v.Username)
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Vet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Vet{}, apperr.NotFound("Vet not found")
	}
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Vet{}, apperr.Describe(err, "Vet %s", id)
	}
	return v, nil
}

// GetByUsername no describe el error; lo usa login.
func (s *Service) GetByUsername(ctx context.Context, username string) (Vet, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

func (s *Service) List(ctx context.Context) ([]Vet, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByClinic(ctx context.Context, clinicID string) ([]Vet, error) {
	if _, err := s.clinics.GetByID(ctx, clinicID); err != nil {
		return nil, err
	}
	return s.repo.ListByClinic(ctx, clinicID)
}

type UpdateInput struct {
	ClinicID *string
	Name     *string
	Username *string
	Pwd      *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Vet, error) {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return Vet{}, err
	}

	if in.ClinicID != nil && strings.TrimSpace(*in.ClinicID) != "" {
		c, err := s.clinics.GetByID(ctx, strings.TrimSpace(*in.ClinicID))
		if err != nil {
			return Vet{}, err
		}
		v.ClinicID = c.ID
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		v.Name = strings.TrimSpace(*in.Name)
	}
	if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
		v.Username = strings.TrimSpace(*in.Username)
	}
	if in.Pwd != nil && strings.TrimSpace(*in.Pwd) != "" {
		hash, err := password.Hash(*in.Pwd)
		if err != nil {
			return Vet{}, err
		}
		v.PasswordHash = hash
	}

	v.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, v); err != nil {
		return Vet{}, apperr.Describe(err, "Vet %s", v.Username)
	}
	return v, nil
}

// Reactivate vuelve a activar el veterinario desactivado con ese username.
func (s *Service) Reactivate(ctx context.Context, username string) (Vet, error) {
	username = strings.TrimSpace(username)
	v, err := s.repo.ReactivateByUsername(ctx, username, s.now())
	if err != nil {
		return Vet{}, apperr.Describe(err, "Vet %s", username)
	}
	return v, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (Vet, error) {
	v, err := s.GetByID(ctx, id)
	if err != nil {
		return Vet{}, err
	}
	if err := s.repo.Deactivate(ctx, v.ID, s.now()); err != nil {
		return Vet{}, apperr.Describe(err, "Vet %s", id)
	}
	v.Activated = false
	return v, nil
}
