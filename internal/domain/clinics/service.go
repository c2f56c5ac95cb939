package clinics

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"
	"dogpass-api/internal/ports/tx"

	"github.com/google/uuid"
)

// OfferingLookup y PetLookup desacoplan clinics de los servicios concretos.
type OfferingLookup interface {
	GetByID(ctx context.Context, id string) (offerings.Offering, error)
	ListByIDs(ctx context.Context, ids []string) ([]offerings.Offering, error)
}

type PetLookup interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	ListByIDs(ctx context.Context, ids []string) ([]pets.Pet, error)
}

type Service struct {
	repo      Repository
	offerings OfferingLookup
	pets      PetLookup
	tx        tx.Runner
	now       func() time.Time
}

func NewService(repo Repository, offerings OfferingLookup, pets PetLookup, txr tx.Runner) *Service {
	return &Service{
		repo:      repo,
		offerings: offerings,
		pets:      pets,
		tx:        txr,
		now:       time.Now,
	}
}

type CreateInput struct {
	Name         string
	CNPJ         string
	Address      string
	Number       string
	ZipCode      string
	Neighborhood string
	Username     string
	Pwd          string

	// ServiceIDs opcionales: se vinculan en la misma transacción.
	ServiceIDs []string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Clinic, error) {
	for _, v := range []string{in.Name, in.CNPJ, in.Address, in.Number, in.ZipCode, in.Neighborhood, in.Username, in.Pwd} {
		if strings.TrimSpace(v) == "" {
			return Clinic{}, apperr.MissingFields()
		}
	}

	hash, err := password.Hash(in.Pwd)
	if err != nil {
		return Clinic{}, err
	}

	now := s.now()
	c := Clinic{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		CNPJ:         strings.TrimSpace(in.CNPJ),
		Address:      strings.TrimSpace(in.Address),
		Number:       strings.TrimSpace(in.Number),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hash,
		Activated:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.tx.WithinTx(ctx, "create clinic", func(ctx context.Context) error {
		// Validar servicios antes de insertar
		for _, sid := range in.ServiceIDs {
			if _, err := s.offerings.GetByID(ctx, sid); err != nil {
				return err
			}
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return apperr.Describe(err, "Clinic %s", c.CNPJ)
		}
		for _, sid := range in.ServiceIDs {
			if err := s.repo.AddService(ctx, c.ID, strings.TrimSpace(sid)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Clinic{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Clinic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Clinic{}, apperr.NotFound("Clinic not found")
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Clinic{}, apperr.Describe(err, "Clinic %s", id)
	}
	return c, nil
}

// GetByUsername no describe el error; lo usa login.
func (s *Service) GetByUsername(ctx context.Context, username string) (Clinic, error) {
	return s.repo.GetByUsername(ctx, strings.TrimSpace(username))
}

// GetByCNPJ tampoco describe el error; lo usa el seed.
func (s *Service) GetByCNPJ(ctx context.Context, cnpj string) (Clinic, error) {
	return s.repo.GetByCNPJ(ctx, strings.TrimSpace(cnpj))
}

// Reactivate vuelve a activar la clínica desactivada con ese CNPJ.
// Los vínculos con servicios y mascotas se conservan.
func (s *Service) Reactivate(ctx context.Context, cnpj string) (Clinic, error) {
	cnpj = strings.TrimSpace(cnpj)
	c, err := s.repo.ReactivateByCNPJ(ctx, cnpj, s.now())
	if err != nil {
		return Clinic{}, apperr.Describe(err, "Clinic %s", cnpj)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Clinic, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	Name         *string
	CNPJ         *string
	Address      *string
	Number       *string
	ZipCode      *string
	Neighborhood *string
	Username     *string
	Pwd          *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Clinic, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Clinic{}, err
	}

	apply(&c.Name, in.Name)
	apply(&c.CNPJ, in.CNPJ)
	apply(&c.Address, in.Address)
	apply(&c.Number, in.Number)
	apply(&c.ZipCode, in.ZipCode)
	apply(&c.Neighborhood, in.Neighborhood)
	apply(&c.Username, in.Username)
	if in.Pwd != nil && strings.TrimSpace(*in.Pwd) != "" {
		hash, err := password.Hash(*in.Pwd)
		if err != nil {
			return Clinic{}, err
		}
		c.PasswordHash = hash
	}

	c.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, c); err != nil {
		return Clinic{}, apperr.Describe(err, "Clinic %s", c.CNPJ)
	}
	return c, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (Clinic, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return Clinic{}, err
	}
	if err := s.repo.Deactivate(ctx, c.ID, s.now()); err != nil {
		return Clinic{}, apperr.Describe(err, "Clinic %s", id)
	}
	c.Activated = false
	return c, nil
}

// -------------------------
// clinic <-> services
// -------------------------

// Services devuelve los servicios activos que ofrece una clínica activa.
func (s *Service) Services(ctx context.Context, clinicID string) ([]offerings.Offering, error) {
	if _, err := s.GetByID(ctx, clinicID); err != nil {
		return nil, err
	}
	ids, err := s.repo.ServiceIDs(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.offerings.ListByIDs(ctx, ids)
}

func (s *Service) AddService(ctx context.Context, clinicID, serviceID string) (Clinic, error) {
	c, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return Clinic{}, err
	}
	o, err := s.offerings.GetByID(ctx, serviceID)
	if err != nil {
		return Clinic{}, err
	}
	if err := s.repo.AddService(ctx, c.ID, o.ID); err != nil {
		return Clinic{}, err
	}
	return c, nil
}

func (s *Service) RemoveService(ctx context.Context, clinicID, serviceID string) (Clinic, error) {
	c, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return Clinic{}, err
	}
	if err := s.repo.RemoveService(ctx, c.ID, strings.TrimSpace(serviceID)); err != nil {
		return Clinic{}, apperr.Describe(err, "Service %s of clinic %s", serviceID, c.Name)
	}
	return c, nil
}

// -------------------------
// clinic <-> pets
// -------------------------

func (s *Service) Pets(ctx context.Context, clinicID string) ([]pets.Pet, error) {
	if _, err := s.GetByID(ctx, clinicID); err != nil {
		return nil, err
	}
	ids, err := s.repo.PetIDs(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	return s.pets.ListByIDs(ctx, ids)
}

func (s *Service) AddPet(ctx context.Context, clinicID, petID string) (Clinic, error) {
	c, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return Clinic{}, err
	}
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Clinic{}, err
	}
	if err := s.repo.AddPet(ctx, c.ID, p.ID); err != nil {
		return Clinic{}, err
	}
	return c, nil
}

func (s *Service) RemovePet(ctx context.Context, clinicID, petID string) (Clinic, error) {
	c, err := s.GetByID(ctx, clinicID)
	if err != nil {
		return Clinic{}, err
	}
	if err := s.repo.RemovePet(ctx, c.ID, strings.TrimSpace(petID)); err != nil {
		return Clinic{}, apperr.Describe(err, "Pet %s of clinic %s", petID, c.Name)
	}
	return c, nil
}

// ClinicsForPet devuelve las clínicas activas que atienden a una mascota activa.
func (s *Service) ClinicsForPet(ctx context.Context, petID string) ([]Clinic, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ClinicIDsForPet(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Clinic{}, nil
	}
	return s.repo.ListByIDs(ctx, ids)
}

// Attends indica si la clínica (activa) tiene vinculada la mascota.
func (s *Service) Attends(ctx context.Context, clinicID, petID string) (bool, error) {
	ids, err := s.repo.ClinicIDsForPet(ctx, petID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == clinicID {
			if _, err := s.repo.GetByID(ctx, clinicID); err != nil {
				if apperr.IsNotFound(err) {
					return false, nil
				}
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

func apply(dst *string, v *string) {
	if v == nil {
		return
	}
	if t := strings.TrimSpace(*v); t != "" {
		*dst = t
	}
}
