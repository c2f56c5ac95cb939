package timeline

import (
	"context"
	"strings"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/ports/auth"
)

type PetOwners interface {
	OwnerOf(ctx context.Context, petID string) (string, error)
}

type ClinicLinks interface {
	GetByID(ctx context.Context, id string) (clinics.Clinic, error)
	Attends(ctx context.Context, clinicID, petID string) (bool, error)
}

type VetLookup interface {
	GetByID(ctx context.Context, id string) (vets.Vet, error)
}

// Access decide quién puede leer y escribir el historial de una mascota:
//   - user: solo el dueño
//   - clinic: si la mascota está vinculada a la clínica
//   - vet: si la mascota está vinculada a la clínica del vet
type Access struct {
	pets    PetOwners
	clinics ClinicLinks
	vets    VetLookup
}

func NewAccess(pets PetOwners, clinics ClinicLinks, vets VetLookup) *Access {
	return &Access{pets: pets, clinics: clinics, vets: vets}
}

// Authorize devuelve el Actor listo para registrar ítems.
// Mascota inexistente => ErrNotFound; sin permiso => ErrForbidden.
func (a *Access) Authorize(ctx context.Context, petID string, claims auth.Claims) (Actor, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return Actor{}, apperr.ErrUnauthorized
	}

	ownerID, err := a.pets.OwnerOf(ctx, petID)
	if err != nil {
		return Actor{}, err
	}

	switch claims.Role {
	case auth.RoleUser:
		if claims.Subject != ownerID {
			return Actor{}, forbidden()
		}
		return Actor{Type: ActorTypeUser, ID: claims.Subject, Name: claims.Name}, nil

	case auth.RoleClinic:
		c, err := a.clinics.GetByID(ctx, claims.Subject)
		if err != nil {
			if apperr.IsNotFound(err) {
				return Actor{}, forbidden()
			}
			return Actor{}, err
		}
		if err := a.requireLink(ctx, c.ID, petID); err != nil {
			return Actor{}, err
		}
		return Actor{Type: ActorTypeClinic, ID: c.ID, Name: c.Name, ClinicName: c.Name}, nil

	case auth.RoleVet:
		v, err := a.vets.GetByID(ctx, claims.Subject)
		if err != nil {
			if apperr.IsNotFound(err) {
				return Actor{}, forbidden()
			}
			return Actor{}, err
		}
		c, err := a.clinics.GetByID(ctx, v.ClinicID)
		if err != nil {
			if apperr.IsNotFound(err) {
				return Actor{}, forbidden()
			}
			return Actor{}, err
		}
		if err := a.requireLink(ctx, c.ID, petID); err != nil {
			return Actor{}, err
		}
		return Actor{Type: ActorTypeVet, ID: v.ID, Name: v.Name, ClinicName: c.Name}, nil

	default:
		return Actor{}, forbidden()
	}
}

func (a *Access) requireLink(ctx context.Context, clinicID, petID string) error {
	ok, err := a.clinics.Attends(ctx, clinicID, petID)
	if err != nil {
		return err
	}
	if !ok {
		return forbidden()
	}
	return nil
}

func forbidden() error {
	return apperr.Forbidden("forbidden")
}
