package users

import (
	"context"
	"strings"
	"time"

	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Email       string
	Name        string
	Lastname    string
	Document    string
	PhoneNumber string
	Pwd         string

	Address      string
	Number       string
	ZipCode      string
	Neighborhood string
	Username     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	for _, v := range []string{in.Email, in.Name, in.Lastname, in.Document, in.PhoneNumber, in.Pwd} {
		if strings.TrimSpace(v) == "" {
			return User{}, apperr.MissingFields()
		}
	}
	email := normalizeEmail(in.Email)
	if !strings.Contains(email, "@") {
		return User{}, apperr.Invalid("Invalid email %s", in.Email)
	}

	hash, err := password.Hash(in.Pwd)
	if err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = email
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Lastname:     strings.TrimSpace(in.Lastname),
		Document:     strings.TrimSpace(in.Document),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Address:      strings.TrimSpace(in.Address),
		Number:       strings.TrimSpace(in.Number),
		ZipCode:      strings.TrimSpace(in.ZipCode),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		Username:     username,
		PasswordHash: hash,
		Activated:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, apperr.Describe(err, "User %s", email)
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.NotFound("User not found")
	}
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, apperr.Describe(err, "User %s", id)
	}
	return u, nil
}

// GetByLogin se usa desde login; no describe el error para que el caller
// pueda seguir buscando en otras tablas.
func (s *Service) GetByLogin(ctx context.Context, login string) (User, error) {
	return s.repo.GetByLogin(ctx, strings.TrimSpace(login))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// UpdateInput: nil o vacío = no tocar.
type UpdateInput struct {
	Email        *string
	Name         *string
	Lastname     *string
	Document     *string
	PhoneNumber  *string
	Address      *string
	Number       *string
	ZipCode      *string
	Neighborhood *string
	Username     *string
	Pwd          *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email := normalizeEmail(*in.Email)
		if !strings.Contains(email, "@") {
			return User{}, apperr.Invalid("Invalid email %s", *in.Email)
		}
		u.Email = email
	}
	apply(&u.Name, in.Name)
	apply(&u.Lastname, in.Lastname)
	apply(&u.Document, in.Document)
	apply(&u.PhoneNumber, in.PhoneNumber)
	apply(&u.Address, in.Address)
	apply(&u.Number, in.Number)
	apply(&u.ZipCode, in.ZipCode)
	apply(&u.Neighborhood, in.Neighborhood)
	apply(&u.Username, in.Username)

	if in.Pwd != nil && strings.TrimSpace(*in.Pwd) != "" {
		hash, err := password.Hash(*in.Pwd)
		if err != nil {
			return User{}, err
		}
		u.PasswordHash = hash
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, apperr.Describe(err, "User %s", u.Email)
	}
	return u, nil
}

// Deactivate hace soft delete y devuelve el usuario tal como estaba.
func (s *Service) Deactivate(ctx context.Context, id string) (User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := s.repo.Deactivate(ctx, u.ID, s.now()); err != nil {
		return User{}, apperr.Describe(err, "User %s", id)
	}
	u.Activated = false
	return u, nil
}

// Reactivate vuelve a activar el usuario desactivado con ese email.
func (s *Service) Reactivate(ctx context.Context, email string) (User, error) {
	email = normalizeEmail(email)
	u, err := s.repo.ReactivateByEmail(ctx, email, s.now())
	if err != nil {
		return User{}, apperr.Describe(err, "User %s", email)
	}
	return u, nil
}

func apply(dst *string, v *string) {
	if v == nil {
		return
	}
	if t := strings.TrimSpace(*v); t != "" {
		*dst = t
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
