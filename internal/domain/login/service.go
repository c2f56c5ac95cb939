package login

import (
	"context"
	"errors"
	"strings"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"
	"dogpass-api/internal/ports/auth"
)

var ErrIssuerNotConfigured = errors.New("token issuer not configured")

// Resultados posibles de un intento (label de métricas).
const (
	OutcomeSuccess       = "success"
	OutcomeWrongPassword = "wrong_password"
	OutcomeUnknownUser   = "unknown_user"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
)

type UserFinder interface {
	GetByLogin(ctx context.Context, login string) (users.User, error)
}

type ClinicFinder interface {
	GetByUsername(ctx context.Context, username string) (clinics.Clinic, error)
	Services(ctx context.Context, clinicID string) ([]offerings.Offering, error)
}

type VetFinder interface {
	GetByUsername(ctx context.Context, username string) (vets.Vet, error)
}

// Principal es quien inició sesión. Solo uno de User/Clinic/Vet viene seteado.
type Principal struct {
	Role auth.Role
	ID   string
	Name string

	User           *users.User
	Clinic         *clinics.Clinic
	ClinicServices []offerings.Offering
	Vet            *vets.Vet
}

// DisplayName es el nombre para logs: nombre y apellido en usuarios.
func (p Principal) DisplayName() string {
	if p.User != nil && p.User.Lastname != "" {
		return p.User.Name + " " + p.User.Lastname
	}
	return p.Name
}

type Result struct {
	Token     string
	Principal Principal
}

type Service struct {
	users   UserFinder
	clinics ClinicFinder
	vets    VetFinder
	issuer  auth.TokenIssuer

	// OnAttempt se invoca al terminar cada intento (métricas).
	OnAttempt func(role, outcome string)
}

func NewService(u UserFinder, c ClinicFinder, v VetFinder, issuer auth.TokenIssuer) *Service {
	return &Service{users: u, clinics: c, vets: v, issuer: issuer}
}

// Login busca el username en users (username o email), luego clínicas, luego vets.
func (s *Service) Login(ctx context.Context, username, pwd string) (Result, error) {
	username = strings.TrimSpace(username)
	if username == "" || pwd == "" {
		s.record("", OutcomeInvalid)
		return Result{}, apperr.MissingFields()
	}

	p, hash, err := s.find(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			s.record("", OutcomeUnknownUser)
			return Result{}, apperr.NotFound("Username %s not found", username)
		}
		s.record("", OutcomeError)
		return Result{}, err
	}

	if !password.Verify(hash, pwd) {
		s.record(string(p.Role), OutcomeWrongPassword)
		return Result{}, apperr.Forbidden("Username or password is incorrect")
	}

	if s.issuer == nil {
		s.record(string(p.Role), OutcomeError)
		return Result{}, ErrIssuerNotConfigured
	}
	token, err := s.issuer.Issue(ctx, auth.Claims{Subject: p.ID, Name: p.Name, Role: p.Role})
	if err != nil {
		s.record(string(p.Role), OutcomeError)
		return Result{}, err
	}

	s.record(string(p.Role), OutcomeSuccess)
	return Result{Token: token, Principal: p}, nil
}

func (s *Service) find(ctx context.Context, username string) (Principal, string, error) {
	u, err := s.users.GetByLogin(ctx, username)
	if err == nil {
		return Principal{Role: auth.RoleUser, ID: u.ID, Name: u.Name, User: &u}, u.PasswordHash, nil
	}
	if !apperr.IsNotFound(err) {
		return Principal{}, "", err
	}

	c, err := s.clinics.GetByUsername(ctx, username)
	if err == nil {
		services, err := s.clinics.Services(ctx, c.ID)
		if err != nil {
			return Principal{}, "", err
		}
		return Principal{Role: auth.RoleClinic, ID: c.ID, Name: c.Name, Clinic: &c, ClinicServices: services}, c.PasswordHash, nil
	}
	if !apperr.IsNotFound(err) {
		return Principal{}, "", err
	}

	v, err := s.vets.GetByUsername(ctx, username)
	if err != nil {
		return Principal{}, "", err
	}
	return Principal{Role: auth.RoleVet, ID: v.ID, Name: v.Name, Vet: &v}, v.PasswordHash, nil
}

func (s *Service) record(role, outcome string) {
	if s.OnAttempt != nil {
		s.OnAttempt(role, outcome)
	}
}
