package login

import (
	"context"
	"errors"
	"testing"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"
	"dogpass-api/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]users.User

func (f fakeUsers) GetByLogin(ctx context.Context, login string) (users.User, error) {
	for _, u := range f {
		if u.Username == login || u.Email == login {
			return u, nil
		}
	}
	return users.User{}, apperr.ErrNotFound
}

type fakeClinics map[string]clinics.Clinic

func (f fakeClinics) GetByUsername(ctx context.Context, username string) (clinics.Clinic, error) {
	c, ok := f[username]
	if !ok {
		return clinics.Clinic{}, apperr.ErrNotFound
	}
	return c, nil
}

func (f fakeClinics) Services(ctx context.Context, clinicID string) ([]offerings.Offering, error) {
	return []offerings.Offering{{ID: "svc-1", Name: "Consulta", Activated: true}}, nil
}

type fakeVets map[string]vets.Vet

func (f fakeVets) GetByUsername(ctx context.Context, username string) (vets.Vet, error) {
	v, ok := f[username]
	if !ok {
		return vets.Vet{}, apperr.ErrNotFound
	}
	return v, nil
}

type brokenUsers struct{}

func (brokenUsers) GetByLogin(ctx context.Context, login string) (users.User, error) {
	return users.User{}, errors.New("connection refused")
}

type fakeIssuer struct {
	last auth.Claims
}

func (f *fakeIssuer) Issue(ctx context.Context, c auth.Claims) (string, error) {
	f.last = c
	return "token-" + c.Subject, nil
}

type attempt struct{ role, outcome string }

func newSvc(t *testing.T) (*Service, *fakeIssuer, *[]attempt) {
	t.Helper()
	hash, err := password.Hash("secret")
	require.NoError(t, err)

	issuer := &fakeIssuer{}
	svc := NewService(
		fakeUsers{"u1": {ID: "u1", Name: "Ana", Lastname: "Souza", Email: "ana@example.com", Username: "ana", PasswordHash: hash}},
		fakeClinics{"centro": {ID: "c1", Name: "Clínica Centro", Username: "centro", PasswordHash: hash}},
		fakeVets{"silva": {ID: "v1", ClinicID: "c1", Name: "Dr. Silva", Username: "silva", PasswordHash: hash}},
		issuer,
	)
	attempts := &[]attempt{}
	svc.OnAttempt = func(role, outcome string) {
		*attempts = append(*attempts, attempt{role, outcome})
	}
	return svc, issuer, attempts
}

func TestLogin_LookupOrder(t *testing.T) {
	svc, issuer, _ := newSvc(t)
	ctx := context.Background()

	cases := []struct {
		login string
		role  auth.Role
		id    string
	}{
		{"ana", auth.RoleUser, "u1"},
		{"ana@example.com", auth.RoleUser, "u1"},
		{"centro", auth.RoleClinic, "c1"},
		{"silva", auth.RoleVet, "v1"},
	}
	for _, tc := range cases {
		t.Run(tc.login, func(t *testing.T) {
			res, err := svc.Login(ctx, tc.login, "secret")
			require.NoError(t, err)
			assert.Equal(t, "token-"+tc.id, res.Token)
			assert.Equal(t, tc.role, res.Principal.Role)
			assert.Equal(t, tc.id, issuer.last.Subject)
			assert.Equal(t, tc.role, issuer.last.Role)
		})
	}
}

func TestLogin_ClinicIncludesServices(t *testing.T) {
	svc, _, _ := newSvc(t)

	res, err := svc.Login(context.Background(), "centro", "secret")
	require.NoError(t, err)
	require.NotNil(t, res.Principal.Clinic)
	assert.Len(t, res.Principal.ClinicServices, 1)
	assert.Nil(t, res.Principal.User)
}

func TestPrincipal_DisplayName(t *testing.T) {
	svc, issuer, _ := newSvc(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "ana", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", res.Principal.DisplayName())
	assert.Equal(t, "Ana", issuer.last.Name, "el claim sigue con el nombre")

	res, err = svc.Login(ctx, "silva", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Silva", res.Principal.DisplayName())
}

func TestLogin_Failures(t *testing.T) {
	svc, _, attempts := newSvc(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "ana", "wrong")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Username or password is incorrect", msg)

	_, err = svc.Login(ctx, "nobody", "secret")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	msg, _ = apperr.Message(err)
	assert.Equal(t, "Username nobody not found", msg)

	_, err = svc.Login(ctx, " ", "secret")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Login(ctx, "ana", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	assert.Equal(t, []attempt{
		{"user", OutcomeWrongPassword},
		{"", OutcomeUnknownUser},
		{"", OutcomeInvalid},
		{"", OutcomeInvalid},
	}, *attempts)
}

func TestLogin_LookupErrorIsNotMasked(t *testing.T) {
	svc := NewService(brokenUsers{}, fakeClinics{}, fakeVets{}, &fakeIssuer{})

	_, err := svc.Login(context.Background(), "ana", "secret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
}

func TestLogin_WithoutIssuer(t *testing.T) {
	hash, err := password.Hash("secret")
	require.NoError(t, err)
	svc := NewService(fakeUsers{"u1": {ID: "u1", Username: "ana", PasswordHash: hash}}, fakeClinics{}, fakeVets{}, nil)

	_, err = svc.Login(context.Background(), "ana", "secret")
	assert.ErrorIs(t, err, ErrIssuerNotConfigured)
}
