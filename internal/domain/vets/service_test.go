package vets_test

import (
	"context"
	"testing"

	"dogpass-api/internal/adapters/storage/memory"
	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(t *testing.T) (*vets.Service, *clinics.Service, clinics.Clinic) {
	t.Helper()

	usersSvc := users.NewService(memory.NewUserRepo())
	petsSvc := pets.NewService(memory.NewPetRepo(), usersSvc)
	clinicsSvc := clinics.NewService(memory.NewClinicRepo(), offerings.NewService(memory.NewOfferingRepo()), petsSvc, memory.TxRunner{})

	c, err := clinicsSvc.Create(context.Background(), clinics.CreateInput{
		Name: "Clínica Centro", CNPJ: "11.111.111/0001-11", Address: "Rua A", Number: "1",
		ZipCode: "13000-000", Neighborhood: "Centro", Username: "centro", Pwd: "secret",
	})
	require.NoError(t, err)

	return vets.NewService(memory.NewVetRepo(), clinicsSvc), clinicsSvc, c
}

func TestCreate(t *testing.T) {
	svc, _, clinic := newServices(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: " Dr. Silva ", Username: "silva", Pwd: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Silva", v.Name)
	assert.True(t, password.Verify(v.PasswordHash, "secret"))

	_, err = svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: "Outro", Username: "silva", Pwd: "x"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, vets.CreateInput{ClinicID: "ghost", Name: "Dr. X", Username: "x", Pwd: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: "Dr. X"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestListByClinic(t *testing.T) {
	svc, _, clinic := newServices(t)
	ctx := context.Background()

	for _, u := range []string{"silva", "costa"} {
		_, err := svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: "Dr. " + u, Username: u, Pwd: "x"})
		require.NoError(t, err)
	}

	got, err := svc.ListByClinic(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.ListByClinic(ctx, "ghost")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdate_MovesClinicAndRehashes(t *testing.T) {
	svc, clinicsSvc, clinic := newServices(t)
	ctx := context.Background()

	other, err := clinicsSvc.Create(ctx, clinics.CreateInput{
		Name: "Clínica Norte", CNPJ: "22.222.222/0001-22", Address: "Rua B", Number: "2",
		ZipCode: "13000-001", Neighborhood: "Norte", Username: "norte", Pwd: "secret",
	})
	require.NoError(t, err)

	v, err := svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: "Dr. Silva", Username: "silva", Pwd: "old"})
	require.NoError(t, err)

	pwd := "new"
	got, err := svc.Update(ctx, v.ID, vets.UpdateInput{ClinicID: &other.ID, Pwd: &pwd})
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ClinicID)
	assert.True(t, password.Verify(got.PasswordHash, "new"))

	ghost := "ghost"
	_, err = svc.Update(ctx, v.ID, vets.UpdateInput{ClinicID: &ghost})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	svc, _, clinic := newServices(t)
	ctx := context.Background()

	v, err := svc.Create(ctx, vets.CreateInput{ClinicID: clinic.ID, Name: "Dr. Silva", Username: "silva", Pwd: "x"})
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, v.ID)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, v.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.GetByUsername(ctx, "silva")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
