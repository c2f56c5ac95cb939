package seed

import (
	"context"
	"testing"

	"dogpass-api/internal/adapters/storage/memory"
	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/domain/timeline"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/domain/vets"
	"dogpass-api/internal/platform/apperr"
	"dogpass-api/internal/platform/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeps() (Deps, *eventbus.Recorder) {
	userSvc := users.NewService(memory.NewUserRepo())
	petSvc := pets.NewService(memory.NewPetRepo(), userSvc)
	offSvc := offerings.NewService(memory.NewOfferingRepo())
	clinicSvc := clinics.NewService(memory.NewClinicRepo(), offSvc, petSvc, memory.TxRunner{})
	vetSvc := vets.NewService(memory.NewVetRepo(), clinicSvc)
	bus := &eventbus.Recorder{}
	tlSvc := timeline.NewService(memory.NewTimelineRepo(), bus, nil)

	return Deps{
		Users:     userSvc,
		Pets:      petSvc,
		Clinics:   clinicSvc,
		Vets:      vetSvc,
		Offerings: offSvc,
		Timeline:  tlSvc,
		Tx:        memory.TxRunner{},
	}, bus
}

func TestDefault_Parses(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Len(t, d.Users, 4)
	assert.Len(t, d.Pets, 7)
	assert.Len(t, d.Clinics, 5)
	assert.Len(t, d.Vets, 6)
	assert.Len(t, d.Services, 6)
	assert.Len(t, d.ClinicPets, 7)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("users:\n  - email: a@b.com\n    nickname: x\n"))
	assert.Error(t, err)
}

func TestPopulate_CreatesEverything(t *testing.T) {
	deps, bus := newDeps()
	ctx := context.Background()
	d, err := Default()
	require.NoError(t, err)

	res, err := Populate(ctx, deps, d)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Users)
	assert.Equal(t, 7, res.Pets)
	assert.Equal(t, 5, res.Clinics)
	assert.Equal(t, 6, res.Vets)
	assert.Equal(t, 6, res.Services)
	assert.Equal(t, 5*6+7, res.Links)
	assert.Equal(t, len(d.Timeline), res.Timeline)
	assert.Len(t, bus.Events(), len(d.Timeline))

	animale, err := deps.Clinics.GetByUsername(ctx, "animale")
	require.NoError(t, err)
	offered, err := deps.Clinics.Services(ctx, animale.ID)
	require.NoError(t, err)
	assert.Len(t, offered, 6)

	attended, err := deps.Clinics.Pets(ctx, animale.ID)
	require.NoError(t, err)
	names := []string{}
	for _, p := range attended {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Lily", "Luke"}, names)

	vet, err := deps.Vets.GetByUsername(ctx, "joao.flavio")
	require.NoError(t, err)
	assert.Equal(t, animale.ID, vet.ClinicID)

	victor, err := deps.Users.GetByLogin(ctx, "nascimento.victor01@gmail.com")
	require.NoError(t, err)
	owned, err := deps.Pets.ListByOwner(ctx, victor.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, pets.SpeciesDog, owned[0].Species)

	items, err := deps.Timeline.ListByPet(ctx, owned[0].ID, timeline.ListFilter{})
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, "Animale Pet Care", it.Clinic)
		assert.Equal(t, timeline.ActorTypeVet, it.CreatedByRole)
	}
}

func TestPopulate_IsIdempotent(t *testing.T) {
	deps, _ := newDeps()
	ctx := context.Background()
	d, err := Default()
	require.NoError(t, err)

	_, err = Populate(ctx, deps, d)
	require.NoError(t, err)

	res, err := Populate(ctx, deps, d)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	all, err := deps.Users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPopulate_UnknownReference(t *testing.T) {
	deps, _ := newDeps()
	d := Data{
		Pets: []petSeed{{OwnerEmail: "ghost@example.com", Name: "Rex"}},
	}

	_, err := Populate(context.Background(), deps, d)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPopulate_ReactivatesDeactivatedRows(t *testing.T) {
	deps, _ := newDeps()
	ctx := context.Background()
	d, err := Default()
	require.NoError(t, err)

	_, err = Populate(ctx, deps, d)
	require.NoError(t, err)

	victor, err := deps.Users.GetByLogin(ctx, "nascimento.victor01@gmail.com")
	require.NoError(t, err)
	animale, err := deps.Clinics.GetByUsername(ctx, "animale")
	require.NoError(t, err)
	vet, err := deps.Vets.GetByUsername(ctx, "joao.flavio")
	require.NoError(t, err)
	offered, err := deps.Offerings.List(ctx)
	require.NoError(t, err)

	_, err = deps.Users.Deactivate(ctx, victor.ID)
	require.NoError(t, err)
	_, err = deps.Clinics.Deactivate(ctx, animale.ID)
	require.NoError(t, err)
	_, err = deps.Vets.Deactivate(ctx, vet.ID)
	require.NoError(t, err)
	_, err = deps.Offerings.Deactivate(ctx, offered[0].ID)
	require.NoError(t, err)

	res, err := Populate(ctx, deps, d)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Reactivated)
	assert.Zero(t, res.Users)
	assert.Zero(t, res.Clinics)
	assert.Zero(t, res.Vets)
	assert.Zero(t, res.Links)

	back, err := deps.Clinics.GetByID(ctx, animale.ID)
	require.NoError(t, err)
	assert.True(t, back.Activated)
	_, err = deps.Users.GetByID(ctx, victor.ID)
	assert.NoError(t, err)
	_, err = deps.Vets.GetByID(ctx, vet.ID)
	assert.NoError(t, err)
	_, err = deps.Offerings.GetByID(ctx, offered[0].ID)
	assert.NoError(t, err)
}

func TestPopulate_MatchesClinicsByCNPJ(t *testing.T) {
	deps, _ := newDeps()
	ctx := context.Background()
	d, err := Default()
	require.NoError(t, err)

	_, err = Populate(ctx, deps, d)
	require.NoError(t, err)

	animale, err := deps.Clinics.GetByUsername(ctx, "animale")
	require.NoError(t, err)
	renamed := "animale.petcare"
	_, err = deps.Clinics.Update(ctx, animale.ID, clinics.UpdateInput{Username: &renamed})
	require.NoError(t, err)

	res, err := Populate(ctx, deps, d)
	require.NoError(t, err)
	assert.Zero(t, res.Clinics)

	all, err := deps.Clinics.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}
