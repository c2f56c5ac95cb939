package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"dogpass-api/internal/domain/clinics"
	"dogpass-api/internal/domain/timeline"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_UniqueAndSoftDelete(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepo()

	u := users.User{ID: "u1", Email: "ana@example.com", Username: "ana", Activated: true}
	require.NoError(t, r.Create(ctx, u))

	err := r.Create(ctx, users.User{ID: "u2", Email: "ana@example.com", Username: "other", Activated: true})
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	got, err := r.GetByLogin(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	require.NoError(t, r.Deactivate(ctx, "u1", time.Now()))
	_, err = r.GetByID(ctx, "u1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, r.Deactivate(ctx, "u1", time.Now()), apperr.ErrNotFound)

	// El email sigue reservado aunque la fila esté inactiva
	err = r.Create(ctx, users.User{ID: "u3", Email: "ana@example.com", Username: "x", Activated: true})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	back, err := r.ReactivateByEmail(ctx, " ANA@example.com", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "u1", back.ID)
	_, err = r.ReactivateByEmail(ctx, "ana@example.com", time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound, "ya está activo")
}

func TestClinicRepo_CNPJLookupAndReactivate(t *testing.T) {
	ctx := context.Background()
	r := NewClinicRepo()
	require.NoError(t, r.Create(ctx, clinics.Clinic{ID: "c1", CNPJ: "11.111", Username: "c1", Activated: true}))

	got, err := r.GetByCNPJ(ctx, "11.111")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)

	require.NoError(t, r.Deactivate(ctx, "c1", time.Now()))
	_, err = r.GetByCNPJ(ctx, "11.111")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	back, err := r.ReactivateByCNPJ(ctx, "11.111", time.Now())
	require.NoError(t, err)
	assert.True(t, back.Activated)
	_, err = r.GetByID(ctx, "c1")
	assert.NoError(t, err)
}

func TestClinicRepo_Associations(t *testing.T) {
	ctx := context.Background()
	r := NewClinicRepo()
	require.NoError(t, r.Create(ctx, clinics.Clinic{ID: "c1", CNPJ: "1", Username: "c1", Activated: true}))

	require.NoError(t, r.AddPet(ctx, "c1", "p1"))
	require.NoError(t, r.AddPet(ctx, "c1", "p1")) // idempotente
	ids, err := r.PetIDs(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, ids)

	clinicIDs, err := r.ClinicIDsForPet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, clinicIDs)

	require.NoError(t, r.RemovePet(ctx, "c1", "p1"))
	assert.ErrorIs(t, r.RemovePet(ctx, "c1", "p1"), apperr.ErrNotFound)

	require.NoError(t, r.AddService(ctx, "c1", "s1"))
	ids, _ = r.ServiceIDs(ctx, "c1")
	assert.Equal(t, []string{"s1"}, ids)

	err = r.Create(ctx, clinics.Clinic{ID: "c2", CNPJ: "1", Username: "c2", Activated: true})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestTimelineRepo_Filters(t *testing.T) {
	ctx := context.Background()
	r := NewTimelineRepo()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	items := []timeline.Item{
		{ID: "1", PetID: "p1", Type: timeline.ItemTypeVaccine, Title: "Antirrábica", OccurredAt: base, Activated: true},
		{ID: "2", PetID: "p1", Type: timeline.ItemTypeExam, Title: "Hemograma", Description: "control anual", OccurredAt: base.AddDate(0, 1, 0), Activated: true},
		{ID: "3", PetID: "p1", Type: timeline.ItemTypeNote, Title: "Nota", OccurredAt: base.AddDate(0, 2, 0), Activated: true},
		{ID: "4", PetID: "p2", Type: timeline.ItemTypeNote, Title: "Otra mascota", OccurredAt: base, Activated: true},
	}
	for _, it := range items {
		require.NoError(t, r.Create(ctx, it))
	}

	all, err := r.ListByPet(ctx, "p1", timeline.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID)

	byType, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{Types: []timeline.ItemType{timeline.ItemTypeVaccine, timeline.ItemTypeExam}})
	assert.Len(t, byType, 2)

	from := base.AddDate(0, 1, 0)
	ranged, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{From: &from})
	assert.Len(t, ranged, 2)

	q, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{Query: "ANUAL"})
	require.Len(t, q, 1)
	assert.Equal(t, "2", q[0].ID)

	// La búsqueda es por campo; no cruza de title a description
	cross, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{Query: "hemograma control"})
	assert.Empty(t, cross)

	// % y _ son literales
	wild, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{Query: "_"})
	assert.Empty(t, wild)

	limited, _ := r.ListByPet(ctx, "p1", timeline.ListFilter{Limit: 1})
	assert.Len(t, limited, 1)

	require.NoError(t, r.Deactivate(ctx, "3", time.Now()))
	all, _ = r.ListByPet(ctx, "p1", timeline.ListFilter{})
	assert.Len(t, all, 2)
}

func TestTxRunner_RunsFn(t *testing.T) {
	called := false
	err := TxRunner{}.WithinTx(context.Background(), "op", func(ctx context.Context) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}
