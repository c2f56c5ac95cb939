package offerings_test

import (
	"context"
	"testing"

	"dogpass-api/internal/adapters/storage/memory"
	"dogpass-api/internal/domain/offerings"
	"dogpass-api/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_UniqueName(t *testing.T) {
	svc := offerings.NewService(memory.NewOfferingRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Vacinas")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "vacinas")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, "  ")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestEnsure_ReusesExisting(t *testing.T) {
	svc := offerings.NewService(memory.NewOfferingRepo())
	ctx := context.Background()

	a, err := svc.Ensure(ctx, "Raio-X")
	require.NoError(t, err)
	b, err := svc.Ensure(ctx, " Raio-X ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRenameAndDeactivate(t *testing.T) {
	svc := offerings.NewService(memory.NewOfferingRepo())
	ctx := context.Background()

	o, err := svc.Create(ctx, "Banho")
	require.NoError(t, err)

	name := "Banho e Tosa"
	got, err := svc.Rename(ctx, o.ID, &name)
	require.NoError(t, err)
	assert.Equal(t, "Banho e Tosa", got.Name)

	_, err = svc.Deactivate(ctx, o.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	empty, err := svc.ListByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
