package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"dogpass-api/internal/domain/pets"
	"dogpass-api/internal/domain/timeline"
	"dogpass-api/internal/domain/users"
	"dogpass-api/internal/platform/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"id", "email", "name", "lastname", "document", "phone_number",
	"address", "number", "zip_code", "neighborhood",
	"username", "pwd_hash", "activated", "created_at", "updated_at",
}

var petCols = []string{
	"id", "owner_user_id", "name", "species", "breed", "sex", "size",
	"age", "castrated", "weight", "description", "activated", "created_at", "updated_at",
}

func TestUsersRepo_CreateConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})

	err = NewUsersRepo(db).Create(context.Background(), users.User{ID: "u1", Email: "a@b.c"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM users").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"u1", "ana@example.com", "Ana", "Souza", "123", "555",
			"", "", "", "",
			"ana", "hash", true, now, now,
		))
	mock.ExpectQuery("FROM users").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := NewUsersRepo(db)
	u, err := repo.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.True(t, u.Activated)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_DeactivateInactiveIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE users SET activated = FALSE").
		WithArgs("u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewUsersRepo(db).Deactivate(context.Background(), "u1", time.Now())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersRepo_ReactivateByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`UPDATE users SET activated = TRUE, updated_at = \$2\s+WHERE email = lower\(\$1\) AND NOT activated\s+RETURNING`).
		WithArgs("ana@example.com", now).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"u1", "ana@example.com", "Ana", "Souza", "123", "555",
			"", "", "", "",
			"ana", "hash", true, now, now,
		))
	mock.ExpectQuery("UPDATE users SET activated = TRUE").
		WithArgs("ghost@example.com", now).
		WillReturnRows(sqlmock.NewRows(userCols))

	repo := NewUsersRepo(db)
	u, err := repo.ReactivateByEmail(context.Background(), " ana@example.com ", now)
	require.NoError(t, err)
	assert.True(t, u.Activated)

	_, err = repo.ReactivateByEmail(context.Background(), "ghost@example.com", now)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_ListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`id IN \(\$1,\$2\)`).WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows(petCols).AddRow(
			"p1", "u1", "Milo", "dog", "mixed", "male", "medium",
			"3", true, 12.5, "", true, now, now,
		))

	repo := NewPetsRepo(db)
	out, err := repo.ListByIDs(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, pets.SpeciesDog, out[0].Species)
	assert.Equal(t, 12.5, out[0].Weight)

	// Sin IDs no consulta
	out, err = repo.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineRepo_ListByPetBuildsFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`type IN \(\$2,\$3\) AND occurred_at >= \$4 AND \(title ILIKE \$5 ESCAPE '\\' OR description ILIKE \$5 ESCAPE '\\'\) ORDER BY occurred_at DESC, created_at DESC LIMIT \$6`).
		WithArgs("p1", "VACCINE", "EXAM", from, "%rabia%", 200).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "pet_id", "type", "title", "description", "vet", "clinic",
			"occurred_at", "created_at", "created_by_id", "created_by_role", "activated",
		}).AddRow("i1", "p1", "VACCINE", "Antirrábica", "", "Dr. Silva", "Centro", from, from, "v1", "vet", true))

	out, err := NewTimelineRepo(db).ListByPet(context.Background(), "p1", timeline.ListFilter{
		Types: []timeline.ItemType{timeline.ItemTypeVaccine, timeline.ItemTypeExam},
		From:  &from,
		Query: " rabia ",
		Limit: 500,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, timeline.ActorTypeVet, out[0].CreatedByRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimelineRepo_ListByPetEscapesQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`ILIKE \$2 ESCAPE`).
		WithArgs("p1", `%50\%\_off\\x%`, 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "pet_id", "type", "title", "description", "vet", "clinic",
			"occurred_at", "created_at", "created_by_id", "created_by_role", "activated",
		}))

	out, err := NewTimelineRepo(db).ListByPet(context.Background(), "p1", timeline.ListFilter{Query: `50%_off\x`})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicsRepo_AddServiceIsIdempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO clinic_services .* ON CONFLICT DO NOTHING").
		WithArgs("c1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM clinic_services").
		WithArgs("c1", "s9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewClinicsRepo(db)
	assert.NoError(t, repo.AddService(context.Background(), "c1", "s1"))
	assert.ErrorIs(t, repo.RemoveService(context.Background(), "c1", "s9"), apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_CommitAndRollback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	runner := NewTxRunner(db)
	repo := NewUsersRepo(db)

	// commit
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = runner.WithinTx(context.Background(), "create user", func(ctx context.Context) error {
		return repo.Create(ctx, users.User{ID: "u1"})
	})
	require.NoError(t, err)

	// rollback: el error de fn se devuelve tal cual
	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectRollback()

	err = runner.WithinTx(context.Background(), "create user", func(ctx context.Context) error {
		if err := repo.Create(ctx, users.User{ID: "u2"}); err != nil {
			return err
		}
		// anidado: reutiliza la misma tx
		return runner.WithinTx(ctx, "nested", func(context.Context) error { return boom })
	})
	assert.ErrorIs(t, err, boom)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapErr(t *testing.T) {
	assert.Nil(t, mapErr(nil))
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}), apperr.ErrConflict)
	other := &pgconn.PgError{Code: "23503"}
	assert.Equal(t, error(other), mapErr(other))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1,$2,$3", placeholders(1, 3))
	assert.Equal(t, "$4", placeholders(4, 1))
}
