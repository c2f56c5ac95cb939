package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dogpass-api/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, owner_user_id,
	name, species, breed, sex, size,
	age, castrated, weight, description,
	activated, created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.OwnerUserID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.Size,
		p.Age,
		p.Castrated,
		p.Weight,
		p.Description,
		p.Activated,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			sex = $5,
			size = $6,
			age = $7,
			castrated = $8,
			weight = $9,
			description = $10,
			updated_at = $11
		WHERE id = $1 AND activated
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		p.Sex,
		p.Size,
		p.Age,
		p.Castrated,
		p.Weight,
		p.Description,
		p.UpdatedAt,
	))
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, ErrNotFound
	}

	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE id = $1 AND activated
	`, id)
	return scanPet(row)
}

func (r *PetsRepo) List(ctx context.Context) ([]pets.Pet, error) {
	return r.query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE activated
		ORDER BY created_at ASC
	`)
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]pets.Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return []pets.Pet{}, nil
	}
	return r.query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE owner_user_id = $1 AND activated
		ORDER BY lower(name) ASC
	`, ownerUserID)
}

func (r *PetsRepo) ListByIDs(ctx context.Context, ids []string) ([]pets.Pet, error) {
	if len(ids) == 0 {
		return []pets.Pet{}, nil
	}
	return r.query(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE activated AND id IN (`+placeholders(1, len(ids))+`)
		ORDER BY lower(name) ASC
	`, stringArgs(ids)...)
}

func (r *PetsRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE pets SET activated = FALSE, updated_at = $2
		WHERE id = $1 AND activated
	`, id, at))
}

func (r *PetsRepo) query(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(s scanner) (pets.Pet, error) {
	var p pets.Pet
	if err := s.Scan(
		&p.ID,
		&p.OwnerUserID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&p.Sex,
		&p.Size,
		&p.Age,
		&p.Castrated,
		&p.Weight,
		&p.Description,
		&p.Activated,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, mapErr(err)
	}
	return p, nil
}
