package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dogpass-api/internal/domain/vets"
)

type VetsRepo struct {
	db *sql.DB
}

func NewVetsRepo(db *sql.DB) *VetsRepo {
	return &VetsRepo{db: db}
}

const vetColumns = `id, clinic_id, name, username, pwd_hash, activated, created_at, updated_at`

func (r *VetsRepo) Create(ctx context.Context, v vets.Vet) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO vets (`+vetColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, v.ID, v.ClinicID, v.Name, v.Username, v.PasswordHash, v.Activated, v.CreatedAt, v.UpdatedAt)
	return mapErr(err)
}

func (r *VetsRepo) Update(ctx context.Context, v vets.Vet) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE vets
		SET clinic_id = $2, name = $3, username = $4, pwd_hash = $5, updated_at = $6
		WHERE id = $1 AND activated
	`, v.ID, v.ClinicID, v.Name, v.Username, v.PasswordHash, v.UpdatedAt))
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return vets.Vet{}, ErrNotFound
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+vetColumns+`
		FROM vets
		WHERE id = $1 AND activated
	`, id)
	return scanVet(row)
}

func (r *VetsRepo) GetByUsername(ctx context.Context, username string) (vets.Vet, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+vetColumns+`
		FROM vets
		WHERE username = $1 AND activated
	`, strings.TrimSpace(username))
	return scanVet(row)
}

func (r *VetsRepo) List(ctx context.Context) ([]vets.Vet, error) {
	return r.query(ctx, `
		SELECT `+vetColumns+`
		FROM vets
		WHERE activated
		ORDER BY lower(name) ASC, id ASC
	`)
}

func (r *VetsRepo) ListByClinic(ctx context.Context, clinicID string) ([]vets.Vet, error) {
	return r.query(ctx, `
		SELECT `+vetColumns+`
		FROM vets
		WHERE clinic_id = $1 AND activated
		ORDER BY lower(name) ASC, id ASC
	`, clinicID)
}

func (r *VetsRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE vets SET activated = FALSE, updated_at = $2
		WHERE id = $1 AND activated
	`, id, at))
}

func (r *VetsRepo) ReactivateByUsername(ctx context.Context, username string, at time.Time) (vets.Vet, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE vets SET activated = TRUE, updated_at = $2
		WHERE username = $1 AND NOT activated
		RETURNING `+vetColumns, username, at)
	return scanVet(row)
}

func (r *VetsRepo) query(ctx context.Context, q string, args ...any) ([]vets.Vet, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vets.Vet, 0)
	for rows.Next() {
		v, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanVet(s scanner) (vets.Vet, error) {
	var v vets.Vet
	if err := s.Scan(&v.ID, &v.ClinicID, &v.Name, &v.Username, &v.PasswordHash, &v.Activated, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return vets.Vet{}, mapErr(err)
	}
	return v, nil
}
