package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dogpass-api/internal/domain/clinics"
)

type ClinicsRepo struct {
	db *sql.DB
}

func NewClinicsRepo(db *sql.DB) *ClinicsRepo {
	return &ClinicsRepo{db: db}
}

const clinicColumns = `
	id, name, cnpj,
	address, number, zip_code, neighborhood,
	username, pwd_hash, activated, created_at, updated_at`

func (r *ClinicsRepo) Create(ctx context.Context, c clinics.Clinic) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO clinics (`+clinicColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		c.ID, c.Name, c.CNPJ,
		c.Address, c.Number, c.ZipCode, c.Neighborhood,
		c.Username, c.PasswordHash, c.Activated, c.CreatedAt, c.UpdatedAt,
	)
	return mapErr(err)
}

func (r *ClinicsRepo) Update(ctx context.Context, c clinics.Clinic) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE clinics
		SET
			name = $2,
			cnpj = $3,
			address = $4,
			number = $5,
			zip_code = $6,
			neighborhood = $7,
			username = $8,
			pwd_hash = $9,
			updated_at = $10
		WHERE id = $1 AND activated
	`,
		c.ID, c.Name, c.CNPJ,
		c.Address, c.Number, c.ZipCode, c.Neighborhood,
		c.Username, c.PasswordHash, c.UpdatedAt,
	))
}

func (r *ClinicsRepo) GetByID(ctx context.Context, id string) (clinics.Clinic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return clinics.Clinic{}, ErrNotFound
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE id = $1 AND activated
	`, id)
	return scanClinic(row)
}

func (r *ClinicsRepo) GetByUsername(ctx context.Context, username string) (clinics.Clinic, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE username = $1 AND activated
	`, strings.TrimSpace(username))
	return scanClinic(row)
}

func (r *ClinicsRepo) GetByCNPJ(ctx context.Context, cnpj string) (clinics.Clinic, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE cnpj = $1 AND activated
	`, strings.TrimSpace(cnpj))
	return scanClinic(row)
}

func (r *ClinicsRepo) ReactivateByCNPJ(ctx context.Context, cnpj string, at time.Time) (clinics.Clinic, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE clinics SET activated = TRUE, updated_at = $2
		WHERE cnpj = $1 AND NOT activated
		RETURNING `+clinicColumns, strings.TrimSpace(cnpj), at)
	return scanClinic(row)
}

func (r *ClinicsRepo) List(ctx context.Context) ([]clinics.Clinic, error) {
	return r.query(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE activated
		ORDER BY created_at ASC
	`)
}

func (r *ClinicsRepo) ListByIDs(ctx context.Context, ids []string) ([]clinics.Clinic, error) {
	if len(ids) == 0 {
		return []clinics.Clinic{}, nil
	}
	return r.query(ctx, `
		SELECT `+clinicColumns+`
		FROM clinics
		WHERE activated AND id IN (`+placeholders(1, len(ids))+`)
		ORDER BY lower(name) ASC
	`, stringArgs(ids)...)
}

func (r *ClinicsRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE clinics SET activated = FALSE, updated_at = $2
		WHERE id = $1 AND activated
	`, id, at))
}

// -------------------------
// clinic_services / clinic_pets
// -------------------------

func (r *ClinicsRepo) AddService(ctx context.Context, clinicID, serviceID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO clinic_services (clinic_id, service_id) VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, clinicID, serviceID)
	return mapErr(err)
}

func (r *ClinicsRepo) RemoveService(ctx context.Context, clinicID, serviceID string) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		DELETE FROM clinic_services WHERE clinic_id = $1 AND service_id = $2
	`, clinicID, serviceID))
}

func (r *ClinicsRepo) ServiceIDs(ctx context.Context, clinicID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT service_id FROM clinic_services WHERE clinic_id = $1 ORDER BY service_id
	`, clinicID)
}

func (r *ClinicsRepo) AddPet(ctx context.Context, clinicID, petID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO clinic_pets (clinic_id, pet_id) VALUES ($1,$2)
		ON CONFLICT DO NOTHING
	`, clinicID, petID)
	return mapErr(err)
}

func (r *ClinicsRepo) RemovePet(ctx context.Context, clinicID, petID string) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		DELETE FROM clinic_pets WHERE clinic_id = $1 AND pet_id = $2
	`, clinicID, petID))
}

func (r *ClinicsRepo) PetIDs(ctx context.Context, clinicID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT pet_id FROM clinic_pets WHERE clinic_id = $1 ORDER BY pet_id
	`, clinicID)
}

func (r *ClinicsRepo) ClinicIDsForPet(ctx context.Context, petID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT clinic_id FROM clinic_pets WHERE pet_id = $1 ORDER BY clinic_id
	`, petID)
}

func (r *ClinicsRepo) ids(ctx context.Context, q string, arg string) ([]string, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *ClinicsRepo) query(ctx context.Context, q string, args ...any) ([]clinics.Clinic, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]clinics.Clinic, 0)
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanClinic(s scanner) (clinics.Clinic, error) {
	var c clinics.Clinic
	if err := s.Scan(
		&c.ID, &c.Name, &c.CNPJ,
		&c.Address, &c.Number, &c.ZipCode, &c.Neighborhood,
		&c.Username, &c.PasswordHash, &c.Activated, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return clinics.Clinic{}, mapErr(err)
	}
	return c, nil
}
