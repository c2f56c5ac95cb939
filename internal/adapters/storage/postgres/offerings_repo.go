package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dogpass-api/internal/domain/offerings"
)

// OfferingsRepo persiste los servicios en la tabla services.
type OfferingsRepo struct {
	db *sql.DB
}

func NewOfferingsRepo(db *sql.DB) *OfferingsRepo {
	return &OfferingsRepo{db: db}
}

const offeringColumns = `id, name, activated, created_at, updated_at`

func (r *OfferingsRepo) Create(ctx context.Context, o offerings.Offering) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO services (`+offeringColumns+`)
		VALUES ($1,$2,$3,$4,$5)
	`, o.ID, o.Name, o.Activated, o.CreatedAt, o.UpdatedAt)
	return mapErr(err)
}

func (r *OfferingsRepo) Update(ctx context.Context, o offerings.Offering) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE services SET name = $2, updated_at = $3
		WHERE id = $1 AND activated
	`, o.ID, o.Name, o.UpdatedAt))
}

func (r *OfferingsRepo) GetByID(ctx context.Context, id string) (offerings.Offering, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return offerings.Offering{}, ErrNotFound
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+offeringColumns+`
		FROM services
		WHERE id = $1 AND activated
	`, id)
	return scanOffering(row)
}

func (r *OfferingsRepo) GetByName(ctx context.Context, name string) (offerings.Offering, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+offeringColumns+`
		FROM services
		WHERE lower(name) = lower($1) AND activated
	`, strings.TrimSpace(name))
	return scanOffering(row)
}

func (r *OfferingsRepo) List(ctx context.Context) ([]offerings.Offering, error) {
	return r.query(ctx, `
		SELECT `+offeringColumns+`
		FROM services
		WHERE activated
		ORDER BY lower(name) ASC
	`)
}

func (r *OfferingsRepo) ListByIDs(ctx context.Context, ids []string) ([]offerings.Offering, error) {
	if len(ids) == 0 {
		return []offerings.Offering{}, nil
	}
	return r.query(ctx, `
		SELECT `+offeringColumns+`
		FROM services
		WHERE activated AND id IN (`+placeholders(1, len(ids))+`)
		ORDER BY lower(name) ASC
	`, stringArgs(ids)...)
}

func (r *OfferingsRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE services SET activated = FALSE, updated_at = $2
		WHERE id = $1 AND activated
	`, id, at))
}

func (r *OfferingsRepo) ReactivateByName(ctx context.Context, name string, at time.Time) (offerings.Offering, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE services SET activated = TRUE, updated_at = $2
		WHERE lower(name) = lower($1) AND NOT activated
		RETURNING `+offeringColumns, name, at)
	return scanOffering(row)
}

func (r *OfferingsRepo) query(ctx context.Context, q string, args ...any) ([]offerings.Offering, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]offerings.Offering, 0)
	for rows.Next() {
		o, err := scanOffering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOffering(s scanner) (offerings.Offering, error) {
	var o offerings.Offering
	if err := s.Scan(&o.ID, &o.Name, &o.Activated, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return offerings.Offering{}, mapErr(err)
	}
	return o, nil
}
