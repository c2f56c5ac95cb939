package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"dogpass-api/internal/domain/timeline"
)

type TimelineRepo struct {
	db *sql.DB
}

func NewTimelineRepo(db *sql.DB) *TimelineRepo {
	return &TimelineRepo{db: db}
}

const timelineColumns = `
	id, pet_id,
	type, title, description,
	vet, clinic,
	occurred_at, created_at,
	created_by_id, created_by_role,
	activated`

func (r *TimelineRepo) Create(ctx context.Context, it timeline.Item) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO timeline_items (`+timelineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		it.ID,
		it.PetID,
		string(it.Type),
		it.Title,
		it.Description,
		it.Vet,
		it.Clinic,
		it.OccurredAt,
		it.CreatedAt,
		it.CreatedByID,
		string(it.CreatedByRole),
		it.Activated,
	)
	return mapErr(err)
}

func (r *TimelineRepo) GetByID(ctx context.Context, id string) (timeline.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return timeline.Item{}, ErrNotFound
	}

	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+timelineColumns+`
		FROM timeline_items
		WHERE id = $1 AND activated
	`, id)
	return scanItem(row)
}

func (r *TimelineRepo) ListByPet(ctx context.Context, petID string, filter timeline.ListFilter) ([]timeline.Item, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []timeline.Item{}, nil
	}

	// Base query
	sb := strings.Builder{}
	sb.WriteString(`
		SELECT ` + timelineColumns + `
		FROM timeline_items
		WHERE pet_id = $1 AND activated
	`)

	args := []any{petID}
	argN := 2

	// types filter
	if len(filter.Types) > 0 {
		ph := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			ph = append(ph, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(ph, ",") + ")")
	}

	// from/to
	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	// q: substring literal de title o description (se escapan % y _)
	if q := strings.TrimSpace(filter.Query); q != "" {
		sb.WriteString(fmt.Sprintf(` AND (title ILIKE $%d ESCAPE '\' OR description ILIKE $%d ESCAPE '\')`, argN, argN))
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY occurred_at DESC, created_at DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]timeline.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}

	return out, rows.Err()
}

func (r *TimelineRepo) Deactivate(ctx context.Context, id string, _ time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE timeline_items SET activated = FALSE
		WHERE id = $1 AND activated
	`, id))
}

func scanItem(s scanner) (timeline.Item, error) {
	var it timeline.Item
	var typ, role string
	if err := s.Scan(
		&it.ID,
		&it.PetID,
		&typ,
		&it.Title,
		&it.Description,
		&it.Vet,
		&it.Clinic,
		&it.OccurredAt,
		&it.CreatedAt,
		&it.CreatedByID,
		&role,
		&it.Activated,
	); err != nil {
		return timeline.Item{}, mapErr(err)
	}

	it.Type = timeline.ItemType(typ)
	it.CreatedByRole = timeline.ActorType(role)
	return it, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
