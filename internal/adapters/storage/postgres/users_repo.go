package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"dogpass-api/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, email, name, lastname, document, phone_number,
	address, number, zip_code, neighborhood,
	username, pwd_hash, activated, created_at, updated_at`

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		u.ID, u.Email, u.Name, u.Lastname, u.Document, u.PhoneNumber,
		u.Address, u.Number, u.ZipCode, u.Neighborhood,
		u.Username, u.PasswordHash, u.Activated, u.CreatedAt, u.UpdatedAt,
	)
	return mapErr(err)
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			name = $3,
			lastname = $4,
			document = $5,
			phone_number = $6,
			address = $7,
			number = $8,
			zip_code = $9,
			neighborhood = $10,
			username = $11,
			pwd_hash = $12,
			updated_at = $13
		WHERE id = $1 AND activated
	`,
		u.ID, u.Email, u.Name, u.Lastname, u.Document, u.PhoneNumber,
		u.Address, u.Number, u.ZipCode, u.Neighborhood,
		u.Username, u.PasswordHash, u.UpdatedAt,
	))
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.User{}, ErrNotFound
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND activated
	`, id)
	return scanUser(row)
}

func (r *UsersRepo) GetByLogin(ctx context.Context, login string) (users.User, error) {
	login = strings.TrimSpace(login)
	if login == "" {
		return users.User{}, ErrNotFound
	}
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE activated AND (username = $1 OR email = lower($1))
		LIMIT 1
	`, login)
	return scanUser(row)
}

func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE activated
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]users.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UsersRepo) Deactivate(ctx context.Context, id string, at time.Time) error {
	return affected(conn(ctx, r.db).ExecContext(ctx, `
		UPDATE users SET activated = FALSE, updated_at = $2
		WHERE id = $1 AND activated
	`, id, at))
}

func (r *UsersRepo) ReactivateByEmail(ctx context.Context, email string, at time.Time) (users.User, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx, `
		UPDATE users SET activated = TRUE, updated_at = $2
		WHERE email = lower($1) AND NOT activated
		RETURNING `+userColumns, strings.TrimSpace(email), at)
	return scanUser(row)
}

// scanner cubre *sql.Row y *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (users.User, error) {
	var u users.User
	if err := s.Scan(
		&u.ID, &u.Email, &u.Name, &u.Lastname, &u.Document, &u.PhoneNumber,
		&u.Address, &u.Number, &u.ZipCode, &u.Neighborhood,
		&u.Username, &u.PasswordHash, &u.Activated, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return users.User{}, mapErr(err)
	}
	return u, nil
}
