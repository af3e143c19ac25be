package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the registrations table on boot if it is missing.
// The unique index on email is the arbiter for duplicate registrations.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS registrations (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			email             TEXT NOT NULL,
			contact           TEXT NOT NULL,
			college           TEXT NOT NULL,
			course            TEXT NOT NULL,
			sem               TEXT NOT NULL,
			selected_events   TEXT[] NOT NULL,
			id_photo_path     TEXT,
			is_present        BOOLEAN NOT NULL DEFAULT FALSE,
			payment_method    TEXT,
			registration_date TIMESTAMPTZ NOT NULL
		)
	`)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS registrations_email_uniq
		ON registrations (email)
	`)

	return err
}
