package postgres

import (
	"context"
	"errors"

	"github.com/campusfest/festreg/internal/domain/registration"
	"github.com/campusfest/festreg/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *RegistrationsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create persists a new registration. The unique index on email is the
// arbiter for concurrent duplicate submissions: first writer wins.
func (repo *RegistrationsRepo) Create(ctx context.Context, reg registration.Registration) (created registration.Registration, err error) {
	err = repo.observe("registrations.create", func() error {
		_, e := repo.pool.Exec(ctx, `
			INSERT INTO registrations
				(id, name, email, contact, college, course, sem,
				 selected_events, id_photo_path, is_present, payment_method, registration_date)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`,
			reg.ID, reg.Name, reg.Email, reg.Contact, reg.College, reg.Course, reg.Sem,
			reg.SelectedEvents, reg.IDPhotoPath, reg.IsPresent, reg.PaymentMethod, reg.RegistrationDate,
		)
		return e
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "registrations_email_uniq" {
			err = registration.ErrDuplicateEmail
			return
		}
		return
	}

	created = reg
	return
}

func (repo *RegistrationsRepo) ListAll(ctx context.Context) (regs []registration.Registration, err error) {
	var rows pgx.Rows

	err = repo.observe("registrations.list_all", func() error {
		rows, err = repo.pool.Query(ctx, `
			SELECT id, name, email, contact, college, course, sem,
			       selected_events, id_photo_path, is_present, payment_method, registration_date
			FROM registrations
			ORDER BY registration_date DESC, id DESC
		`)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	regs = make([]registration.Registration, 0)

	for rows.Next() {
		var r registration.Registration

		e := rows.Scan(
			&r.ID, &r.Name, &r.Email, &r.Contact, &r.College, &r.Course, &r.Sem,
			&r.SelectedEvents, &r.IDPhotoPath, &r.IsPresent, &r.PaymentMethod, &r.RegistrationDate,
		)

		if e != nil {
			err = e
			return
		}
		regs = append(regs, r)
	}

	e := rows.Err()

	if e != nil {
		if repo.prom != nil {
			repo.prom.DbErrorsTotal.WithLabelValues("registrations.list_all", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}

// UpdateAttendance flips the is_present flag and returns the updated row.
func (repo *RegistrationsRepo) UpdateAttendance(ctx context.Context, id string, isPresent bool) (registration.Registration, error) {
	return repo.updateReturning(ctx, "registrations.update_attendance", `
		UPDATE registrations
		SET is_present = $2
		WHERE id = $1
		RETURNING id, name, email, contact, college, course, sem,
		          selected_events, id_photo_path, is_present, payment_method, registration_date
	`, id, isPresent)
}

// UpdatePayment sets payment_method; a nil method clears it back to unset.
// The enumerated values are enforced at the service boundary, not here.
func (repo *RegistrationsRepo) UpdatePayment(ctx context.Context, id string, method *string) (registration.Registration, error) {
	return repo.updateReturning(ctx, "registrations.update_payment", `
		UPDATE registrations
		SET payment_method = $2
		WHERE id = $1
		RETURNING id, name, email, contact, college, course, sem,
		          selected_events, id_photo_path, is_present, payment_method, registration_date
	`, id, method)
}

func (repo *RegistrationsRepo) updateReturning(ctx context.Context, op, query string, id string, val any) (updated registration.Registration, err error) {
	err = repo.observe(op, func() error {
		var r registration.Registration

		e := repo.pool.QueryRow(ctx, query, id, val).Scan(
			&r.ID, &r.Name, &r.Email, &r.Contact, &r.College, &r.Course, &r.Sem,
			&r.SelectedEvents, &r.IDPhotoPath, &r.IsPresent, &r.PaymentMethod, &r.RegistrationDate,
		)

		if e != nil {
			return e
		}

		updated = r
		return nil
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = registration.ErrNotFound
		}
		return
	}

	return
}

// DistinctEvents flattens selected_events across every registration and
// deduplicates in the database.
func (repo *RegistrationsRepo) DistinctEvents(ctx context.Context) (events []string, err error) {
	var rows pgx.Rows

	err = repo.observe("registrations.distinct_events", func() error {
		rows, err = repo.pool.Query(ctx, `
			SELECT DISTINCT unnest(selected_events) AS event
			FROM registrations
			ORDER BY event ASC
		`)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	events = make([]string, 0)

	for rows.Next() {
		var name string

		if e := rows.Scan(&name); e != nil {
			err = e
			return
		}
		events = append(events, name)
	}

	err = rows.Err()
	return
}
