package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldservice_backend/platform/apperr"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same query
// methods serve pooled and transactional execution.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository is the Postgres-backed Store.
type Repository struct {
	db   querier
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

const serviceColumns = `
	rs.id, rs.job_site_id, js.name, js.street_number || ' ' || js.street_address,
	js.city, js.county, rs.service_type, rs.frequency, rs.last_service_date,
	rs.day_constraint, rs.time_constraint, rs.priority, rs.notes,
	rs.office_notes, rs.manifest_county, rs.is_active`

func scanService(row pgx.Row) (RecurringService, error) {
	var svc RecurringService
	err := row.Scan(
		&svc.ID, &svc.JobSiteID, &svc.JobSiteName, &svc.Address,
		&svc.City, &svc.County, &svc.ServiceType, &svc.Frequency, &svc.LastServiceDate,
		&svc.DayConstraint, &svc.TimeConstraint, &svc.Priority, &svc.Notes,
		&svc.OfficeNotes, &svc.ManifestCounty, &svc.IsActive,
	)
	return svc, err
}

func (r *Repository) ListActiveServices(ctx context.Context) ([]RecurringService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+serviceColumns+`
		FROM recurring_services rs
		JOIN job_sites js ON js.id = rs.job_site_id
		WHERE rs.is_active AND js.is_active
		ORDER BY js.name, rs.service_type`)
	if err != nil {
		return nil, fmt.Errorf("list active services: %w", err)
	}
	defer rows.Close()

	var services []RecurringService
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (RecurringService, error) {
	svc, err := scanService(r.db.QueryRow(ctx, `
		SELECT`+serviceColumns+`
		FROM recurring_services rs
		JOIN job_sites js ON js.id = rs.job_site_id
		WHERE rs.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return RecurringService{}, apperr.NotFound("recurring service not found")
	}
	if err != nil {
		return RecurringService{}, fmt.Errorf("get service %s: %w", id, err)
	}
	return svc, nil
}

func (r *Repository) ListResolvedKeys(ctx context.Context) ([]EventKey, error) {
	rows, err := r.db.Query(ctx, `
		SELECT recurring_service_id, scheduled_date
		FROM service_events
		WHERE event_type IN ($1, $2)`, EventCompleted, EventCancelled)
	if err != nil {
		return nil, fmt.Errorf("list resolved keys: %w", err)
	}
	defer rows.Close()

	var keys []EventKey
	for rows.Next() {
		var key EventKey
		if err := rows.Scan(&key.RecurringServiceID, &key.ScheduledDate); err != nil {
			return nil, fmt.Errorf("scan event key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *Repository) ListReschedules(ctx context.Context) ([]RescheduleEvent, error) {
	rows, err := r.db.Query(ctx, `
		SELECT recurring_service_id, scheduled_date, rescheduled_to
		FROM service_events
		WHERE event_type = $1 AND rescheduled_to IS NOT NULL
		ORDER BY event_date`, EventRescheduled)
	if err != nil {
		return nil, fmt.Errorf("list reschedules: %w", err)
	}
	defer rows.Close()

	var reschedules []RescheduleEvent
	for rows.Next() {
		var re RescheduleEvent
		if err := rows.Scan(&re.RecurringServiceID, &re.ScheduledDate, &re.NewDate); err != nil {
			return nil, fmt.Errorf("scan reschedule: %w", err)
		}
		reschedules = append(reschedules, re)
	}
	return reschedules, rows.Err()
}

func (r *Repository) InsertEvent(ctx context.Context, event ServiceEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO service_events (
			id, recurring_service_id, job_site_id, job_site_name, service_type,
			scheduled_date, event_type, event_date, completed_date,
			rescheduled_to, performed_by, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		event.ID, event.RecurringServiceID, event.JobSiteID, event.JobSiteName,
		event.ServiceType, event.ScheduledDate, event.EventType, event.EventDate,
		event.CompletedDate, event.RescheduledTo, event.PerformedBy, event.Notes)
	if err != nil {
		return fmt.Errorf("insert %s event: %w", event.EventType, err)
	}
	return nil
}

func (r *Repository) InsertManifestEntry(ctx context.Context, entry ManifestEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO manifest_entries (
			id, recurring_service_id, job_site_id, job_site_name, address,
			service_type, date_completed, quarter, county
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID, entry.RecurringServiceID, entry.JobSiteID, entry.JobSiteName,
		entry.Address, entry.ServiceType, entry.DateCompleted, entry.Quarter, entry.County)
	if err != nil {
		return fmt.Errorf("insert manifest entry: %w", err)
	}
	return nil
}

func (r *Repository) SetLastServiceDateMax(ctx context.Context, id uuid.UUID, date time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE recurring_services
		SET last_service_date = GREATEST(COALESCE(last_service_date, $2::date), $2::date),
		    updated_at = now()
		WHERE id = $1`, id, date)
	if err != nil {
		return fmt.Errorf("advance last service date: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("recurring service not found")
	}
	return nil
}

func (r *Repository) ShiftLastServiceDate(ctx context.Context, id uuid.UUID, days int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE recurring_services
		SET last_service_date = last_service_date + $2::int,
		    updated_at = now()
		WHERE id = $1 AND last_service_date IS NOT NULL`, id, days)
	if err != nil {
		return fmt.Errorf("shift last service date: %w", err)
	}
	return nil
}

// WithTx begins a transaction and hands fn a Store bound to it. fn returning
// an error rolls back; a commit failure surfaces as the returned error.
func (r *Repository) WithTx(ctx context.Context, fn func(Store) error) error {
	if r.pool == nil {
		// Already inside a transaction.
		return fn(r)
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
