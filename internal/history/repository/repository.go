// Package repository reads the append-only service event ledger.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Event is one ledger record as surfaced to operators.
type Event struct {
	ID                 uuid.UUID
	RecurringServiceID uuid.UUID
	JobSiteID          uuid.UUID
	JobSiteName        string
	ServiceType        string
	ScheduledDate      time.Time
	EventType          string
	EventDate          time.Time
	CompletedDate      *time.Time
	RescheduledTo      *time.Time
	PerformedBy        string
	Notes              string
}

// Filter narrows a history query. Zero values mean no constraint.
type Filter struct {
	ServiceID uuid.UUID
	JobSiteID uuid.UUID
	EventType string
	From      time.Time
	To        time.Time
	Limit     int
}

type Store interface {
	List(ctx context.Context, f Filter) ([]Event, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const defaultLimit = 200

func (r *Repository) List(ctx context.Context, f Filter) ([]Event, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ServiceID != uuid.Nil {
		conds = append(conds, "recurring_service_id = "+arg(f.ServiceID))
	}
	if f.JobSiteID != uuid.Nil {
		conds = append(conds, "job_site_id = "+arg(f.JobSiteID))
	}
	if f.EventType != "" {
		conds = append(conds, "event_type = "+arg(f.EventType))
	}
	if !f.From.IsZero() {
		conds = append(conds, "event_date >= "+arg(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "event_date <= "+arg(f.To))
	}

	query := `
		SELECT id, recurring_service_id, job_site_id, job_site_name,
		       service_type, scheduled_date, event_type, event_date,
		       completed_date, rescheduled_to, performed_by, notes
		FROM service_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = defaultLimit
	}
	query += " ORDER BY event_date DESC, created_at DESC LIMIT " + arg(limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(
			&e.ID, &e.RecurringServiceID, &e.JobSiteID, &e.JobSiteName,
			&e.ServiceType, &e.ScheduledDate, &e.EventType, &e.EventDate,
			&e.CompletedDate, &e.RescheduledTo, &e.PerformedBy, &e.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan history event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
