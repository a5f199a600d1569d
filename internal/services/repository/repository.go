// Package repository persists recurring service definitions.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldservice_backend/platform/apperr"
)

// Service is one recurring maintenance definition.
type Service struct {
	ID              uuid.UUID
	JobSiteID       uuid.UUID
	JobSiteName     string
	ServiceType     string
	Frequency       string
	LastServiceDate *time.Time
	DayConstraint   string
	TimeConstraint  string
	Priority        int
	Notes           string
	OfficeNotes     string
	ManifestCounty  string
	IsActive        bool
}

type Store interface {
	List(ctx context.Context, jobSiteID uuid.UUID, includeInactive bool) ([]Service, error)
	Get(ctx context.Context, id uuid.UUID) (Service, error)
	Create(ctx context.Context, svc Service) (Service, error)
	Update(ctx context.Context, svc Service) (Service, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateByJobSite(ctx context.Context, jobSiteID uuid.UUID) (int, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `
	rs.id, rs.job_site_id, js.name, rs.service_type, rs.frequency,
	rs.last_service_date, rs.day_constraint, rs.time_constraint, rs.priority,
	rs.notes, rs.office_notes, rs.manifest_county, rs.is_active`

func scan(row pgx.Row) (Service, error) {
	var svc Service
	err := row.Scan(
		&svc.ID, &svc.JobSiteID, &svc.JobSiteName, &svc.ServiceType, &svc.Frequency,
		&svc.LastServiceDate, &svc.DayConstraint, &svc.TimeConstraint, &svc.Priority,
		&svc.Notes, &svc.OfficeNotes, &svc.ManifestCounty, &svc.IsActive,
	)
	return svc, err
}

func (r *Repository) List(ctx context.Context, jobSiteID uuid.UUID, includeInactive bool) ([]Service, error) {
	query := `
		SELECT` + columns + `
		FROM recurring_services rs
		JOIN job_sites js ON js.id = rs.job_site_id`
	var args []any
	where := ""
	if jobSiteID != uuid.Nil {
		args = append(args, jobSiteID)
		where = ` WHERE rs.job_site_id = $1`
	}
	if !includeInactive {
		if where == "" {
			where = ` WHERE rs.is_active`
		} else {
			where += ` AND rs.is_active`
		}
	}
	query += where + ` ORDER BY js.name, rs.service_type`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recurring services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		svc, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring service: %w", err)
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Service, error) {
	svc, err := scan(r.pool.QueryRow(ctx, `
		SELECT`+columns+`
		FROM recurring_services rs
		JOIN job_sites js ON js.id = rs.job_site_id
		WHERE rs.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, apperr.NotFound("recurring service not found")
	}
	if err != nil {
		return Service{}, fmt.Errorf("get recurring service %s: %w", id, err)
	}
	return svc, nil
}

func (r *Repository) Create(ctx context.Context, svc Service) (Service, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO recurring_services (
			job_site_id, service_type, frequency, last_service_date,
			day_constraint, time_constraint, priority, notes, office_notes,
			manifest_county
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		svc.JobSiteID, svc.ServiceType, svc.Frequency, svc.LastServiceDate,
		svc.DayConstraint, svc.TimeConstraint, svc.Priority, svc.Notes,
		svc.OfficeNotes, svc.ManifestCounty).Scan(&id)
	if err != nil {
		return Service{}, fmt.Errorf("create recurring service: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, svc Service) (Service, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_services SET
			service_type = $2, frequency = $3, last_service_date = $4,
			day_constraint = $5, time_constraint = $6, priority = $7,
			notes = $8, office_notes = $9, manifest_county = $10,
			updated_at = now()
		WHERE id = $1`,
		svc.ID, svc.ServiceType, svc.Frequency, svc.LastServiceDate,
		svc.DayConstraint, svc.TimeConstraint, svc.Priority, svc.Notes,
		svc.OfficeNotes, svc.ManifestCounty)
	if err != nil {
		return Service{}, fmt.Errorf("update recurring service %s: %w", svc.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return Service{}, apperr.NotFound("recurring service not found")
	}
	return r.Get(ctx, svc.ID)
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_services SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate recurring service %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("recurring service not found")
	}
	return nil
}

func (r *Repository) DeactivateByJobSite(ctx context.Context, jobSiteID uuid.UUID) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE recurring_services SET is_active = FALSE, updated_at = now()
		WHERE job_site_id = $1 AND is_active`, jobSiteID)
	if err != nil {
		return 0, fmt.Errorf("deactivate services for job site %s: %w", jobSiteID, err)
	}
	return int(tag.RowsAffected()), nil
}
