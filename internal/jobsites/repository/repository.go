// Package repository persists job sites.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldservice_backend/platform/apperr"
)

// JobSite is a customer location that receives recurring services.
type JobSite struct {
	ID            uuid.UUID
	Name          string
	StreetNumber  string
	StreetAddress string
	City          string
	ZipCode       string
	County        string
	ContactName   string
	ContactPhone  string
	Latitude      *float64
	Longitude     *float64
	IsActive      bool
}

// Store is the persistence surface for job sites.
type Store interface {
	List(ctx context.Context, includeInactive bool) ([]JobSite, error)
	Get(ctx context.Context, id uuid.UUID) (JobSite, error)
	Create(ctx context.Context, site JobSite) (JobSite, error)
	Update(ctx context.Context, site JobSite) (JobSite, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `
	id, name, street_number, street_address, city, zip_code, county,
	contact_name, contact_phone, latitude, longitude, is_active`

func scan(row pgx.Row) (JobSite, error) {
	var js JobSite
	err := row.Scan(
		&js.ID, &js.Name, &js.StreetNumber, &js.StreetAddress, &js.City,
		&js.ZipCode, &js.County, &js.ContactName, &js.ContactPhone,
		&js.Latitude, &js.Longitude, &js.IsActive,
	)
	return js, err
}

func (r *Repository) List(ctx context.Context, includeInactive bool) ([]JobSite, error) {
	query := `SELECT` + columns + ` FROM job_sites`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list job sites: %w", err)
	}
	defer rows.Close()

	var sites []JobSite
	for rows.Next() {
		js, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job site: %w", err)
		}
		sites = append(sites, js)
	}
	return sites, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (JobSite, error) {
	js, err := scan(r.pool.QueryRow(ctx, `SELECT`+columns+` FROM job_sites WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return JobSite{}, apperr.NotFound("job site not found")
	}
	if err != nil {
		return JobSite{}, fmt.Errorf("get job site %s: %w", id, err)
	}
	return js, nil
}

func (r *Repository) Create(ctx context.Context, site JobSite) (JobSite, error) {
	js, err := scan(r.pool.QueryRow(ctx, `
		INSERT INTO job_sites (
			name, street_number, street_address, city, zip_code, county,
			contact_name, contact_phone, latitude, longitude
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING`+columns,
		site.Name, site.StreetNumber, site.StreetAddress, site.City, site.ZipCode,
		site.County, site.ContactName, site.ContactPhone, site.Latitude, site.Longitude))
	if err != nil {
		return JobSite{}, fmt.Errorf("create job site: %w", err)
	}
	return js, nil
}

func (r *Repository) Update(ctx context.Context, site JobSite) (JobSite, error) {
	js, err := scan(r.pool.QueryRow(ctx, `
		UPDATE job_sites SET
			name = $2, street_number = $3, street_address = $4, city = $5,
			zip_code = $6, county = $7, contact_name = $8, contact_phone = $9,
			latitude = $10, longitude = $11, updated_at = now()
		WHERE id = $1
		RETURNING`+columns,
		site.ID, site.Name, site.StreetNumber, site.StreetAddress, site.City,
		site.ZipCode, site.County, site.ContactName, site.ContactPhone,
		site.Latitude, site.Longitude))
	if errors.Is(err, pgx.ErrNoRows) {
		return JobSite{}, apperr.NotFound("job site not found")
	}
	if err != nil {
		return JobSite{}, fmt.Errorf("update job site %s: %w", site.ID, err)
	}
	return js, nil
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE job_sites SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate job site %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("job site not found")
	}
	return nil
}
