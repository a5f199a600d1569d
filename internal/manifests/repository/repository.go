// Package repository reads the compliance manifest ledger.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one manifest record.
type Entry struct {
	ID            uuid.UUID
	JobSiteName   string
	Address       string
	ServiceType   string
	DateCompleted time.Time
	Quarter       string
	County        string
}

// Filter narrows a manifest query. Zero values mean no constraint.
type Filter struct {
	Quarter string
	County  string
}

type Store interface {
	List(ctx context.Context, f Filter) ([]Entry, error)
	Quarters(ctx context.Context) ([]string, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, f Filter) ([]Entry, error) {
	var conds []string
	var args []any
	if f.Quarter != "" {
		args = append(args, f.Quarter)
		conds = append(conds, fmt.Sprintf("quarter = $%d", len(args)))
	}
	if f.County != "" {
		args = append(args, f.County)
		conds = append(conds, fmt.Sprintf("county = $%d", len(args)))
	}

	query := `
		SELECT id, job_site_name, address, service_type, date_completed, quarter, county
		FROM manifest_entries`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date_completed, job_site_name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list manifest entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.JobSiteName, &e.Address, &e.ServiceType,
			&e.DateCompleted, &e.Quarter, &e.County); err != nil {
			return nil, fmt.Errorf("scan manifest entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *Repository) Quarters(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT quarter FROM manifest_entries
		ORDER BY quarter DESC`)
	if err != nil {
		return nil, fmt.Errorf("list manifest quarters: %w", err)
	}
	defer rows.Close()

	var quarters []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan quarter: %w", err)
		}
		quarters = append(quarters, q)
	}
	return quarters, rows.Err()
}
