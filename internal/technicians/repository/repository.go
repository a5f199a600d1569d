// Package repository persists technicians.
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

// Technician is a field worker who performs scheduled services.
type Technician struct {
	ID       uuid.UUID
	Name     string
	Phone    string
	Email    string
	IsActive bool
}

// Store is the persistence surface for technicians.
type Store interface {
	List(ctx context.Context, includeInactive bool) ([]Technician, error)
	Get(ctx context.Context, id uuid.UUID) (Technician, error)
	Create(ctx context.Context, tech Technician) (Technician, error)
	Update(ctx context.Context, tech Technician) (Technician, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = ` id, name, phone, email, is_active`

func scan(row pgx.Row) (Technician, error) {
	var tech Technician
	err := row.Scan(&tech.ID, &tech.Name, &tech.Phone, &tech.Email, &tech.IsActive)
	return tech, err
}

func (r *Repository) List(ctx context.Context, includeInactive bool) ([]Technician, error) {
	query := `SELECT` + columns + ` FROM technicians`
	if !includeInactive {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list technicians: %w", err)
	}
	defer rows.Close()

	var techs []Technician
	for rows.Next() {
		tech, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan technician: %w", err)
		}
		techs = append(techs, tech)
	}
	return techs, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Technician, error) {
	tech, err := scan(r.pool.QueryRow(ctx, `SELECT`+columns+` FROM technicians WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Technician{}, apperr.NotFound("technician not found")
	}
	if err != nil {
		return Technician{}, fmt.Errorf("get technician %s: %w", id, err)
	}
	return tech, nil
}

func (r *Repository) Create(ctx context.Context, tech Technician) (Technician, error) {
	created, err := scan(r.pool.QueryRow(ctx, `
		INSERT INTO technicians (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING`+columns,
		tech.Name, tech.Phone, tech.Email))
	if err != nil {
		return Technician{}, fmt.Errorf("create technician: %w", err)
	}
	return created, nil
}

func (r *Repository) Update(ctx context.Context, tech Technician) (Technician, error) {
	updated, err := scan(r.pool.QueryRow(ctx, `
		UPDATE technicians SET
			name = $2, phone = $3, email = $4, is_active = $5, updated_at = now()
		WHERE id = $1
		RETURNING`+columns,
		tech.ID, tech.Name, tech.Phone, tech.Email, tech.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Technician{}, apperr.NotFound("technician not found")
	}
	if err != nil {
		return Technician{}, fmt.Errorf("update technician %s: %w", tech.ID, err)
	}
	return updated, nil
}

func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE technicians SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate technician %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("technician not found")
	}
	return nil
}
