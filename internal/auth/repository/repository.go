// Package repository persists operator accounts.
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

// Operator is a back-office user who manages the schedule.
type Operator struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
}

type Store interface {
	GetByEmail(ctx context.Context, email string) (Operator, error)
	GetByID(ctx context.Context, id uuid.UUID) (Operator, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

var _ Store = (*Repository)(nil)

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const columns = `id, email, password_hash, name, is_active`

func scan(row pgx.Row) (Operator, error) {
	var op Operator
	err := row.Scan(&op.ID, &op.Email, &op.PasswordHash, &op.Name, &op.IsActive)
	return op, err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Operator, error) {
	op, err := scan(r.pool.QueryRow(ctx, `
		SELECT `+columns+` FROM operators WHERE lower(email) = lower($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return Operator{}, apperr.NotFound("operator not found")
	}
	if err != nil {
		return Operator{}, fmt.Errorf("get operator by email: %w", err)
	}
	return op, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Operator, error) {
	op, err := scan(r.pool.QueryRow(ctx, `
		SELECT `+columns+` FROM operators WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Operator{}, apperr.NotFound("operator not found")
	}
	if err != nil {
		return Operator{}, fmt.Errorf("get operator %s: %w", id, err)
	}
	return op, nil
}
