// Package service implements operator authentication.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fieldservice_backend/internal/auth/repository"
	"fieldservice_backend/platform/apperr"
	"fieldservice_backend/platform/config"
	"fieldservice_backend/platform/logger"
)

type Service struct {
	repo repository.Store
	cfg  config.AuthServiceConfig
	log  *logger.Logger
}

func New(repo repository.Store, cfg config.AuthServiceConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Session is an issued access token plus the operator it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Operator  repository.Operator
}

// Login verifies credentials and issues an access token. Failures are
// reported uniformly so the response does not leak which part was wrong.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	op, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return Session{}, apperr.Unauthorized("invalid credentials")
	}
	if !op.IsActive {
		s.log.AuthEvent("login", email, false, "inactive operator")
		return Session{}, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return Session{}, apperr.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  op.ID.String(),
		"name": op.Name,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return Session{}, fmt.Errorf("sign access token: %w", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return Session{Token: signed, ExpiresAt: expiresAt, Operator: op}, nil
}

// Me returns the operator behind an authenticated request.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (repository.Operator, error) {
	return s.repo.GetByID(ctx, id)
}
