package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tuitionpay/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	// GetByToken returns (nil, nil) for unknown or expired tokens.
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}

type pgSessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) SessionRepository {
	return &pgSessionRepository{db: db}
}

func (r *pgSessionRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (token, customer_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query, s.Token, s.CustomerID, s.ExpiresAt).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("error executing insert session query: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT token, customer_id, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > NOW()
	`
	var s models.Session
	err := r.db.QueryRow(ctx, query, token).Scan(&s.Token, &s.CustomerID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error scanning session row: %w", err)
	}
	return &s, nil
}

func (r *pgSessionRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("error executing delete session query: %w", err)
	}
	return nil
}

func (r *pgSessionRepository) DeleteExpired(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`); err != nil {
		return fmt.Errorf("error executing delete expired sessions query: %w", err)
	}
	return nil
}
