package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/15palle/membership/internal/auth"
	"github.com/15palle/membership/pkg/db/transactor"
)

// RefreshTokenRepository stores long-lived session handles
type RefreshTokenRepository interface {
	Create(context.Context, *auth.RefreshToken) error
	FindByID(context.Context, string) (*auth.RefreshToken, error)
	FindTokensByUserID(context.Context, string) ([]*auth.RefreshToken, error)
	DeleteByID(context.Context, string) error
	DeleteByUserID(context.Context, string) error
}

const refreshTokenColumns = "id, user_id, email, name, role, fingerprint, expires_in, created_at"

type postgresRefreshTokenRepository struct {
	trx transactor.PgxTransactor
}

// NewPostgresRefreshTokenRepository builds refresh token repository on top of postgres
func NewPostgresRefreshTokenRepository(trx transactor.PgxTransactor) RefreshTokenRepository {
	return &postgresRefreshTokenRepository{trx: trx}
}

func (r *postgresRefreshTokenRepository) Create(ctx context.Context, t *auth.RefreshToken) error {
	q := `INSERT INTO refresh_tokens(` + refreshTokenColumns + `)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.trx.Executor(ctx).Exec(ctx, q, t.ID, t.UserID, t.Email, t.Name, t.Role, t.Fingerprint, t.ExpiresIn, t.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresRefreshTokenRepository) FindByID(ctx context.Context, id string) (*auth.RefreshToken, error) {
	q := "SELECT " + refreshTokenColumns + " FROM refresh_tokens WHERE id = $1"

	tkn, err := r.scanRow(r.trx.Executor(ctx).QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tkn, nil
}

func (r *postgresRefreshTokenRepository) FindTokensByUserID(ctx context.Context, userID string) ([]*auth.RefreshToken, error) {
	q := "SELECT " + refreshTokenColumns + " FROM refresh_tokens WHERE user_id = $1"

	rows, err := r.trx.Executor(ctx).Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]*auth.RefreshToken, 0)
	for rows.Next() {
		tkn, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tkn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *postgresRefreshTokenRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM refresh_tokens WHERE id = $1"
	if _, err := r.trx.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	q := "DELETE FROM refresh_tokens WHERE user_id = $1"
	if _, err := r.trx.Executor(ctx).Exec(ctx, q, userID); err != nil {
		return err
	}
	return nil
}

func (r *postgresRefreshTokenRepository) scanRow(row pgx.Row) (*auth.RefreshToken, error) {
	var tkn auth.RefreshToken
	err := row.Scan(&tkn.ID, &tkn.UserID, &tkn.Email, &tkn.Name, &tkn.Role, &tkn.Fingerprint, &tkn.ExpiresIn, &tkn.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &tkn, nil
}
