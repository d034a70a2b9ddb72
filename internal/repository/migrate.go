package repository

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"
)

// seq keeps insertion order observable, the directory relies on it for
// stable sorting
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS customers(
        seq         bigserial   NOT NULL,
        id          text        PRIMARY KEY,
        name        text        NOT NULL,
        email       text        NOT NULL UNIQUE,
        phone       text,
        created_at  timestamptz NOT NULL,
        verified    boolean     NOT NULL DEFAULT false,
        verified_at timestamptz,
        notes       text
    )`,
	`CREATE TABLE IF NOT EXISTS users(
        id            text PRIMARY KEY,
        email         text NOT NULL UNIQUE,
        password_hash text NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens(
        id          text        PRIMARY KEY,
        user_id     text        NOT NULL,
        email       text        NOT NULL,
        name        text        NOT NULL,
        role        text        NOT NULL,
        fingerprint text        NOT NULL,
        expires_in  integer     NOT NULL,
        created_at  timestamptz NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS refresh_tokens_user_id_idx ON refresh_tokens(user_id)`,
}

// MigratePostgres applies the schema idempotently at startup
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
