package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
	"github.com/15palle/membership/pkg/db/transactor"
)

// UserRepository stores login credentials. Find methods return nil user
// when no record matches.
type UserRepository interface {
	Create(context.Context, *model.User) error
	FindByEmail(context.Context, string) (*model.User, error)
	FindByID(context.Context, string) (*model.User, error)
}

type postgresUserRepository struct {
	trx transactor.PgxTransactor
}

// NewPostgresUserRepository builds user repository on top of postgres
func NewPostgresUserRepository(trx transactor.PgxTransactor) UserRepository {
	return &postgresUserRepository{trx: trx}
}

func (r *postgresUserRepository) Create(ctx context.Context, u *model.User) error {
	q := "INSERT INTO users(id, email, password_hash) VALUES($1, $2, $3)"
	if _, err := r.trx.Executor(ctx).Exec(ctx, q, u.ID, u.Email, u.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return errs.NewValidationErr("email", "account already exists")
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := "SELECT id, email, password_hash FROM users WHERE email = $1"
	return r.findOne(ctx, q, email)
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := "SELECT id, email, password_hash FROM users WHERE id = $1"
	return r.findOne(ctx, q, id)
}

func (r *postgresUserRepository) findOne(ctx context.Context, q string, arg any) (*model.User, error) {
	var u model.User
	if err := r.trx.Executor(ctx).QueryRow(ctx, q, arg).Scan(&u.ID, &u.Email, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
