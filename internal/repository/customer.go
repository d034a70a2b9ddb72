package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	errs "github.com/15palle/membership/internal/errors"
	"github.com/15palle/membership/internal/model"
)

const pgUniqueViolationCode = "23505"

// CustomerRepository is durable keyed storage of customer records. Find
// methods return nil customer when no record matches. FindAll preserves
// insertion order so directory sorting stays stable on createdAt ties.
type CustomerRepository interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, string) (*model.Customer, error)
	FindByEmail(context.Context, string) (*model.Customer, error)
	Create(context.Context, *model.Customer) error
	SetVerified(ctx context.Context, id string, verified bool, at *time.Time) (*model.Customer, error)
	SetNotes(ctx context.Context, id string, notes string) (*model.Customer, error)
	SeedIfEmpty(context.Context, []*model.Customer) error
}

const customerColumns = "id, name, email, phone, created_at, verified, verified_at, notes"

type postgresCustomerRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCustomerRepository builds customer repository on top of postgres
func NewPostgresCustomerRepository(p *pgxpool.Pool) CustomerRepository {
	return &postgresCustomerRepository{pool: p}
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers ORDER BY seq"

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]*model.Customer, 0)
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers WHERE id = $1"
	return r.findOne(ctx, q, id)
}

func (r *postgresCustomerRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	q := "SELECT " + customerColumns + " FROM customers WHERE email = $1"
	return r.findOne(ctx, q, email)
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := `INSERT INTO customers(id, name, email, phone, created_at, verified, verified_at, notes)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, q, c.ID, c.Name, c.Email, c.Phone, c.CreatedAt, c.Verified, c.VerifiedAt, c.Notes)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return errs.NewValidationErr("email", "email is already registered")
		}
		return err
	}
	return nil
}

// SetVerified flips the verification flag in a single statement, so two
// concurrent workflow calls cannot lose each other's writes
func (r *postgresCustomerRepository) SetVerified(ctx context.Context, id string, verified bool, at *time.Time) (*model.Customer, error) {
	q := `UPDATE customers SET verified = $2, verified_at = $3 WHERE id = $1
          RETURNING ` + customerColumns

	return r.findOne(ctx, q, id, verified, at)
}

func (r *postgresCustomerRepository) SetNotes(ctx context.Context, id string, notes string) (*model.Customer, error) {
	q := `UPDATE customers SET notes = $2 WHERE id = $1
          RETURNING ` + customerColumns

	return r.findOne(ctx, q, id, notes)
}

func (r *postgresCustomerRepository) SeedIfEmpty(ctx context.Context, seed []*model.Customer) error {
	var count int64
	if err := r.pool.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&count); err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	for _, c := range seed {
		if err := r.Create(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresCustomerRepository) findOne(ctx context.Context, q string, args ...any) (*model.Customer, error) {
	c, err := r.scanRow(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCustomerRepository) scanRow(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.Verified, &c.VerifiedAt, &c.Notes)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
