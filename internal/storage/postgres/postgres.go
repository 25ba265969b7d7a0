// Package postgres stores expenses in a hosted PostgreSQL database through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"
)

var ErrDatabaseURLNotSet = errors.New("database url is not set")

// Amount and date are read back as text so decoding goes through the shared
// row coercion instead of driver-specific numeric types. Dates are stored as
// UTC midnight.
const selectColumns = `SELECT id, amount::text, description, category, (date AT TIME ZONE 'UTC')::date::text, payment_method, is_recurring FROM expenses`

type Repository struct {
	pool *pgxpool.Pool
}

var _ storage.Repository = (*Repository)(nil)

// Open migrates the schema and connects a pool to databaseURL.
func Open(ctx context.Context, databaseURL string) (*Repository, error) {
	if databaseURL == "" {
		return nil, ErrDatabaseURLNotSet
	}
	if err := RunMigrations(databaseURL); err != nil {
		return nil, err
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.pool.Query(ctx, selectColumns+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, id string) (core.Expense, error) {
	e, err := scan(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Expense{}, storage.ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row := storage.RowFromExpense(e)
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO expenses (id, amount, description, category, date, payment_method, is_recurring)
		VALUES ($1, $2::text::numeric, $3, $4, ($5::text::date)::timestamp AT TIME ZONE 'UTC', $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		row.ID, row.Amount, row.Description, row.Category, row.Date, row.PaymentMethod, row.IsRecurring)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Expense{}, fmt.Errorf("create %s: %w", e.ID, storage.ErrDuplicateID)
	}
	return e, nil
}

func (r *Repository) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row := storage.RowFromExpense(e)
	tag, err := r.pool.Exec(ctx, `
		UPDATE expenses
		SET amount = $2::text::numeric, description = $3, category = $4,
		    date = ($5::text::date)::timestamp AT TIME ZONE 'UTC', payment_method = $6, is_recurring = $7
		WHERE id = $1`,
		row.ID, row.Amount, row.Description, row.Category, row.Date, row.PaymentMethod, row.IsRecurring)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Expense{}, fmt.Errorf("update %s: %w", e.ID, storage.ErrNotFound)
	}
	return e, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// Ping reports whether the pool can reach the database.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scan(s pgx.Row) (core.Expense, error) {
	var row storage.Row
	if err := s.Scan(&row.ID, &row.Amount, &row.Description, &row.Category, &row.Date, &row.PaymentMethod, &row.IsRecurring); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	return row.Expense(), nil
}
