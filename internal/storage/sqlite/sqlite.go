// Package sqlite stores expenses in a local SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expense-tracker/internal/core"
	"expense-tracker/internal/storage"

	_ "modernc.org/sqlite"
)

const selectColumns = `SELECT id, amount, description, category, date, payment_method, is_recurring FROM expenses`

type Repository struct {
	db *sql.DB
}

var _ storage.Repository = (*Repository)(nil)

// Open creates the database directory if needed, applies migrations and
// returns a ready repository.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` ORDER BY rowid`)
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
	e, err := scan(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, storage.ErrNotFound
	}
	return e, err
}

func (r *Repository) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row := storage.RowFromExpense(e)
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (id, amount, description, category, date, payment_method, is_recurring)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		row.ID, row.Amount, row.Description, row.Category, row.Date, row.PaymentMethod, row.IsRecurring)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}
	if n, err := affected(res); err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	} else if n == 0 {
		return core.Expense{}, fmt.Errorf("create %s: %w", e.ID, storage.ErrDuplicateID)
	}
	slog.DebugContext(ctx, "Expense saved to SQLite", "id", e.ID, "amount", row.Amount)
	return e, nil
}

func (r *Repository) Update(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	row := storage.RowFromExpense(e)
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET amount = ?, description = ?, category = ?, date = ?, payment_method = ?, is_recurring = ?
		WHERE id = ?`,
		row.Amount, row.Description, row.Category, row.Date, row.PaymentMethod, row.IsRecurring, row.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	if n, err := affected(res); err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	} else if n == 0 {
		return core.Expense{}, fmt.Errorf("update %s: %w", e.ID, storage.ErrNotFound)
	}
	return e, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if n, err := affected(res); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	} else if n == 0 {
		return fmt.Errorf("delete %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

// affected reports the rows changed by res. A driver error is returned rather
// than read as zero rows, which would look like a duplicate or missing id.
func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (core.Expense, error) {
	var row storage.Row
	if err := s.Scan(&row.ID, &row.Amount, &row.Description, &row.Category, &row.Date, &row.PaymentMethod, &row.IsRecurring); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	return row.Expense(), nil
}
