package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cantiere/internal/core"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteLedger is the durable ledger store: one long-lived connection to a
// single expenses table, acquired at startup and released once at shutdown.
type SQLiteLedger struct {
	db *sql.DB
}

func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, storeErr("open", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, storeErr("ping", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, storeErr("migrate", err)
	}

	return &SQLiteLedger{db: db}, nil
}

func (l *SQLiteLedger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Add inserts a new row and returns the store-assigned id. Business rules
// such as paid vs total are deliberately not checked at this layer; the
// entry builder owns them.
func (l *SQLiteLedger) Add(ctx context.Context, r core.Record) (int64, error) {
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO expenses (date, category, description, total_amount, paid_amount, quantity, paid_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Date.String(),
		r.Category,
		r.Description,
		r.TotalAmount.InexactFloat64(),
		r.PaidAmount.InexactFloat64(),
		r.Quantity,
		r.PaidBy,
	)
	if err != nil {
		return 0, storeErr("add", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr("add", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"category", r.Category,
		"total_amount", r.TotalAmount.String(),
		"paid_amount", r.PaidAmount.String())

	return id, nil
}

// Delete removes the row with the given id. A missing id is a no-op, not an
// error.
func (l *SQLiteLedger) Delete(ctx context.Context, id int64) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return storeErr("delete", err)
	}
	return nil
}

// FetchAll returns every record in insertion order, dates normalized to
// core.Date. An empty table yields an empty, non-nil slice.
func (l *SQLiteLedger) FetchAll(ctx context.Context) ([]core.Record, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, date, category, description, total_amount, paid_amount, quantity, COALESCE(paid_by, '')
		FROM expenses
		ORDER BY id`)
	if err != nil {
		return nil, storeErr("fetch", err)
	}
	defer rows.Close()

	out := make([]core.Record, 0)
	for rows.Next() {
		var (
			r           core.Record
			dateText    string
			total, paid float64
		)
		if err := rows.Scan(&r.ID, &dateText, &r.Category, &r.Description, &total, &paid, &r.Quantity, &r.PaidBy); err != nil {
			return nil, storeErr("fetch", err)
		}
		date, err := core.ParseDate(dateText)
		if err != nil {
			return nil, storeErr("fetch", fmt.Errorf("row %d: %w", r.ID, err))
		}
		r.Date = date
		r.TotalAmount = decimal.NewFromFloat(total)
		r.PaidAmount = decimal.NewFromFloat(paid)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("fetch", err)
	}

	return out, nil
}
