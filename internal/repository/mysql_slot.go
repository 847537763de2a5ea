package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
)

const (
	mysqlGetSlot    = `SELECT value FROM storage_slots WHERE name = ?`
	mysqlUpsertSlot = `INSERT INTO storage_slots (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)`
)

type mysqlSlots struct {
	db *sql.DB
}

// NewMySQLSlots expects a handle opened with the "mysql" driver and the
// storage_slots table from migrations/mysql.
func NewMySQLSlots(db *sql.DB) port.SlotStorage {
	return &mysqlSlots{db: db}
}

func (r *mysqlSlots) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptyName
	}

	var value string
	err := r.db.QueryRowContext(ctx, mysqlGetSlot, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.QueryRowContext: %w", err)
	}

	return value, true, nil
}

func (r *mysqlSlots) Set(ctx context.Context, name, value string) error {
	if name == "" {
		return ErrEmptyName
	}

	if _, err := r.db.ExecContext(ctx, mysqlUpsertSlot, name, value); err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}
