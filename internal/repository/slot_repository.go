package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Transactional is storage that can run several reads and writes as one
// transaction.
type Transactional interface {
	// InTx runs fn against storage bound to a single transaction, committed
	// when fn returns nil and rolled back otherwise.
	InTx(ctx context.Context, fn func(port.SlotStorage) error) error
}

type slotRepository struct {
	q      *db.Queries
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewSlots(pool *pgxpool.Pool, logger *zap.Logger) port.SlotStorage {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &slotRepository{
		q:      db.New(pool),
		pool:   pool,
		logger: logger,
	}
}

func NewSlotsWithTx(tx pgx.Tx) port.SlotStorage {
	return &slotRepository{
		q:      db.New(tx),
		pool:   nil, // use provided transaction instead
		logger: zap.NewNop(),
	}
}

func (r *slotRepository) InTx(ctx context.Context, fn func(port.SlotStorage) error) error {
	// already inside a caller-owned transaction
	if r.pool == nil {
		return fn(r)
	}

	return runTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewSlotsWithTx(tx))
	})
}

func (r *slotRepository) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptyName
	}

	value, err := r.q.GetSlot(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetSlot: %w", err)
	}

	return value, true, nil
}

func (r *slotRepository) Set(ctx context.Context, name, value string) error {
	if name == "" {
		return ErrEmptyName
	}

	revision, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (int64, error) {
		return q.UpsertSlot(ctx, db.UpsertSlotParams{
			Name:  name,
			Value: value,
		})
	})
	if err != nil {
		return fmt.Errorf("q.UpsertSlot: %w", err)
	}

	r.logger.Debug("slot written", zap.String("name", name), zap.Int64("revision", revision))

	return nil
}
