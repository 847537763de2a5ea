// Package cart owns the shopping cart of one session: its line items, the
// rules for changing them, and their persistence to a storage slot.
package cart

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

const (
	DefaultSlot   = "cart"
	RemovalPrompt = "Are you sure you want to remove this item?"

	// MaxQuantity bounds the quantity of a single line.
	MaxQuantity = 9999
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrQuantityLimit   = fmt.Errorf("%w and at most %d", ErrInvalidQuantity, MaxQuantity)
	ErrIndexOutOfRange = errors.New("cart index out of range")
)

// StepQuantity returns quantity moved by delta, clamped to [1, MaxQuantity].
func StepQuantity(quantity, delta int) int {
	quantity = min(max(quantity, 1), MaxQuantity)
	switch {
	case delta > MaxQuantity-quantity:
		return MaxQuantity
	case delta < 1-quantity:
		return 1
	}
	return quantity + delta
}

type Store struct {
	storage  port.SlotStorage
	slot     string
	logger   *zap.Logger
	metrics  *metrics.Metrics
	onChange func(domain.Cart)

	items []domain.CartItem
}

type Option func(*Store)

func WithSlot(name string) Option {
	return func(s *Store) { s.slot = name }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithChangeListener registers fn to run after initialization and after
// every mutation, e.g. to refresh the cart count indicator.
func WithChangeListener(fn func(domain.Cart)) Option {
	return func(s *Store) { s.onChange = fn }
}

func NewStore(storage port.SlotStorage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		slot:    DefaultSlot,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize replaces the in-memory cart with the persisted snapshot. A
// missing, unreadable or malformed snapshot yields an empty cart.
func (s *Store) Initialize(ctx context.Context) {
	s.items = nil

	raw, ok, err := s.storage.Get(ctx, s.slot)
	switch {
	case err != nil:
		s.logger.Warn("cart snapshot unreadable, starting empty", zap.String("slot", s.slot), zap.Error(err))
	case !ok:
		s.logger.Debug("no cart snapshot", zap.String("slot", s.slot))
	default:
		items, err := Decode(raw)
		if err != nil {
			s.logger.Warn("cart snapshot malformed, starting empty", zap.String("slot", s.slot), zap.Error(err))
			break
		}
		s.items = items
	}

	s.notify()
}

// AddItem adds quantity of product, merging into its existing line. A line
// never holds more than MaxQuantity; an add that would exceed it is rejected
// and leaves the cart unchanged.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	i := s.Cart().IndexOf(product.ID)
	held := 0
	if i >= 0 {
		held = s.items[i].Quantity
	}
	if quantity > MaxQuantity-held {
		return fmt.Errorf("%w: %d more of product %d", ErrQuantityLimit, quantity, product.ID)
	}

	if i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.NewCartItem(product, quantity))
	}

	return s.commit(ctx, "add")
}

// ChangeQuantity adds delta to the line at index. The quantity stays within
// [1, MaxQuantity]; removing a line is a separate operation.
func (s *Store) ChangeQuantity(ctx context.Context, index, delta int) error {
	if !s.valid(index) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	s.items[index].Quantity = StepQuantity(s.items[index].Quantity, delta)

	return s.commit(ctx, "quantity")
}

// RemoveItem deletes the line at index once confirmer agrees. It reports
// whether the line was removed.
func (s *Store) RemoveItem(ctx context.Context, index int, confirmer port.Confirmer) (bool, error) {
	if !s.valid(index) {
		return false, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	if !confirmer.Confirm(RemovalPrompt) {
		return false, nil
	}

	s.items = slices.Delete(s.items, index, index+1)

	return true, s.commit(ctx, "remove")
}

func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	return s.commit(ctx, "clear")
}

func (s *Store) ComputeTotals() domain.Totals {
	return s.Cart().Totals()
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	return domain.Cart{Items: slices.Clone(s.items)}
}

func (s *Store) Item(index int) (domain.CartItem, bool) {
	if !s.valid(index) {
		return domain.CartItem{}, false
	}
	return s.items[index], true
}

func (s *Store) Len() int {
	return len(s.items)
}

// Count is the value of the cart indicator: the number of lines.
func (s *Store) Count() int {
	return len(s.items)
}

func (s *Store) valid(index int) bool {
	return index >= 0 && index < len(s.items)
}

// commit persists the cart; the in-memory mutation is kept even when the
// write fails.
func (s *Store) commit(ctx context.Context, op string) error {
	s.metrics.CartMutation(op)
	defer s.notify()

	raw, err := Encode(s.items)
	if err != nil {
		return fmt.Errorf("Encode: %w", err)
	}

	if err := s.storage.Set(ctx, s.slot, raw); err != nil {
		s.logger.Error("cart not persisted", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("storage.Set: %w", err)
	}

	return nil
}

func (s *Store) notify() {
	if s.onChange != nil {
		s.onChange(s.Cart())
	}
}
