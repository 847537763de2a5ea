package port

import "context"

// SlotStorage is a durable string store keyed by slot name.
type SlotStorage interface {
	// Get returns false when the slot has never been written.
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
}
