package repository

import (
	"context"

	"github.com/nikolayk812/storefront/internal/port"
)

type scopedSlots struct {
	base  port.SlotStorage
	scope string
}

// Scoped namespaces every slot name with scope, so one backend can hold the
// slots of many browser sessions.
func Scoped(base port.SlotStorage, scope string) port.SlotStorage {
	return &scopedSlots{base: base, scope: scope}
}

func (s *scopedSlots) Get(ctx context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptyName
	}
	return s.base.Get(ctx, s.key(name))
}

func (s *scopedSlots) Set(ctx context.Context, name, value string) error {
	if name == "" {
		return ErrEmptyName
	}
	return s.base.Set(ctx, s.key(name), value)
}

func (s *scopedSlots) key(name string) string {
	if s.scope == "" {
		return name
	}
	return s.scope + ":" + name
}
