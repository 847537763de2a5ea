package repository

import (
	"context"
	"sync"

	"github.com/nikolayk812/storefront/internal/port"
)

type memorySlots struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemorySlots() port.SlotStorage {
	return &memorySlots{slots: make(map[string]string)}
}

func (m *memorySlots) Get(_ context.Context, name string) (string, bool, error) {
	if name == "" {
		return "", false, ErrEmptyName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.slots[name]
	return value, ok, nil
}

func (m *memorySlots) Set(_ context.Context, name, value string) error {
	if name == "" {
		return ErrEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[name] = value
	return nil
}
