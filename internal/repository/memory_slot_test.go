package repository_test

import (
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlots(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()

	_, ok, err := slots.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, slots.Set(ctx, "cart", "[]"))
	got, ok, err := slots.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", got)

	require.ErrorIs(t, slots.Set(ctx, "", "x"), repository.ErrEmptyName)
	_, _, err = slots.Get(ctx, "")
	require.ErrorIs(t, err, repository.ErrEmptyName)
}

func TestMemorySlots_Concurrent(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := gofakeit.UUID()
			assert.NoError(t, slots.Set(ctx, name, gofakeit.Word()))
			_, ok, err := slots.Get(ctx, name)
			assert.NoError(t, err)
			assert.True(t, ok, "iteration %d", i)
		}()
	}
	wg.Wait()
}

func TestScoped(t *testing.T) {
	ctx := t.Context()
	base := repository.NewMemorySlots()

	alice := repository.Scoped(base, "alice")
	bob := repository.Scoped(base, "bob")

	require.NoError(t, alice.Set(ctx, "cart", "a"))
	require.NoError(t, bob.Set(ctx, "cart", "b"))

	got, ok, err := alice.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", got)

	got, ok, err = base.Get(ctx, "bob:cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	_, ok, err = base.Get(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	unscoped := repository.Scoped(base, "")
	require.NoError(t, unscoped.Set(ctx, "cart", "plain"))
	got, _, err = base.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, "plain", got)

	require.ErrorIs(t, alice.Set(ctx, "", "x"), repository.ErrEmptyName)
}
