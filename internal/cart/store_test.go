package cart_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var (
	yes = port.ConfirmFunc(func(string) bool { return true })
	no  = port.ConfirmFunc(func(string) bool { return false })
)

func TestAddItem_SameProductMerges(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())
	store.Initialize(ctx)

	widget := domain.Product{ID: 1, Title: "Widget", Price: decimal.NewFromInt(20)}

	require.NoError(t, store.AddItem(ctx, widget, 2))
	require.NoError(t, store.AddItem(ctx, widget, 3))

	c := store.Cart()
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].ProductID)
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(store.ComputeTotals().Subtotal))
}

func TestAddItem_QuantitySums(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())

	product := randomProduct()
	other := randomProduct()
	other.ID = product.ID + 1

	want := 0
	for range gofakeit.IntRange(1, 20) {
		n := gofakeit.IntRange(1, 10)
		want += n
		require.NoError(t, store.AddItem(ctx, product, n))
		require.NoError(t, store.AddItem(ctx, other, 1))
	}

	c := store.Cart()
	require.Len(t, c.Items, 2)
	assert.Equal(t, product.ID, c.Items[0].ProductID, "insertion order is display order")
	assert.Equal(t, want, c.Items[0].Quantity)
}

func TestAddItem_SnapshotsProduct(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())

	product := randomProduct()
	product.Thumbnail = ""
	product.Images = []string{"https://cdn.example/a.png", "https://cdn.example/b.png"}

	require.NoError(t, store.AddItem(ctx, product, 1))

	item, ok := store.Item(0)
	require.True(t, ok)
	assert.Equal(t, product.Title, item.Title)
	assert.Equal(t, "https://cdn.example/a.png", item.Image)
	assert.True(t, product.Price.Equal(item.Price.Amount))
	assert.Equal(t, currency.USD, item.Price.Currency)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())

	for _, n := range []int{0, -1} {
		err := store.AddItem(ctx, randomProduct(), n)
		require.ErrorIs(t, err, cart.ErrInvalidQuantity)
	}
	assert.Zero(t, store.Len())
}

func TestAddItem_QuantityLimit(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()
	store := cart.NewStore(slots)
	product := randomProduct()

	require.NoError(t, store.AddItem(ctx, product, 1))

	err := store.AddItem(ctx, product, math.MaxInt)
	require.ErrorIs(t, err, cart.ErrQuantityLimit)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	err = store.AddItem(ctx, product, cart.MaxQuantity)
	require.ErrorIs(t, err, cart.ErrQuantityLimit)

	require.NoError(t, store.AddItem(ctx, product, cart.MaxQuantity-1))
	item, _ := store.Item(0)
	assert.Equal(t, cart.MaxQuantity, item.Quantity)

	reloaded := cart.NewStore(slots)
	reloaded.Initialize(ctx)
	require.Equal(t, 1, reloaded.Len(), "a full line survives a reload")
	item, _ = reloaded.Item(0)
	assert.Equal(t, cart.MaxQuantity, item.Quantity)
}

func TestStepQuantity(t *testing.T) {
	tests := []struct {
		name            string
		quantity, delta int
		want            int
	}{
		{name: "step up", quantity: 2, delta: 1, want: 3},
		{name: "step down", quantity: 2, delta: -1, want: 1},
		{name: "floor", quantity: 1, delta: -1, want: 1},
		{name: "ceiling", quantity: cart.MaxQuantity, delta: 1, want: cart.MaxQuantity},
		{name: "max int delta", quantity: 5, delta: math.MaxInt, want: cart.MaxQuantity},
		{name: "min int delta", quantity: 5, delta: math.MinInt, want: 1},
		{name: "max int quantity", quantity: math.MaxInt, delta: 1, want: cart.MaxQuantity},
		{name: "negative quantity", quantity: -7, delta: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cart.StepQuantity(tt.quantity, tt.delta))
		})
	}
}

func TestChangeQuantity(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		deltas    []int
		want      int
		wantError error
	}{
		{name: "increment", start: 1, deltas: []int{1, 1}, want: 3},
		{name: "decrement", start: 3, deltas: []int{-1}, want: 2},
		{name: "decrement at one floors", start: 1, deltas: []int{-1, -1, -1}, want: 1},
		{name: "large negative floors", start: 4, deltas: []int{-10}, want: 1},
		{name: "max int caps", start: 2, deltas: []int{math.MaxInt}, want: cart.MaxQuantity},
		{name: "min int floors", start: 2, deltas: []int{math.MinInt}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			store := cart.NewStore(repository.NewMemorySlots())
			require.NoError(t, store.AddItem(ctx, randomProduct(), tt.start))

			for _, d := range tt.deltas {
				require.NoError(t, store.ChangeQuantity(ctx, 0, d))
			}

			item, ok := store.Item(0)
			require.True(t, ok)
			assert.Equal(t, tt.want, item.Quantity)
			assert.Equal(t, 1, store.Len(), "decrement never removes")
		})
	}
}

func TestChangeQuantity_NeverBelowOne(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())
	require.NoError(t, store.AddItem(ctx, randomProduct(), gofakeit.IntRange(1, 5)))

	for range 100 {
		require.NoError(t, store.ChangeQuantity(ctx, 0, gofakeit.IntRange(-3, 1)))
		item, _ := store.Item(0)
		require.GreaterOrEqual(t, item.Quantity, 1)
	}
}

func TestChangeQuantity_IndexOutOfRange(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())
	require.NoError(t, store.AddItem(ctx, randomProduct(), 1))

	for _, index := range []int{-1, 1, 5} {
		err := store.ChangeQuantity(ctx, index, 1)
		require.ErrorIs(t, err, cart.ErrIndexOutOfRange)
	}
}

func TestRemoveItem(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()
	store := cart.NewStore(slots)

	first, second := randomProduct(), randomProduct()
	second.ID = first.ID + 1
	require.NoError(t, store.AddItem(ctx, first, 1))
	require.NoError(t, store.AddItem(ctx, second, 2))

	removed, err := store.RemoveItem(ctx, 0, no)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, store.Len())

	var asked string
	removed, err = store.RemoveItem(ctx, 0, port.ConfirmFunc(func(prompt string) bool {
		asked = prompt
		return true
	}))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, cart.RemovalPrompt, asked)

	c := store.Cart()
	require.Len(t, c.Items, 1)
	assert.Equal(t, second.ID, c.Items[0].ProductID)

	_, err = store.RemoveItem(ctx, 3, yes)
	require.ErrorIs(t, err, cart.ErrIndexOutOfRange)

	raw, ok, err := slots.Get(ctx, cart.DefaultSlot)
	require.NoError(t, err)
	require.True(t, ok)
	persisted, err := cart.Decode(raw)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		stored  *string
		wantLen int
	}{
		{name: "absent slot", stored: nil, wantLen: 0},
		{name: "invalid json", stored: ptr("{not json"), wantLen: 0},
		{name: "wrong shape", stored: ptr(`{"id":1}`), wantLen: 0},
		{name: "zero quantity", stored: ptr(`[{"id":1,"title":"x","price":1,"image":"","quantity":0}]`), wantLen: 0},
		{name: "empty string", stored: ptr(""), wantLen: 0},
		{name: "null", stored: ptr("null"), wantLen: 0},
		{
			name:    "browser snapshot",
			stored:  ptr(`[{"id":1,"title":"Widget","price":9.99,"image":"https://cdn/1.png","quantity":2},{"id":2,"title":"Gadget","price":20,"image":"","quantity":1}]`),
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			slots := repository.NewMemorySlots()
			if tt.stored != nil {
				require.NoError(t, slots.Set(ctx, cart.DefaultSlot, *tt.stored))
			}

			var counted []int
			store := cart.NewStore(slots, cart.WithChangeListener(func(c domain.Cart) {
				counted = append(counted, len(c.Items))
			}))

			assert.NotPanics(t, func() { store.Initialize(ctx) })
			assert.Equal(t, tt.wantLen, store.Len())
			assert.Equal(t, []int{tt.wantLen}, counted, "indicator refreshed once")
		})
	}
}

func TestInitialize_StorageError(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(failingSlots{})

	store.Initialize(ctx)
	assert.Zero(t, store.Len())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()

	store := cart.NewStore(slots, cart.WithSlot("session-1:cart"))
	for i := range 5 {
		p := randomProduct()
		p.ID = i + 1
		require.NoError(t, store.AddItem(ctx, p, gofakeit.IntRange(1, 4)))
	}
	require.NoError(t, store.ChangeQuantity(ctx, 2, 1))

	reloaded := cart.NewStore(slots, cart.WithSlot("session-1:cart"))
	reloaded.Initialize(ctx)

	diff := cmp.Diff(store.Cart(), reloaded.Cart(), moneyComparer())
	assert.Empty(t, diff)
}

func TestMutation_PersistFailureKeepsState(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(failingSlots{})

	err := store.AddItem(ctx, randomProduct(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, store.Len())
}

func TestClear(t *testing.T) {
	ctx := t.Context()
	slots := repository.NewMemorySlots()
	store := cart.NewStore(slots)
	require.NoError(t, store.AddItem(ctx, randomProduct(), 1))

	require.NoError(t, store.Clear(ctx))
	assert.Zero(t, store.Count())

	raw, _, err := slots.Get(ctx, cart.DefaultSlot)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestCart_ReturnsCopy(t *testing.T) {
	ctx := t.Context()
	store := cart.NewStore(repository.NewMemorySlots())
	require.NoError(t, store.AddItem(ctx, randomProduct(), 1))

	c := store.Cart()
	c.Items[0].Quantity = 99

	item, _ := store.Item(0)
	assert.Equal(t, 1, item.Quantity)
}

var errStorage = errors.New("storage down")

type failingSlots struct{}

func (failingSlots) Get(context.Context, string) (string, bool, error) { return "", false, errStorage }
func (failingSlots) Set(context.Context, string, string) error         { return errStorage }

func randomProduct() domain.Product {
	return domain.Product{
		ID:          gofakeit.IntRange(1, 1000),
		Title:       gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price:       decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Rating:      decimal.NewFromFloat(gofakeit.Float64Range(0, 5)).Round(2),
		Stock:       gofakeit.IntRange(0, 200),
		Category:    gofakeit.ProductCategory(),
		Thumbnail:   gofakeit.URL(),
	}
}

func moneyComparer() cmp.Options {
	return cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
	}
}

func ptr[T any](v T) *T {
	return &v
}
