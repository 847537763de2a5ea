// Package catalog fetches the product catalog once per session and serves
// the sampled, filtered and searched views the storefront renders.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLimit       = 100
	DefaultCategories  = 12
	DefaultConcurrency = 12
	PlaceholderImage   = "https://placehold.co/150x150/png"
)

var (
	ErrNotLoaded       = errors.New("catalog not loaded")
	ErrProductNotFound = errors.New("product not found")
)

// Snapshot is the catalog as fetched; it is not modified after a load.
type Snapshot struct {
	Products   []domain.Product
	Categories []domain.Category
}

type Cache struct {
	source      port.CatalogSource
	limit       int
	categories  int
	concurrency int
	logger      *zap.Logger
	metrics     *metrics.Metrics
	shuffle     func(n int, swap func(i, j int))

	mu       sync.RWMutex
	snapshot Snapshot
	loaded   bool
	lastErr  error
	cards    []domain.CategoryCard
}

type Option func(*Cache)

func WithLimit(n int) Option {
	return func(c *Cache) { c.limit = n }
}

func WithCategoryCount(n int) Option {
	return func(c *Cache) { c.categories = n }
}

func WithLookupConcurrency(n int) Option {
	return func(c *Cache) { c.concurrency = n }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func NewCache(source port.CatalogSource, opts ...Option) *Cache {
	c := &Cache{
		source:      source,
		limit:       DefaultLimit,
		categories:  DefaultCategories,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
		shuffle:     rand.Shuffle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches products and categories. A product failure leaves the
// previous snapshot in place and is returned; a category failure keeps the
// fresh products with the previous categories and is only logged.
func (c *Cache) Load(ctx context.Context) error {
	var (
		products             []domain.Product
		categories           []domain.Category
		productErr, catError error
	)

	var g errgroup.Group
	g.Go(func() error {
		products, productErr = c.source.Products(ctx, c.limit)
		return nil
	})
	g.Go(func() error {
		categories, catError = c.source.Categories(ctx)
		return nil
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if productErr != nil {
		c.lastErr = productErr
		c.metrics.CatalogLoad(false)
		c.logger.Error("catalog load failed", zap.Error(productErr))
		return fmt.Errorf("source.Products: %w", productErr)
	}

	if catError != nil {
		c.logger.Warn("categories load failed", zap.Error(catError))
		categories = c.snapshot.Categories
	}

	c.snapshot = Snapshot{Products: products, Categories: categories}
	c.loaded = true
	c.lastErr = nil
	c.cards = nil
	c.metrics.CatalogLoad(true)

	c.logger.Info("catalog loaded",
		zap.Int("products", len(products)),
		zap.Int("categories", len(categories)))

	return nil
}

func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LastError is the error of the most recent failed load, or nil once a load
// succeeds.
func (c *Cache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Cache) Product(id int) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return domain.Product{}, ErrNotLoaded
	}

	i := slices.IndexFunc(c.snapshot.Products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, id)
	}

	return c.snapshot.Products[i], nil
}

// SampleFeatured returns up to n products in random order.
func (c *Cache) SampleFeatured(n int) []domain.Product {
	return c.Classify(nil, n)
}

// Classify returns up to n random products matching pred; a nil pred
// matches everything.
func (c *Cache) Classify(pred func(domain.Product) bool, n int) []domain.Product {
	c.mu.RLock()
	var pool []domain.Product
	for _, p := range c.snapshot.Products {
		if pred == nil || pred(p) {
			pool = append(pool, p)
		}
	}
	c.mu.RUnlock()

	return c.sample(pool, n)
}

func (c *Cache) Classifications(n int) []Row {
	rows := make([]Row, 0, len(Classifications))
	for _, cl := range Classifications {
		rows = append(rows, Row{
			Classification: cl,
			Products:       c.Classify(cl.Match, n),
		})
	}
	return rows
}

// Search matches query case-insensitively against title, description and
// category. A blank query matches nothing.
func (c *Cache) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []domain.Product
	for _, p := range c.snapshot.Products {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query) ||
			strings.Contains(strings.ToLower(p.Category), query) {
			results = append(results, p)
		}
	}

	return results
}

// CategoryCards annotates the leading categories with the image of their
// first product. Lookups run concurrently; a failed lookup gets the
// placeholder image and never fails the set.
func (c *Cache) CategoryCards(ctx context.Context) []domain.CategoryCard {
	c.mu.RLock()
	if c.cards != nil {
		cards := slices.Clone(c.cards)
		c.mu.RUnlock()
		return cards
	}
	categories := c.snapshot.Categories
	c.mu.RUnlock()

	categories = categories[:min(len(categories), c.categories)]
	cards := make([]domain.CategoryCard, len(categories))

	var g errgroup.Group
	g.SetLimit(c.concurrency)

	for i, category := range categories {
		g.Go(func() error {
			cards[i] = domain.CategoryCard{Category: category, Image: c.categoryImage(ctx, category)}
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() == nil && len(cards) > 0 {
		c.mu.Lock()
		c.cards = slices.Clone(cards)
		c.mu.Unlock()
	}

	return cards
}

func (c *Cache) categoryImage(ctx context.Context, category domain.Category) string {
	product, ok, err := c.source.FirstInCategory(ctx, category.Slug)
	if err != nil {
		c.metrics.CategoryFallback()
		c.logger.Debug("category image lookup failed", zap.String("slug", category.Slug), zap.Error(err))
		return PlaceholderImage
	}

	if image := product.Image(); ok && image != "" {
		return image
	}

	c.metrics.CategoryFallback()
	return PlaceholderImage
}

func (c *Cache) sample(pool []domain.Product, n int) []domain.Product {
	if n <= 0 || len(pool) == 0 {
		return nil
	}

	c.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	return pool[:min(n, len(pool))]
}
