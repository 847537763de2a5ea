// Package storefront holds the state of one shopping session and applies the
// actions its pages emit.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/countdown"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/render"
	"github.com/nikolayk812/storefront/internal/router"
	"go.uber.org/zap"
)

const (
	MessageAdded      = "Product added to cart!"
	MessageWishlist   = "Added to wishlist!"
	MessageCheckout   = "Proceeding to checkout..."
	MessageNotSaved   = "Your cart could not be saved."
	DefaultFeatured   = 9
	DefaultPerRow     = 3
	DefaultCountdown  = countdown.DefaultRemaining
	defaultTickPeriod = time.Second
)

type Config struct {
	Storage port.SlotStorage
	Source  port.CatalogSource
	Surface port.Surface
	History port.History
	Views   *render.Renderer
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Slot              string
	CatalogLimit      int
	CategoryCount     int
	LookupConcurrency int
	Featured          int
	PerClassification int
	Countdown         time.Duration
	TickInterval      time.Duration
}

// App is not safe for concurrent use; callers serialize access per session.
type App struct {
	store   *cart.Store
	catalog *catalog.Cache
	router  *router.Router
	views   *render.Renderer
	timer   *countdown.Timer
	surface port.Surface
	logger  *zap.Logger

	featured int
	perRow   int

	searching bool
	query     string
}

func New(cfg Config) (*App, error) {
	switch {
	case cfg.Storage == nil:
		return nil, errors.New("storage is nil")
	case cfg.Source == nil:
		return nil, errors.New("catalog source is nil")
	case cfg.Surface == nil:
		return nil, errors.New("surface is nil")
	case cfg.History == nil:
		return nil, errors.New("history is nil")
	case cfg.Views == nil:
		return nil, errors.New("views are nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &App{
		views:    cfg.Views,
		surface:  cfg.Surface,
		logger:   logger,
		featured: orDefault(cfg.Featured, DefaultFeatured),
		perRow:   orDefault(cfg.PerClassification, DefaultPerRow),
	}

	storeOpts := []cart.Option{
		cart.WithLogger(logger),
		cart.WithMetrics(cfg.Metrics),
		cart.WithChangeListener(func(c domain.Cart) { cfg.Surface.SetCartCount(len(c.Items)) }),
	}
	if cfg.Slot != "" {
		storeOpts = append(storeOpts, cart.WithSlot(cfg.Slot))
	}
	a.store = cart.NewStore(cfg.Storage, storeOpts...)

	a.catalog = catalog.NewCache(cfg.Source,
		catalog.WithLimit(orDefault(cfg.CatalogLimit, catalog.DefaultLimit)),
		catalog.WithCategoryCount(orDefault(cfg.CategoryCount, catalog.DefaultCategories)),
		catalog.WithLookupConcurrency(orDefault(cfg.LookupConcurrency, catalog.DefaultConcurrency)),
		catalog.WithLogger(logger),
		catalog.WithMetrics(cfg.Metrics))

	remaining := cfg.Countdown
	if remaining == 0 {
		remaining = DefaultCountdown
	}
	tick := cfg.TickInterval
	if tick == 0 {
		tick = defaultTickPeriod
	}
	a.timer = countdown.New(remaining, countdown.WithInterval(tick))

	a.router = router.New(cfg.History, cfg.Surface, router.RendererFunc(a.renderPage), logger)

	return a, nil
}

// Start loads the persisted cart and the catalog, then shows the page named
// by the URL fragment. A catalog failure is rendered inline, not returned.
func (a *App) Start(ctx context.Context, fragment string) error {
	a.store.Initialize(ctx)

	if err := a.catalog.Load(ctx); err != nil {
		a.logger.Warn("catalog unavailable", zap.Error(err))
	}

	return a.router.Restore(ctx, fragment)
}

// Close stops the countdown. The App must not be used afterwards.
func (a *App) Close() {
	a.timer.Stop()
}

func (a *App) Page() domain.Page {
	return a.router.Current()
}

func (a *App) Query() string {
	if !a.searching {
		return ""
	}
	return a.query
}

func (a *App) Cart() domain.Cart {
	return a.store.Cart()
}

func (a *App) Countdown() time.Duration {
	return a.timer.Remaining()
}

// Navigate moves to page with a history entry. Going home drops an active
// search.
func (a *App) Navigate(ctx context.Context, page domain.Page) error {
	a.surface.CloseOverlay()
	if domain.ParsePage(string(page)) == domain.PageHome {
		a.searching, a.query = false, ""
	}
	return a.router.Navigate(ctx, page)
}

// PopState shows page as reached by back/forward navigation.
func (a *App) PopState(ctx context.Context, page domain.Page) error {
	return a.router.PopState(ctx, &router.State{Page: page})
}

// Search replaces the featured grid with the products matching query. A
// blank query restores the featured grid.
func (a *App) Search(ctx context.Context, query string) error {
	a.query = strings.TrimSpace(query)
	a.searching = a.query != ""
	return a.router.PopState(ctx, &router.State{Page: domain.PageHome})
}

func (a *App) Dispatch(ctx context.Context, action Action) error {
	switch action.Kind {
	case ActionView:
		p, err := a.catalog.Product(action.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.Product: %w", err)
		}
		return a.showProduct(p, 1)

	case ActionModalStep:
		p, err := a.catalog.Product(action.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.Product: %w", err)
		}
		return a.showProduct(p, cart.StepQuantity(action.Quantity, action.Delta))

	case ActionModalAdd:
		if err := a.add(ctx, action.ProductID, max(action.Quantity, 1)); err != nil {
			return err
		}
		a.surface.CloseOverlay()
		return nil

	case ActionAddToCart:
		if err := a.add(ctx, action.ProductID, 1); err != nil {
			return err
		}
		return a.Navigate(ctx, domain.PageCart)

	case ActionAddFeatured:
		if err := a.add(ctx, action.ProductID, 1); err != nil {
			return err
		}
		return a.router.PopState(ctx, &router.State{Page: domain.PageCart})

	case ActionWishlist:
		a.surface.ShowMessage(MessageWishlist, port.MessageInfo)
		return nil

	case ActionClose:
		a.surface.CloseOverlay()
		return nil

	case ActionCloseBanner:
		a.surface.HideBanner()
		return nil

	case ActionQuantity:
		if err := a.persisted(a.store.ChangeQuantity(ctx, action.Index, action.Delta)); err != nil {
			return err
		}
		return a.router.Refresh(ctx)

	case ActionRemove:
		removed, err := a.store.RemoveItem(ctx, action.Index, a.confirmer(action))
		if err := a.persisted(err); err != nil {
			return err
		}
		if !removed {
			return nil
		}
		a.surface.CloseOverlay()
		return a.router.Refresh(ctx)

	case ActionUpdate:
		return a.router.Refresh(ctx)

	case ActionCheckout:
		a.surface.ShowMessage(MessageCheckout, port.MessageInfo)
		return nil

	case ActionNavigate:
		return a.Navigate(ctx, action.Page)
	}

	return fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
}

func (a *App) add(ctx context.Context, productID, quantity int) error {
	p, err := a.catalog.Product(productID)
	if err != nil {
		return fmt.Errorf("catalog.Product: %w", err)
	}

	if err := a.persisted(a.store.AddItem(ctx, p, quantity)); err != nil {
		return err
	}

	a.surface.ShowMessage(MessageAdded, port.MessageSuccess)
	return nil
}

// persisted passes validation errors through. A failed write leaves the
// in-memory cart changed, so the session carries on with a warning.
func (a *App) persisted(err error) error {
	if err == nil || errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrIndexOutOfRange) {
		return err
	}

	a.surface.ShowMessage(MessageNotSaved, port.MessageWarning)
	return nil
}

func (a *App) confirmer(action Action) port.Confirmer {
	return port.ConfirmFunc(func(prompt string) bool {
		if action.Confirmed {
			return true
		}

		item, _ := a.store.Item(action.Index)
		html, err := a.views.ConfirmRemove(render.ConfirmView{Index: action.Index, Item: item, Prompt: prompt})
		if err != nil {
			a.logger.Error("confirmation not rendered", zap.Error(err))
			return false
		}

		a.surface.ShowOverlay(html)
		return false
	})
}

func (a *App) showProduct(p domain.Product, quantity int) error {
	html, err := a.views.Product(render.ProductView{Product: p, Quantity: quantity})
	if err != nil {
		return fmt.Errorf("views.Product: %w", err)
	}

	a.surface.ShowOverlay(html)
	return nil
}

func (a *App) renderPage(ctx context.Context, page domain.Page) error {
	if page == domain.PageCart {
		a.timer.Stop()

		c := a.store.Cart()
		html, err := a.views.Cart(render.CartView{Items: c.Items, Totals: c.Totals()})
		if err != nil {
			return fmt.Errorf("views.Cart: %w", err)
		}

		a.surface.ReplaceRoot(html)
		return nil
	}

	html, err := a.views.Home(a.homeView(ctx))
	if err != nil {
		return fmt.Errorf("views.Home: %w", err)
	}

	a.surface.ReplaceRoot(html)
	a.timer.Start()
	return nil
}

func (a *App) homeView(ctx context.Context) render.HomeView {
	v := render.HomeView{
		Countdown:  render.NewCountdown(a.timer),
		LoadFailed: a.catalog.LastError() != nil,
		Searching:  a.searching,
		Query:      a.query,
	}

	if v.LoadFailed {
		return v
	}

	if a.searching {
		v.Results = a.catalog.Search(a.query)
	} else {
		v.Featured = a.catalog.SampleFeatured(a.featured)
	}

	v.Rows = a.catalog.Classifications(a.perRow)
	v.Categories = a.catalog.CategoryCards(ctx)

	return v
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
