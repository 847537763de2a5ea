// Package router tracks which page a session shows and keeps it in step with
// the navigation history.
package router

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

// Renderer draws the content region for a page.
type Renderer interface {
	RenderPage(ctx context.Context, page domain.Page) error
}

type RendererFunc func(ctx context.Context, page domain.Page) error

func (f RendererFunc) RenderPage(ctx context.Context, page domain.Page) error {
	return f(ctx, page)
}

// State is what the router stores with each history entry.
type State struct {
	Page domain.Page `json:"page"`
}

type Router struct {
	history  port.History
	surface  port.Surface
	renderer Renderer
	logger   *zap.Logger

	current domain.Page
}

func New(history port.History, surface port.Surface, renderer Renderer, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Router{
		history:  history,
		surface:  surface,
		renderer: renderer,
		logger:   logger,
		current:  domain.PageHome,
	}
}

func (r *Router) Current() domain.Page {
	return r.current
}

// Navigate switches to page, recording it in history, and scrolls to the top.
func (r *Router) Navigate(ctx context.Context, page domain.Page) error {
	page = domain.ParsePage(string(page))
	r.current = page

	if err := r.history.PushState(page, page.Path()); err != nil {
		r.logger.Debug("history push unsupported, using fragment", zap.Error(err))
		r.history.SetFragment(page.Fragment())
	}

	if err := r.render(ctx, page); err != nil {
		return err
	}

	r.surface.ScrollTop()
	return nil
}

// PopState restores the page of a history entry reached by back/forward
// navigation. A nil state means home.
func (r *Router) PopState(ctx context.Context, state *State) error {
	page := domain.PageHome
	if state != nil {
		page = domain.ParsePage(string(state.Page))
	}

	r.current = page
	return r.render(ctx, page)
}

// Restore derives the initial page from the URL fragment.
func (r *Router) Restore(ctx context.Context, fragment string) error {
	page := domain.ParsePage(fragment)
	r.current = page
	return r.render(ctx, page)
}

// Refresh re-renders the current page without touching history.
func (r *Router) Refresh(ctx context.Context) error {
	return r.render(ctx, r.current)
}

func (r *Router) render(ctx context.Context, page domain.Page) error {
	r.surface.SetChromeVisible(page != domain.PageCart)

	if err := r.renderer.RenderPage(ctx, page); err != nil {
		return fmt.Errorf("renderer.RenderPage[%s]: %w", page, err)
	}

	return nil
}
