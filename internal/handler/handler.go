// Package handler serves storefront sessions over HTTP. Each browser session
// owns one storefront.App; requests of a session are applied one at a time.
package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/render"
	"github.com/nikolayk812/storefront/internal/storefront"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	SessionCookie  = "storefront_session"
	requestTimeout = 30 * time.Second
)

type Config struct {
	NewApp        AppFactory
	Views         *render.Renderer
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	SecureCookies bool
}

type Handler struct {
	views    *render.Renderer
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	secure   bool
	sessions *sessions
}

func New(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		views:    cfg.Views,
		logger:   logger,
		gatherer: cfg.Gatherer,
		secure:   cfg.SecureCookies,
		sessions: &sessions{
			newApp: cfg.NewApp,
			now:    time.Now,
			logger: logger,
			opened: cfg.Metrics.SessionOpened,
			closed: cfg.Metrics.SessionClosed,
			byID:   make(map[string]*session),
		},
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/", h.showPage(domain.PageHome))
	r.Get("/cart", h.showPage(domain.PageCart))
	r.Get("/search", h.search)
	r.Get("/products/{id}", h.product)
	r.Post("/actions", h.action)

	return r
}

// Sweep closes sessions not seen for idle and returns how many it closed.
func (h *Handler) Sweep(idle time.Duration) int {
	n := h.sessions.sweep(h.sessions.now().Add(-idle))
	if n > 0 {
		h.logger.Info("idle sessions closed", zap.Int("count", n))
	}
	return n
}

// Close ends every session.
func (h *Handler) Close() {
	h.sessions.sweep(h.sessions.now().Add(time.Hour))
}

func (h *Handler) Sessions() int {
	return h.sessions.len()
}

// showPage serves a page address. For a known session it behaves like
// back/forward navigation; a new session starts on that page.
func (h *Handler) showPage(page domain.Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, fresh, err := h.acquire(w, r, page)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		defer sess.mu.Unlock()

		if !fresh {
			if err := sess.app.PopState(r.Context(), page); err != nil {
				h.fail(w, r, err)
				return
			}
		}

		h.write(w, r, sess)
	}
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	sess, _, err := h.acquire(w, r, domain.PageHome)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer sess.mu.Unlock()

	if err := sess.app.Search(r.Context(), r.URL.Query().Get("q")); err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, r, sess)
}

func (h *Handler) product(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}

	sess, fresh, err := h.acquire(w, r, domain.PageHome)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer sess.mu.Unlock()

	if !fresh {
		if err := sess.app.PopState(r.Context(), domain.PageHome); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	if err := sess.app.Dispatch(r.Context(), storefront.Action{Kind: storefront.ActionView, ProductID: id}); err != nil {
		h.fail(w, r, err)
		return
	}

	h.write(w, r, sess)
}

// action applies one delegated action and redirects to the page it leaves
// the session on.
func (h *Handler) action(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	action, err := storefront.ParseTarget(r.PostForm.Get("target"))
	if err != nil {
		h.logger.Debug("invalid action", zap.Error(err))
		http.Error(w, "invalid action", http.StatusBadRequest)
		return
	}
	if q := r.PostForm.Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > cart.MaxQuantity {
			http.Error(w, "invalid quantity", http.StatusBadRequest)
			return
		}
		action.Quantity = n
	}

	sess, _, err := h.acquire(w, r, domain.PageHome)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer sess.mu.Unlock()

	sess.history.take()
	if err := sess.app.Dispatch(r.Context(), action); err != nil {
		h.fail(w, r, err)
		return
	}

	target, pushed := sess.history.take()
	if !pushed {
		target = location(sess.app)
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// acquire returns the locked session of the request. A cookie naming a
// session that is no longer held, after an idle sweep or a restart, reopens
// it under the same id; a missing or malformed cookie opens a new one. Either
// way the opened session starts on page.
func (h *Handler) acquire(w http.ResponseWriter, r *http.Request, page domain.Page) (*session, bool, error) {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}

	if id != "" {
		if sess, ok := h.sessions.get(id); ok {
			sess.mu.Lock()
			if !sess.closed {
				return sess, false, nil
			}
			sess.mu.Unlock()
		}
	}

	sess, err := h.sessions.open(r.Context(), id, page.Fragment())
	if err != nil {
		return nil, false, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return sess, true, nil
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, sess *session) {
	var buf bytes.Buffer
	if err := h.views.Page(&buf, sess.surface.view(sess.app.Page(), sess.app.Query())); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}

	http.Error(w, http.StatusText(status), status)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, cart.ErrIndexOutOfRange),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, storefront.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrNotLoaded):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func location(app *storefront.App) string {
	page := app.Page()
	if q := app.Query(); page == domain.PageHome && q != "" {
		return "/search?q=" + url.QueryEscape(q)
	}
	return page.Path()
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("elapsed", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
