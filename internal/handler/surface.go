package handler

import (
	"html/template"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/render"
)

// pageSurface buffers what a session shows between requests. Messages are
// flashed: each is written into exactly one response.
type pageSurface struct {
	root      template.HTML
	overlay   template.HTML
	chrome    bool
	noBanner  bool
	cartCount int
	messages  []render.Message
}

var _ port.Surface = (*pageSurface)(nil)

func newPageSurface() *pageSurface {
	return &pageSurface{chrome: true}
}

func (s *pageSurface) ReplaceRoot(content template.HTML) { s.root = content }
func (s *pageSurface) ShowOverlay(content template.HTML) { s.overlay = content }
func (s *pageSurface) CloseOverlay()                     { s.overlay = "" }
func (s *pageSurface) SetChromeVisible(visible bool)     { s.chrome = visible }
func (s *pageSurface) SetCartCount(n int)                { s.cartCount = n }
func (s *pageSurface) HideBanner()                       { s.noBanner = true }

// ScrollTop is implicit: every navigation is a fresh document.
func (s *pageSurface) ScrollTop() {}

func (s *pageSurface) ShowMessage(text string, kind port.MessageKind) {
	s.messages = append(s.messages, render.Message{Text: text, Kind: kind})
}

func (s *pageSurface) view(page domain.Page, query string) render.PageView {
	v := render.PageView{
		Page:          page,
		ChromeVisible: s.chrome,
		BannerVisible: !s.noBanner,
		CartCount:     s.cartCount,
		Query:         query,
		Messages:      s.messages,
		Root:          s.root,
		Overlay:       s.overlay,
	}
	s.messages = nil
	return v
}

// redirectHistory turns a pushed history entry into the target of the
// redirect that ends the current request.
type redirectHistory struct {
	target string
}

var _ port.History = (*redirectHistory)(nil)

func (h *redirectHistory) PushState(_ domain.Page, path string) error {
	h.target = path
	return nil
}

func (h *redirectHistory) SetFragment(fragment string) {
	h.target = "/#" + fragment
	if fragment == "" {
		h.target = "/"
	}
}

// take returns the pushed target, if any, and clears it.
func (h *redirectHistory) take() (string, bool) {
	target := h.target
	h.target = ""
	return target, target != ""
}
