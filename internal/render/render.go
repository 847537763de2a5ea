// Package render turns catalog and cart state into the HTML of the
// storefront's views. Interactive elements carry data-action plus the id of
// the product or cart line they act on, and submit through the single
// delegated form that wraps the content region.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/countdown"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	CardDescriptionLen = 80
	TitleLen           = 50
	CartImageFallback  = "https://placehold.co/80x80/png"
)

type Badge struct {
	Class string
	Text  string
}

type Countdown struct {
	Days, Hours, Minutes, Seconds int
}

type HomeView struct {
	Featured   []domain.Product
	Rows       []catalog.Row
	Categories []domain.CategoryCard
	Countdown  Countdown
	LoadFailed bool

	Searching bool
	Query     string
	Results   []domain.Product
}

type CartView struct {
	Items  []domain.CartItem
	Totals domain.Totals
}

type ProductView struct {
	Product  domain.Product
	Quantity int
}

type ConfirmView struct {
	Index  int
	Item   domain.CartItem
	Prompt string
}

type Message struct {
	Text string
	Kind port.MessageKind
}

type PageView struct {
	Page          domain.Page
	ChromeVisible bool
	BannerVisible bool
	CartCount     int
	Query         string
	Messages      []Message
	Root          template.HTML
	Overlay       template.HTML
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("storefront").Funcs(funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("template.ParseFS: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) Home(v HomeView) (template.HTML, error) {
	return r.fragment("home", v)
}

func (r *Renderer) Cart(v CartView) (template.HTML, error) {
	return r.fragment("cart", v)
}

func (r *Renderer) Product(v ProductView) (template.HTML, error) {
	return r.fragment("product", v)
}

func (r *Renderer) ConfirmRemove(v ConfirmView) (template.HTML, error) {
	return r.fragment("confirm", v)
}

// Page writes the full document around an already rendered content region.
func (r *Renderer) Page(w io.Writer, v PageView) error {
	if err := r.tmpl.ExecuteTemplate(w, "layout", v); err != nil {
		return fmt.Errorf("tmpl.ExecuteTemplate[layout]: %w", err)
	}
	return nil
}

func (r *Renderer) fragment(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("tmpl.ExecuteTemplate[%s]: %w", name, err)
	}
	// the buffer holds output of html/template, already escaped
	return template.HTML(buf.String()), nil
}

func NewCountdown(timer *countdown.Timer) Countdown {
	d, h, m, s := countdown.Parts(timer.Remaining())
	return Countdown{Days: d, Hours: h, Minutes: m, Seconds: s}
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"stars":       Stars,
		"truncate":    Truncate,
		"money":       Money,
		"fixed":       func(d decimal.Decimal) string { return d.StringFixed(2) },
		"badges":      Badges,
		"upper":       strings.ToUpper,
		"maxQuantity": func() int { return cart.MaxQuantity },
		"cartImage": func(item domain.CartItem) string {
			if item.Image == "" {
				return CartImageFallback
			}
			return item.Image
		},
		"rest": func(ps []domain.Product) []domain.Product {
			if len(ps) < 2 {
				return nil
			}
			return ps[1:]
		},
	}
}

// Stars renders floor(rating) filled stars followed by empty ones, five in all.
func Stars(p domain.Product) string {
	n := p.Stars()
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// Truncate cuts s to n runes and marks the cut with an ellipsis.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

func Money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func Badges(p domain.Product) []Badge {
	var badges []Badge

	switch {
	case catalog.SoldOut(p):
		badges = append(badges, Badge{Class: "sold", Text: "SOLD OUT"})
	case catalog.TopRated(p):
		badges = append(badges, Badge{Class: "hot", Text: "HOT"})
	}

	if p.DiscountPercentage.Valid && !p.DiscountPercentage.Decimal.IsZero() {
		badges = append(badges, Badge{Class: "discount", Text: p.DiscountPercentage.Decimal.String() + "% OFF"})
	}

	return badges
}
