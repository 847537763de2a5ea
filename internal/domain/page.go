package domain

import "strings"

type Page string

const (
	PageHome Page = "home"
	PageCart Page = "cart"
)

// ParsePage maps a view identifier or URL fragment to a page; anything
// unknown is home.
func ParsePage(s string) Page {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if Page(s) == PageCart {
		return PageCart
	}
	return PageHome
}

func (p Page) Path() string {
	if p == PageCart {
		return "/cart"
	}
	return "/"
}

// Fragment is the URL fragment used when history state cannot be pushed.
func (p Page) Fragment() string {
	if p == PageCart {
		return string(PageCart)
	}
	return ""
}
