package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID                 int
	Title              string
	Description        string
	Price              decimal.Decimal
	Rating             decimal.Decimal
	Stock              int
	DiscountPercentage decimal.NullDecimal
	Category           string
	Thumbnail          string
	Images             []string
}

// Image returns the thumbnail, falling back to the first gallery image.
func (p Product) Image() string {
	if p.Thumbnail != "" {
		return p.Thumbnail
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// Stars is the whole number of filled stars out of five.
func (p Product) Stars() int {
	n := int(p.Rating.Floor().IntPart())
	switch {
	case n < 0:
		return 0
	case n > 5:
		return 5
	}
	return n
}

type Category struct {
	Slug string
	Name string
	URL  string
}

type CategoryCard struct {
	Category
	Image string
}
