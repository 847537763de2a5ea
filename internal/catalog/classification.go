package catalog

import (
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

type Classification struct {
	ID    string
	Title string
	Match func(domain.Product) bool
}

type Row struct {
	Classification
	Products []domain.Product
}

var (
	topRatedFloor  = decimal.RequireFromString("4.5")
	flashSaleLimit = decimal.NewFromInt(50)
)

// Classifications are the home page rows. New Arrivals keys on id parity
// because the catalog carries no recency field.
var Classifications = []Classification{
	{ID: "topRated", Title: "Top Rated", Match: TopRated},
	{ID: "newArrivals", Title: "New Arrivals", Match: NewArrival},
	{ID: "bestSellers", Title: "Best Sellers", Match: BestSeller},
	{ID: "flashSale", Title: "Flash Sale Today", Match: FlashSale},
}

func TopRated(p domain.Product) bool {
	return p.Rating.GreaterThanOrEqual(topRatedFloor)
}

func NewArrival(p domain.Product) bool {
	return p.ID%2 == 0
}

func BestSeller(p domain.Product) bool {
	return p.Stock > 50
}

func FlashSale(p domain.Product) bool {
	return p.Price.LessThan(flashSaleLimit)
}

func SoldOut(p domain.Product) bool {
	return p.Stock <= 0
}
