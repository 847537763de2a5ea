package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

type CatalogSource interface {
	Products(ctx context.Context, limit int) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	// FirstInCategory returns false when the category has no products.
	FirstInCategory(ctx context.Context, slug string) (domain.Product, bool, error)
}
