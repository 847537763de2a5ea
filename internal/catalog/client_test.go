package catalog_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productsBody = `{
  "products": [
    {"id": 1, "title": "Essence Mascara", "description": "Lengthening mascara", "category": "beauty",
     "price": 9.99, "discountPercentage": 7.17, "rating": 4.94, "stock": 5,
     "thumbnail": "https://cdn.dummyjson.com/1/thumbnail.png", "images": ["https://cdn.dummyjson.com/1/1.png"]},
    {"id": 2, "title": "Eyeshadow Palette", "description": "Palette", "category": "beauty",
     "price": 19.99, "rating": 3.28, "stock": 44, "images": []}
  ],
  "total": 194, "skip": 0, "limit": 2
}`

const categoriesBody = `[
  {"slug": "beauty", "name": "Beauty", "url": "https://dummyjson.com/products/category/beauty"},
  {"slug": "home-decoration", "name": "Home Decoration", "url": "https://dummyjson.com/products/category/home-decoration"}
]`

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(productsBody))
	})
	mux.HandleFunc("GET /products/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(categoriesBody))
	})
	mux.HandleFunc("GET /products/category/{slug}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		switch r.PathValue("slug") {
		case "beauty":
			_, _ = w.Write([]byte(productsBody))
		case "empty":
			_, _ = w.Write([]byte(`{"products": []}`))
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Products(t *testing.T) {
	srv := newCatalogServer(t)
	client := catalog.NewClient(srv.URL+"/", srv.Client())

	products, err := client.Products(t.Context(), 100)
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "Essence Mascara", first.Title)
	assert.Equal(t, "9.99", first.Price.String())
	assert.Equal(t, "4.94", first.Rating.String())
	assert.Equal(t, 5, first.Stock)
	assert.True(t, first.DiscountPercentage.Valid)
	assert.Equal(t, "7.17", first.DiscountPercentage.Decimal.String())
	assert.Equal(t, "beauty", first.Category)
	assert.Equal(t, "https://cdn.dummyjson.com/1/thumbnail.png", first.Image())

	assert.False(t, products[1].DiscountPercentage.Valid)
	assert.Equal(t, "", products[1].Image())
}

func TestClient_Categories(t *testing.T) {
	srv := newCatalogServer(t)
	client := catalog.NewClient(srv.URL, srv.Client())

	categories, err := client.Categories(t.Context())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "home-decoration", categories[1].Slug)
	assert.Equal(t, "Home Decoration", categories[1].Name)
}

func TestClient_FirstInCategory(t *testing.T) {
	srv := newCatalogServer(t)
	client := catalog.NewClient(srv.URL, srv.Client())

	product, ok, err := client.FirstInCategory(t.Context(), "beauty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, product.ID)

	_, ok, err = client.FirstInCategory(t.Context(), "empty")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = client.FirstInCategory(t.Context(), "broken")
	var statusErr *catalog.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [`))
	}))
	defer srv.Close()

	client := catalog.NewClient(srv.URL, srv.Client())

	_, err := client.Products(t.Context(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Decode")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := catalog.NewClient(url, nil)

	_, err := client.Categories(t.Context())
	require.Error(t, err)
}
