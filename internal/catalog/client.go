package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
)

const DefaultBaseURL = "https://dummyjson.com"

// StatusError is returned when the catalog answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.URL, e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient talks to a dummyjson-compatible catalog rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client) port.CatalogSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type productDTO struct {
	ID                 int                 `json:"id"`
	Title              string              `json:"title"`
	Description        string              `json:"description"`
	Price              decimal.Decimal     `json:"price"`
	Rating             decimal.Decimal     `json:"rating"`
	Stock              int                 `json:"stock"`
	DiscountPercentage decimal.NullDecimal `json:"discountPercentage"`
	Category           string              `json:"category"`
	Thumbnail          string              `json:"thumbnail"`
	Images             []string            `json:"images"`
}

type productsResponse struct {
	Products []productDTO `json:"products"`
}

type categoryDTO struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (c *Client) Products(ctx context.Context, limit int) ([]domain.Product, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}

	var resp productsResponse
	if err := c.get(ctx, "/products", query, &resp); err != nil {
		return nil, fmt.Errorf("c.get products: %w", err)
	}

	return mapProductsToDomain(resp.Products), nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var resp []categoryDTO
	if err := c.get(ctx, "/products/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("c.get categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(resp))
	for _, dto := range resp {
		categories = append(categories, domain.Category{
			Slug: dto.Slug,
			Name: dto.Name,
			URL:  dto.URL,
		})
	}

	return categories, nil
}

func (c *Client) FirstInCategory(ctx context.Context, slug string) (domain.Product, bool, error) {
	query := url.Values{"limit": {"1"}}

	var resp productsResponse
	if err := c.get(ctx, "/products/category/"+url.PathEscape(slug), query, &resp); err != nil {
		return domain.Product{}, false, fmt.Errorf("c.get category[%s]: %w", slug, err)
	}

	if len(resp.Products) == 0 {
		return domain.Product{}, false, nil
	}

	return mapProductToDomain(resp.Products[0]), true, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: target, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("json.Decode: %w", err)
	}

	return nil
}

func mapProductToDomain(dto productDTO) domain.Product {
	return domain.Product{
		ID:                 dto.ID,
		Title:              dto.Title,
		Description:        dto.Description,
		Price:              dto.Price,
		Rating:             dto.Rating,
		Stock:              dto.Stock,
		DiscountPercentage: dto.DiscountPercentage,
		Category:           dto.Category,
		Thumbnail:          dto.Thumbnail,
		Images:             dto.Images,
	}
}

func mapProductsToDomain(dtos []productDTO) []domain.Product {
	products := make([]domain.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, mapProductToDomain(dto))
	}
	return products
}
