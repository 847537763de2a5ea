package cart

import (
	"encoding/json"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// lineRecord is the persisted shape of a line item. Price stays a JSON
// number so snapshots written by the browser page remain readable.
type lineRecord struct {
	ID       int         `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	Image    string      `json:"image"`
	Quantity int         `json:"quantity"`
}

func Encode(items []domain.CartItem) (string, error) {
	records := make([]lineRecord, 0, len(items))
	for _, item := range items {
		records = append(records, mapItemToRecord(item))
	}

	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(b), nil
}

// Decode parses a persisted snapshot. Repeated product ids are merged into
// one line so the one-line-per-product rule holds for any input; a merged line
// is capped at MaxQuantity.
func Decode(s string) ([]domain.CartItem, error) {
	var records []lineRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	var items []domain.CartItem
	index := make(map[int]int, len(records))

	for i, record := range records {
		item, err := mapRecordToItem(record)
		if err != nil {
			return nil, fmt.Errorf("record[%d]: %w", i, err)
		}

		if at, ok := index[item.ProductID]; ok {
			items[at].Quantity = min(items[at].Quantity+item.Quantity, MaxQuantity)
			continue
		}

		index[item.ProductID] = len(items)
		items = append(items, item)
	}

	return items, nil
}

func mapItemToRecord(item domain.CartItem) lineRecord {
	return lineRecord{
		ID:       item.ProductID,
		Title:    item.Title,
		Price:    json.Number(item.Price.Amount.String()),
		Image:    item.Image,
		Quantity: item.Quantity,
	}
}

func mapRecordToItem(record lineRecord) (domain.CartItem, error) {
	price, err := decimal.NewFromString(record.Price.String())
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("price[%s] is not valid: %w", record.Price, err)
	}
	if price.IsNegative() {
		return domain.CartItem{}, fmt.Errorf("price[%s] is negative", record.Price)
	}
	if record.Quantity < 1 || record.Quantity > MaxQuantity {
		return domain.CartItem{}, fmt.Errorf("quantity[%d] is out of range", record.Quantity)
	}

	return domain.CartItem{
		ProductID: record.ID,
		Title:     record.Title,
		Price:     domain.USD(price),
		Image:     record.Image,
		Quantity:  record.Quantity,
	}, nil
}
