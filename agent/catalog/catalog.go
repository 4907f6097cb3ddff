// Package catalog is the product catalog used for price answers and for
// resolving a product identity from a sku.
package catalog

import (
	"context"
	"errors"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID       string  `json:"id" bun:"id,pk"`
	SKU      string  `json:"sku" bun:"sku"`
	Name     string  `json:"name" bun:"name"`
	Price    float64 `json:"price" bun:"price"`
	Currency string  `json:"currency" bun:"currency"`
}

type Store interface {
	ByID(ctx context.Context, id string) (Product, error)
	BySKU(ctx context.Context, sku string) (Product, error)
}
