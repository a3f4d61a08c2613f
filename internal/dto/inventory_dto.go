package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name,omitempty"`
	Position *int    `json:"position,omitempty"`
}

type CreateProductRequest struct {
	Name          string     `json:"name"`
	SKU           string     `json:"sku"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	PriceCents    int        `json:"price_cents"`
	Currency      string     `json:"currency,omitempty"`
	StockQuantity int        `json:"stock_quantity"`
}

type UpdateProductRequest struct {
	Name          *string    `json:"name,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	PriceCents    *int       `json:"price_cents,omitempty"`
	Currency      *string    `json:"currency,omitempty"`
	StockQuantity *int       `json:"stock_quantity,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}
