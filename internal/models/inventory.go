package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products on a venue's menu.
type Category struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string         `gorm:"not null;size:100" json:"name"`
	Position       int            `gorm:"default:0" json:"position"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product is a sellable inventory item scoped to one organization.
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_products_org_sku;index" json:"organization_id"`
	CategoryID     *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name           string         `gorm:"not null;size:255" json:"name"`
	SKU            string         `gorm:"not null;size:100;uniqueIndex:idx_products_org_sku" json:"sku"`
	PriceCents     int            `json:"price_cents"`
	Currency       string         `gorm:"size:3" json:"currency"`
	StockQuantity  int            `gorm:"default:0" json:"stock_quantity"`
	Active         bool           `gorm:"default:true" json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
