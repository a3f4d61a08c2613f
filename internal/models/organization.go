package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Organization struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string         `gorm:"not null;size:255" json:"name"`
	OwnerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	SubscriptionID *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"subscription_id,omitempty"`
	Settings       datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"settings"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// OrganizationSettings is the shape stored in the Settings JSONB column.
type OrganizationSettings struct {
	DefaultCurrency string `json:"default_currency"`
}
