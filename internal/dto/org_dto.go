package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateOrganizationRequest struct {
	Name            string `json:"name"`
	DefaultCurrency string `json:"default_currency,omitempty"`
}

type UpdateOrganizationRequest struct {
	Name            *string `json:"name,omitempty"`
	DefaultCurrency *string `json:"default_currency,omitempty"`
}

type TransferOwnershipRequest struct {
	NewOwnerID uuid.UUID `json:"new_owner_id"`
}

type OrganizationResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	SubscriptionID  *uuid.UUID `json:"subscription_id,omitempty"`
	DefaultCurrency string     `json:"default_currency"`
	CreatedAt       time.Time  `json:"created_at"`
}
