package models

import (
	"time"

	"github.com/google/uuid"
)

// Billing statuses mirrored from Stripe. Canceled is terminal.
const (
	SubscriptionPending   = "pending"
	SubscriptionTrial     = "trial"
	SubscriptionActive    = "active"
	SubscriptionSuspended = "suspended"
	SubscriptionCanceled  = "canceled"
)

// Subscription mirrors one provider subscription. The partial unique
// index on UserID keeps at most one non-canceled row per user even under
// concurrent creation.
type Subscription struct {
	ID                   uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_subscriptions_user_live,where:status <> 'canceled'" json:"user_id"`
	PlanID               string     `gorm:"size:100;not null" json:"plan_id"`
	Status               string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	PriceCents           int        `json:"price_cents"`
	Currency             string     `gorm:"size:3" json:"currency"`
	BillingPeriod        string     `gorm:"size:20" json:"billing_period"`
	AutoRenew            bool       `gorm:"default:true" json:"auto_renew"`
	CurrentPeriodStart   *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end,omitempty"`
	TrialEndsAt          *time.Time `json:"trial_ends_at,omitempty"`
	CardBrand            string     `gorm:"size:30" json:"card_brand,omitempty"`
	CardLast4            string     `gorm:"size:4" json:"card_last4,omitempty"`
	StripeSubscriptionID string     `gorm:"size:255;index" json:"-"`
	StripeCustomerID     string     `gorm:"size:255;index" json:"-"`
	LastEventID          string     `gorm:"size:255" json:"-"`
	CanceledAt           *time.Time `json:"canceled_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Terminal reports whether the subscription can never leave its status.
func (s *Subscription) Terminal() bool {
	return s.Status == SubscriptionCanceled
}

// Eligible reports whether the subscription entitles its holder to create
// and operate organizations.
func (s *Subscription) Eligible() bool {
	return s.Status == SubscriptionTrial || s.Status == SubscriptionActive
}
