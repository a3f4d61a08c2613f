package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tapstack/venue-backend/internal/billing"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSubNotFound       = errors.New("subscription not found")
	ErrSubExists         = errors.New("a live subscription already exists")
	ErrTrialUsed         = errors.New("trial has already been used")
	ErrPlanNotFound      = errors.New("unknown plan")
	ErrInvalidTransition = errors.New("invalid subscription state transition")
)

// BillingProvider is the outbound surface of the payment processor.
// Webhook events reference the ids it hands back, so every locally
// created subscription must be linked through it.
type BillingProvider interface {
	CreateCustomer(email, name string) (string, error)
	CreateTrialSubscription(customerID, priceID string, trialDays int) (string, error)
	ChangeSubscriptionPrice(subscriptionID, priceID string) error
	CancelSubscription(subscriptionID string) error
}

// SubscriptionService mirrors billing state from Stripe and orchestrates
// the subscription lifecycle.
type SubscriptionService struct {
	db       *gorm.DB
	catalog  *billing.Catalog
	provider BillingProvider
}

func NewSubscriptionService(db *gorm.DB, catalog *billing.Catalog, provider BillingProvider) *SubscriptionService {
	return &SubscriptionService{db: db, catalog: catalog, provider: provider}
}

// Transition guards. Canceled is terminal: nothing leaves it.
func canCancel(status string) bool {
	return status != models.SubscriptionCanceled
}

func canReactivate(status string) bool {
	return status == models.SubscriptionSuspended
}

func canChangeTier(status string) bool {
	return status == models.SubscriptionTrial || status == models.SubscriptionActive
}

// statusFromStripe maps a provider status onto the local enum. Provider
// state is authoritative and overwrites local status on conflict.
func statusFromStripe(stripeStatus string) string {
	switch stripeStatus {
	case "trialing":
		return models.SubscriptionTrial
	case "active":
		return models.SubscriptionActive
	case "past_due", "unpaid":
		return models.SubscriptionSuspended
	case "canceled":
		return models.SubscriptionCanceled
	case "incomplete", "incomplete_expired":
		return models.SubscriptionPending
	default:
		return ""
	}
}

func (s *SubscriptionService) Get(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionService) findLive(userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.
		Where("user_id = ? AND status <> ?", userID, models.SubscriptionCanceled).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// TrialEligibility: a user who has ever held a subscription, in any
// status, is no longer trial-eligible.
func (s *SubscriptionService) TrialEligibility(userID uuid.UUID) (*dto.TrialEligibilityResponse, error) {
	var count int64
	if err := s.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return &dto.TrialEligibilityResponse{Eligible: false, Reason: "trial already used"}, nil
	}
	return &dto.TrialEligibilityResponse{Eligible: true}, nil
}

// StartOwnerTrial provisions the subscription at Stripe and mirrors it
// locally, storing the provider's customer and subscription ids so later
// webhook events resolve to this row. A live subscription is a conflict;
// a prior subscription of any status exhausts the trial.
func (s *SubscriptionService) StartOwnerTrial(userID uuid.UUID, email, planID string) (*models.Subscription, error) {
	plan := s.catalog.Get(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	if _, err := s.findLive(userID); err == nil {
		return nil, ErrSubExists
	}

	var prior int64
	s.db.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&prior)
	if prior > 0 {
		return nil, ErrTrialUsed
	}

	customerID, err := s.provider.CreateCustomer(email, "")
	if err != nil {
		return nil, err
	}
	providerSubID, err := s.provider.CreateTrialSubscription(customerID, plan.StripePriceID, plan.TrialDays)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, plan.TrialDays)
	sub := models.Subscription{
		ID:                   uuid.New(),
		UserID:               userID,
		PlanID:               plan.ID,
		Status:               models.SubscriptionTrial,
		PriceCents:           plan.PriceCents,
		Currency:             plan.Currency,
		BillingPeriod:        plan.BillingPeriod,
		AutoRenew:            true,
		CurrentPeriodStart:   &now,
		CurrentPeriodEnd:     &trialEnd,
		TrialEndsAt:          &trialEnd,
		StripeCustomerID:     customerID,
		StripeSubscriptionID: providerSubID,
	}
	if err := s.db.Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSubExists
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	slog.Info("trial started", "user_id", userID, "plan_id", plan.ID, "stripe_subscription_id", providerSubID)
	return &sub, nil
}

// ChangeTier moves a live subscription onto another plan. Only trial and
// active subscriptions can change tier.
func (s *SubscriptionService) ChangeTier(userID uuid.UUID, planID string) (*models.Subscription, error) {
	plan := s.catalog.Get(planID)
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	sub, err := s.findLive(userID)
	if err != nil {
		return nil, err
	}

	if !canChangeTier(sub.Status) {
		return nil, fmt.Errorf("%w: cannot change tier while %s", ErrInvalidTransition, sub.Status)
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.provider.ChangeSubscriptionPrice(sub.StripeSubscriptionID, plan.StripePriceID); err != nil {
			return nil, err
		}
	}

	err = s.db.Model(sub).Updates(map[string]interface{}{
		"plan_id":        plan.ID,
		"price_cents":    plan.PriceCents,
		"currency":       plan.Currency,
		"billing_period": plan.BillingPeriod,
	}).Error
	if err != nil {
		return nil, err
	}
	sub.PlanID = plan.ID
	sub.PriceCents = plan.PriceCents
	sub.Currency = plan.Currency
	sub.BillingPeriod = plan.BillingPeriod
	return sub, nil
}

// Cancel terminates the live subscription. Canceling an already-terminal
// subscription is an invalid transition.
func (s *SubscriptionService) Cancel(userID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if !canCancel(sub.Status) {
		return nil, fmt.Errorf("%w: subscription is already canceled", ErrInvalidTransition)
	}

	if sub.StripeSubscriptionID != "" {
		if err := s.provider.CancelSubscription(sub.StripeSubscriptionID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	err = s.db.Model(sub).Updates(map[string]interface{}{
		"status":      models.SubscriptionCanceled,
		"auto_renew":  false,
		"canceled_at": now,
	}).Error
	if err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionCanceled
	sub.AutoRenew = false
	sub.CanceledAt = &now
	return sub, nil
}

// Reactivate recovers a suspended subscription back to active.
func (s *SubscriptionService) Reactivate(userID uuid.UUID) (*models.Subscription, error) {
	sub, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if !canReactivate(sub.Status) {
		return nil, fmt.Errorf("%w: cannot reactivate while %s", ErrInvalidTransition, sub.Status)
	}

	if err := s.db.Model(sub).Update("status", models.SubscriptionActive).Error; err != nil {
		return nil, err
	}
	sub.Status = models.SubscriptionActive
	return sub, nil
}

// eventSubjectID returns the provider subscription id an event refers to.
// invoice.* events carry it indirectly via the invoice's subscription
// field; subscription events carry it as the object id.
func eventSubjectID(event *dto.StripeEvent) string {
	if event.Data.Object.Subscription != "" {
		return event.Data.Object.Subscription
	}
	return event.Data.Object.ID
}

// isReplay reports whether the event was already applied to the row.
func isReplay(sub *models.Subscription, event *dto.StripeEvent) bool {
	return sub.LastEventID == event.ID
}

// eventUpdates computes the column updates a webhook event implies.
// A nil map means the event does not touch subscription state. The result
// depends only on the event, so applying it twice yields the same row.
func eventUpdates(event *dto.StripeEvent) map[string]interface{} {
	obj := event.Data.Object
	updates := map[string]interface{}{}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		status := statusFromStripe(obj.Status)
		if status == "" {
			return nil
		}
		updates["status"] = status
		updates["auto_renew"] = !obj.CancelAtPeriodEnd
		if obj.CurrentPeriodStart > 0 {
			updates["current_period_start"] = time.Unix(obj.CurrentPeriodStart, 0)
		}
		if obj.CurrentPeriodEnd > 0 {
			updates["current_period_end"] = time.Unix(obj.CurrentPeriodEnd, 0)
		}
		if obj.TrialEnd > 0 {
			updates["trial_ends_at"] = time.Unix(obj.TrialEnd, 0)
		}
	case "customer.subscription.deleted":
		updates["status"] = models.SubscriptionCanceled
		updates["auto_renew"] = false
		updates["canceled_at"] = time.Unix(event.Created, 0)
	case "invoice.payment_failed":
		updates["status"] = models.SubscriptionSuspended
	case "invoice.paid":
		updates["status"] = models.SubscriptionActive
	default:
		return nil
	}
	return updates
}

// ApplyStripeEvent synchronizes local status from a verified webhook
// event. Delivery is at-least-once, so the sync is idempotent: replaying
// an event leaves the row in the identical end state.
func (s *SubscriptionService) ApplyStripeEvent(event *dto.StripeEvent) error {
	stripeSubID := eventSubjectID(event)

	var sub models.Subscription
	err := s.db.Where("stripe_subscription_id = ?", stripeSubID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("webhook for unknown subscription", "stripe_subscription_id", stripeSubID, "event_type", event.Type)
			return nil
		}
		return err
	}

	if isReplay(&sub, event) {
		return nil
	}

	updates := eventUpdates(event)
	if updates == nil {
		slog.Warn("webhook event not applicable", "event_type", event.Type, "event_id", event.ID, "stripe_status", event.Data.Object.Status)
		return nil
	}
	updates["last_event_id"] = event.ID

	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to apply webhook event: %w", err)
	}

	slog.Info("subscription synced from webhook",
		"subscription_id", sub.ID, "event_type", event.Type, "event_id", event.ID)
	return nil
}
