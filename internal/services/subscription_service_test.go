package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tapstack/venue-backend/internal/dto"
	"github.com/tapstack/venue-backend/internal/models"
)

func TestCancelTransitions(t *testing.T) {
	assert.True(t, canCancel(models.SubscriptionPending))
	assert.True(t, canCancel(models.SubscriptionTrial))
	assert.True(t, canCancel(models.SubscriptionActive))
	assert.True(t, canCancel(models.SubscriptionSuspended))
	assert.False(t, canCancel(models.SubscriptionCanceled))
}

func TestReactivateTransitions(t *testing.T) {
	assert.True(t, canReactivate(models.SubscriptionSuspended))
	assert.False(t, canReactivate(models.SubscriptionPending))
	assert.False(t, canReactivate(models.SubscriptionTrial))
	assert.False(t, canReactivate(models.SubscriptionActive))
	assert.False(t, canReactivate(models.SubscriptionCanceled))
}

func TestChangeTierTransitions(t *testing.T) {
	assert.True(t, canChangeTier(models.SubscriptionTrial))
	assert.True(t, canChangeTier(models.SubscriptionActive))
	assert.False(t, canChangeTier(models.SubscriptionPending))
	assert.False(t, canChangeTier(models.SubscriptionSuspended))
	assert.False(t, canChangeTier(models.SubscriptionCanceled))
}

func TestStatusFromStripe(t *testing.T) {
	cases := map[string]string{
		"trialing":           models.SubscriptionTrial,
		"active":             models.SubscriptionActive,
		"past_due":           models.SubscriptionSuspended,
		"unpaid":             models.SubscriptionSuspended,
		"canceled":           models.SubscriptionCanceled,
		"incomplete":         models.SubscriptionPending,
		"incomplete_expired": models.SubscriptionPending,
		"paused":             "",
		"":                   "",
	}
	for stripeStatus, want := range cases {
		assert.Equal(t, want, statusFromStripe(stripeStatus), "stripe status %q", stripeStatus)
	}
}

func TestEventSubjectID(t *testing.T) {
	// Subscription events carry the id as the object id.
	subEvent := &dto.StripeEvent{
		Type: "customer.subscription.updated",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "sub_abc"}},
	}
	assert.Equal(t, "sub_abc", eventSubjectID(subEvent))

	// Invoice events reference the subscription indirectly; the object id
	// is the invoice's own id and must not be used.
	invEvent := &dto.StripeEvent{
		Type: "invoice.payment_failed",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "in_123", Subscription: "sub_abc"}},
	}
	assert.Equal(t, "sub_abc", eventSubjectID(invEvent))
}

func TestIsReplay(t *testing.T) {
	sub := &models.Subscription{LastEventID: "evt_1"}
	assert.True(t, isReplay(sub, &dto.StripeEvent{ID: "evt_1"}))
	assert.False(t, isReplay(sub, &dto.StripeEvent{ID: "evt_2"}))
	assert.False(t, isReplay(&models.Subscription{}, &dto.StripeEvent{ID: "evt_1"}))
}

func TestEventUpdatesPaymentFailedSuspends(t *testing.T) {
	event := &dto.StripeEvent{
		ID:   "evt_fail",
		Type: "invoice.payment_failed",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "in_1", Subscription: "sub_1"}},
	}
	updates := eventUpdates(event)
	assert.NotNil(t, updates)
	assert.Equal(t, models.SubscriptionSuspended, updates["status"])
}

func TestEventUpdatesInvoicePaidActivates(t *testing.T) {
	event := &dto.StripeEvent{
		ID:   "evt_paid",
		Type: "invoice.paid",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{Subscription: "sub_1"}},
	}
	updates := eventUpdates(event)
	assert.NotNil(t, updates)
	assert.Equal(t, models.SubscriptionActive, updates["status"])
}

func TestEventUpdatesSubscriptionDeleted(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := &dto.StripeEvent{
		ID:      "evt_del",
		Type:    "customer.subscription.deleted",
		Created: created.Unix(),
		Data:    dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "sub_1"}},
	}
	updates := eventUpdates(event)
	assert.NotNil(t, updates)
	assert.Equal(t, models.SubscriptionCanceled, updates["status"])
	assert.Equal(t, false, updates["auto_renew"])
	assert.Equal(t, created.Unix(), updates["canceled_at"].(time.Time).Unix())
}

func TestEventUpdatesSubscriptionUpdated(t *testing.T) {
	periodStart := int64(1756600000)
	periodEnd := int64(1759200000)
	event := &dto.StripeEvent{
		ID:   "evt_upd",
		Type: "customer.subscription.updated",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{
			ID:                 "sub_1",
			Status:             "active",
			CancelAtPeriodEnd:  true,
			CurrentPeriodStart: periodStart,
			CurrentPeriodEnd:   periodEnd,
		}},
	}
	updates := eventUpdates(event)
	assert.NotNil(t, updates)
	assert.Equal(t, models.SubscriptionActive, updates["status"])
	assert.Equal(t, false, updates["auto_renew"])
	assert.Equal(t, periodStart, updates["current_period_start"].(time.Time).Unix())
	assert.Equal(t, periodEnd, updates["current_period_end"].(time.Time).Unix())
	_, hasTrialEnd := updates["trial_ends_at"]
	assert.False(t, hasTrialEnd, "zero trial_end must not produce an update")
}

func TestEventUpdatesUnmappedStatusIgnored(t *testing.T) {
	event := &dto.StripeEvent{
		ID:   "evt_paused",
		Type: "customer.subscription.updated",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "sub_1", Status: "paused"}},
	}
	assert.Nil(t, eventUpdates(event))
}

func TestEventUpdatesUnknownTypeIgnored(t *testing.T) {
	event := &dto.StripeEvent{
		ID:   "evt_other",
		Type: "charge.refunded",
		Data: dto.StripeEventData{Object: dto.StripeSubscriptionObject{ID: "ch_1"}},
	}
	assert.Nil(t, eventUpdates(event))
}
