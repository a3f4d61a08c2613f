package models

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionTerminal(t *testing.T) {
	for _, status := range []string{SubscriptionPending, SubscriptionTrial, SubscriptionActive, SubscriptionSuspended} {
		sub := Subscription{Status: status}
		assert.False(t, sub.Terminal(), "status %s", status)
	}
	sub := Subscription{Status: SubscriptionCanceled}
	assert.True(t, sub.Terminal())
}

func TestSubscriptionEligible(t *testing.T) {
	for _, status := range []string{SubscriptionTrial, SubscriptionActive} {
		sub := Subscription{Status: status}
		assert.True(t, sub.Eligible(), "status %s", status)
	}
	for _, status := range []string{SubscriptionPending, SubscriptionSuspended, SubscriptionCanceled} {
		sub := Subscription{Status: status}
		assert.False(t, sub.Eligible(), "status %s", status)
	}
}

// The one-live-subscription-per-user rule must hold at the storage layer,
// not just in service code, or concurrent trial starts can both commit.
func TestSubscriptionUserLiveIndex(t *testing.T) {
	field, ok := reflect.TypeOf(Subscription{}).FieldByName("UserID")
	require.True(t, ok)

	tag := field.Tag.Get("gorm")
	assert.Contains(t, tag, "uniqueIndex:idx_subscriptions_user_live")
	assert.Contains(t, tag, "where:status <> 'canceled'")
}
