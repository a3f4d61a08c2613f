package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, ts int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(payload, testSecret, ts))

	require.NoError(t, VerifySignature(payload, header, testSecret, now))
}

func TestVerifySignatureMissingHeader(t *testing.T) {
	err := VerifySignature([]byte("{}"), "", testSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifySignatureMalformedHeader(t *testing.T) {
	err := VerifySignature([]byte("{}"), "t=notanumber,v1=abc", testSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingSignature)

	err = VerifySignature([]byte("{}"), "v1=abc", testSecret, time.Now())
	assert.ErrorIs(t, err, ErrMissingSignature)
}

func TestVerifySignatureStaleTimestamp(t *testing.T) {
	now := time.Now()
	payload := []byte("{}")
	ts := now.Add(-10 * time.Minute).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(payload, testSecret, ts))

	err := VerifySignature(payload, header, testSecret, now)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignatureFutureTimestamp(t *testing.T) {
	now := time.Now()
	payload := []byte("{}")
	ts := now.Add(10 * time.Minute).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(payload, testSecret, ts))

	err := VerifySignature(payload, header, testSecret, now)
	assert.ErrorIs(t, err, ErrStaleTimestamp)
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	now := time.Now()
	payload := []byte("{}")
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(payload, "whsec_other", ts))

	err := VerifySignature(payload, header, testSecret, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	now := time.Now()
	payload := []byte(`{"id":"evt_1"}`)
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, signPayload(payload, testSecret, ts))

	err := VerifySignature([]byte(`{"id":"evt_2"}`), header, testSecret, now)
	assert.ErrorIs(t, err, ErrBadSignature)
}

// Stripe sends old and new signatures side by side during secret rotation.
func TestVerifySignatureMultipleCandidates(t *testing.T) {
	now := time.Now()
	payload := []byte("{}")
	ts := now.Unix()
	header := fmt.Sprintf("t=%d,v1=%s,v1=%s",
		ts, signPayload(payload, "whsec_retired", ts), signPayload(payload, testSecret, ts))

	require.NoError(t, VerifySignature(payload, header, testSecret, now))
}
