package billing

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStripeClient(server *httptest.Server) *StripeClient {
	client := NewStripeClient("sk_test_secret")
	client.baseURL = server.URL
	client.httpClient = server.Client()
	return client
}

func TestCreateCustomer(t *testing.T) {
	var gotAuth, gotEmail string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotAuth = r.Header.Get("Authorization")
		gotEmail = r.PostForm.Get("email")
		w.Write([]byte(`{"id": "cus_42"}`))
	}))
	defer server.Close()

	id, err := testStripeClient(server).CreateCustomer("owner@bar.example", "")
	require.NoError(t, err)
	assert.Equal(t, "cus_42", id)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "owner@bar.example", gotEmail)
}

func TestCreateTrialSubscription(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/subscriptions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "cus_42", r.PostForm.Get("customer"))
		assert.Equal(t, "price_pro_monthly", r.PostForm.Get("items[0][price]"))
		assert.Equal(t, "14", r.PostForm.Get("trial_period_days"))
		w.Write([]byte(`{"id": "sub_42", "status": "trialing", "customer": "cus_42"}`))
	}))
	defer server.Close()

	id, err := testStripeClient(server).CreateTrialSubscription("cus_42", "price_pro_monthly", 14)
	require.NoError(t, err)
	assert.Equal(t, "sub_42", id)
}

func TestCancelSubscription(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": "sub_42", "status": "canceled"}`))
	}))
	defer server.Close()

	require.NoError(t, testStripeClient(server).CancelSubscription("sub_42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/subscriptions/sub_42", gotPath)
}

func TestStripeTransientFailures(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := testStripeClient(server).CreateCustomer("owner@bar.example", "")
		assert.ErrorIs(t, err, ErrProviderUnavailable, "status %d", code)
		server.Close()
	}
}

func TestStripeRejectionIsNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"message": "Your card was declined."}}`))
	}))
	defer server.Close()

	_, err := testStripeClient(server).CreateTrialSubscription("cus_42", "price_pro_monthly", 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "Your card was declined.")
}
