package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrProviderUnavailable signals a transient Stripe failure (rate limit or
// 5xx); callers surface it as 503 so the client can retry.
var ErrProviderUnavailable = errors.New("billing provider temporarily unavailable")

// StripeClient drives the outbound Stripe API with form-encoded requests.
// Webhooks flow the other way; see signature.go.
type StripeClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{
		secretKey:  secretKey,
		baseURL:    "https://api.stripe.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type stripeObject struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Customer string `json:"customer"`
}

type stripeErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *StripeClient) do(method, path string, form url.Values, out *stripeObject) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return fmt.Errorf("%w: stripe returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var stripeErr stripeErrorBody
		_ = json.Unmarshal(raw, &stripeErr)
		return fmt.Errorf("stripe rejected %s %s: %s", method, path, stripeErr.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode stripe response: %w", err)
		}
	}
	return nil
}

// CreateCustomer registers the billing account holder and returns the
// Stripe customer id.
func (c *StripeClient) CreateCustomer(email, name string) (string, error) {
	form := url.Values{}
	form.Set("email", email)
	if name != "" {
		form.Set("name", name)
	}

	var customer stripeObject
	if err := c.do(http.MethodPost, "/customers", form, &customer); err != nil {
		return "", err
	}
	return customer.ID, nil
}

// CreateTrialSubscription opens a subscription on the given price with a
// trial period and returns the Stripe subscription id.
func (c *StripeClient) CreateTrialSubscription(customerID, priceID string, trialDays int) (string, error) {
	form := url.Values{}
	form.Set("customer", customerID)
	form.Set("items[0][price]", priceID)
	if trialDays > 0 {
		form.Set("trial_period_days", strconv.Itoa(trialDays))
	}

	var sub stripeObject
	if err := c.do(http.MethodPost, "/subscriptions", form, &sub); err != nil {
		return "", err
	}
	return sub.ID, nil
}

// ChangeSubscriptionPrice repoints the subscription at another price.
func (c *StripeClient) ChangeSubscriptionPrice(subscriptionID, priceID string) error {
	form := url.Values{}
	form.Set("items[0][price]", priceID)
	return c.do(http.MethodPost, "/subscriptions/"+subscriptionID, form, nil)
}

// CancelSubscription cancels the subscription immediately.
func (c *StripeClient) CancelSubscription(subscriptionID string) error {
	return c.do(http.MethodDelete, "/subscriptions/"+subscriptionID, nil, nil)
}
