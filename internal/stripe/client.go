package stripe

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// Client is a minimal Stripe REST client covering the surface this service
// needs: customers, hosted portal sessions, subscription checkout, and
// subscription lookups. Requests are form-encoded per the Stripe API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(secretKey string) *Client {
	return &Client{
		baseURL:   defaultBaseURL,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(secretKey, baseURL string) *Client {
	c := NewClient(secretKey)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type PortalSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type CheckoutSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"` // "open", "complete", "expired"
	PaymentStatus string `json:"payment_status"`
	Customer      string `json:"customer"`
	Subscription  string `json:"subscription"`
	ClientRefID   string `json:"client_reference_id"`
}

type Subscription struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	Customer          string `json:"customer"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
	Items             struct {
		Data []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"data"`
	} `json:"items"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *Client) CreateCustomer(email, userID string) (*Customer, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("metadata[user_id]", userID)

	var customer Customer
	if err := c.post("/customers", params, &customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) CreatePortalSession(customerID, returnURL string) (*PortalSession, error) {
	params := url.Values{}
	params.Set("customer", customerID)
	params.Set("return_url", returnURL)

	var session PortalSession
	if err := c.post("/billing_portal/sessions", params, &session); err != nil {
		return nil, fmt.Errorf("failed to create portal session: %w", err)
	}
	return &session, nil
}

func (c *Client) CreateCheckoutSession(customerID, priceID, userID, successURL, cancelURL string) (*CheckoutSession, error) {
	params := url.Values{}
	params.Set("customer", customerID)
	params.Set("mode", "subscription")
	params.Set("line_items[0][price]", priceID)
	params.Set("line_items[0][quantity]", "1")
	params.Set("client_reference_id", userID)
	params.Set("success_url", successURL)
	params.Set("cancel_url", cancelURL)

	var session CheckoutSession
	if err := c.post("/checkout/sessions", params, &session); err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &session, nil
}

func (c *Client) GetCheckoutSession(sessionID string) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.get("/checkout/sessions/"+sessionID, &session); err != nil {
		return nil, fmt.Errorf("failed to get checkout session: %w", err)
	}
	return &session, nil
}

func (c *Client) GetSubscription(subscriptionID string) (*Subscription, error) {
	var sub Subscription
	if err := c.get("/subscriptions/"+subscriptionID, &sub); err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

func (c *Client) post(path string, params url.Values, out interface{}) error {
	req, err := http.NewRequest("POST", c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, out)
}

func (c *Client) get(path string, out interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
