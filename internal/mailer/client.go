package mailer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"
)

const resendEmailEndpoint = "https://api.resend.com/emails"

// Client sends transactional email through the Resend API.
type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// Resend email send payload.
type emailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: resendEmailEndpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithEndpoint is used by tests to point the client at a stub server.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	c := NewClient(apiKey)
	c.endpoint = endpoint
	return c
}

// Configured reports whether a server-held API key is present. Callers fail
// closed before building any payload when it is not.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Send(from, to, subject, htmlBody, replyTo string) error {
	payload := emailPayload{
		From:    from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
		ReplyTo: replyTo,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email provider returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// ContactEmailHTML renders the contact-form relay template. All four fields
// are user-supplied and HTML-escaped before interpolation.
func ContactEmailHTML(name, email, subject, message string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
  <h2>New contact form submission</h2>
  <p><strong>Name:</strong> %s</p>
  <p><strong>Email:</strong> %s</p>
  <p><strong>Subject:</strong> %s</p>
  <hr>
  <p style="white-space: pre-wrap;">%s</p>
</div>`,
		html.EscapeString(name),
		html.EscapeString(email),
		html.EscapeString(subject),
		html.EscapeString(message),
	)
}
