package infra

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioClient sends outbound WhatsApp messages through Twilio's REST API.
// Inbound traffic never goes through here; the webhook replies with TwiML.
type TwilioClient struct {
	accountSID string
	authToken  string
	from       string
	httpClient *http.Client
	breaker    *CircuitBreaker
}

// NewTwilioClient builds a client. Returns nil when credentials are absent
// so the caller can run without outbound notifications.
func NewTwilioClient(accountSID, authToken, from string) *TwilioClient {
	if accountSID == "" || authToken == "" || from == "" {
		return nil
	}
	return &TwilioClient{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		breaker:    NewCircuitBreaker(DefaultCBConfig()),
	}
}

// SendWhatsApp delivers one message. Calls fast-fail while the breaker is
// open so a Twilio outage cannot pile up worker goroutines.
func (c *TwilioClient) SendWhatsApp(ctx context.Context, to, body string) error {
	return c.breaker.Execute(func() error {
		return c.send(ctx, to, body)
	})
}

func (c *TwilioClient) send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("From", "whatsapp:"+c.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBase, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: create request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twilio: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio: api returned %d", resp.StatusCode)
	}
	return nil
}

// BreakerState exposes the circuit state for the health endpoint.
func (c *TwilioClient) BreakerState() string {
	return c.breaker.State().String()
}
