package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrActivationRejected is returned when the account service answers with a
// non-2xx status.
var ErrActivationRejected = errors.New("account service rejected activation")

// ActivationRequest is the JSON body accepted by the account service.
type ActivationRequest struct {
	TransactionID      string `json:"transactionId" validate:"required,max=191"`
	GatewayPaymentID   string `json:"gatewayPaymentId" validate:"max=191"`
	Amount             string `json:"amount" validate:"required,numeric"`
	HasSubscription    bool   `json:"hasSubscription"`
	SubscriptionExpiry string `json:"subscriptionExpiry" validate:"required"`
}

// NewActivationRequest converts an activation into its wire form.
func NewActivationRequest(a Activation) ActivationRequest {
	return ActivationRequest{
		TransactionID:      a.TransactionID,
		GatewayPaymentID:   a.GatewayPaymentID,
		Amount:             a.Amount,
		HasSubscription:    true,
		SubscriptionExpiry: a.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// Validate checks the request shape and returns the parsed expiry.
func (r ActivationRequest) Validate() (time.Time, error) {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return time.Time{}, err
	}
	expiry, err := time.Parse(time.RFC3339, r.SubscriptionExpiry)
	if err != nil {
		return time.Time{}, fmt.Errorf("subscriptionExpiry: %w", err)
	}
	return expiry, nil
}

// AccountClient posts activations to the account service over HTTP with a
// bearer service token.
type AccountClient struct {
	URL   string
	Token string

	HTTPClient *http.Client
}

// NewAccountClient creates a client. The HTTP timeout is a backstop; the
// verifier also bounds each call with its own context deadline.
func NewAccountClient(url, token string, timeout time.Duration) *AccountClient {
	if timeout <= 0 {
		timeout = defaultActivationTimeout
	}
	return &AccountClient{
		URL:   strings.TrimSpace(url),
		Token: strings.TrimSpace(token),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *AccountClient) SendActivation(ctx context.Context, a Activation) error {
	if c.URL == "" {
		return errors.New("ACCOUNT_SERVICE_URL is not configured")
	}

	payload, err := json.Marshal(NewActivationRequest(a))
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status=%d body=%s", ErrActivationRejected, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
