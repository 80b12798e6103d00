package payment

import (
	"strings"
	"time"
)

// Status is the gateway-reported payment outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusPending Status = "pending"
	StatusOther   Status = "other"
)

// ParseStatus maps a raw gateway status to a known outcome. Unknown values
// become StatusOther. The raw value, not the parsed one, goes into the digest.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "success":
		return StatusSuccess
	case "failure", "failed":
		return StatusFailure
	case "pending":
		return StatusPending
	default:
		return StatusOther
	}
}

// Callback is one inbound gateway callback. It is never persisted.
type Callback struct {
	TransactionID    string
	RawStatus        string
	Status           Status
	Amount           string
	ProductInfo      string
	BuyerName        string
	BuyerEmail       string
	MerchantKey      string
	ProvidedDigest   string
	GatewayPaymentID string

	// Missing lists required form fields that were absent (not merely empty).
	Missing []string
}

// Activation is the entitlement command handed to the account service.
type Activation struct {
	TransactionID    string
	GatewayPaymentID string
	Amount           string
	ExpiresAt        time.Time
}

// Reason explains why a callback was not accepted.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonDigestMismatch       Reason = "digest_mismatch"
	ReasonPaymentNotSuccessful Reason = "payment_not_successful"
	ReasonActivationFailed     Reason = "activation_failed"
)

// Result is the outcome of verifying a callback. Every path produces one.
type Result struct {
	Accepted   bool
	Reason     Reason
	Activation *Activation
}

func accepted(a Activation) Result {
	return Result{Accepted: true, Activation: &a}
}

func rejected(reason Reason) Result {
	return Result{Reason: reason}
}
