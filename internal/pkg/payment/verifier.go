package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/sirupsen/logrus"

	"github.com/mandi2mandi/marketguard/internal/pkg/securitylog"
)

const defaultActivationTimeout = 10 * time.Second

// ActivationSender delivers an activation to the account service. A nil
// error means the service acknowledged it with a 2xx.
type ActivationSender interface {
	SendActivation(ctx context.Context, a Activation) error
}

// ReconciliationAlerter is notified when money was collected but the
// entitlement could not be delivered.
type ReconciliationAlerter interface {
	ActivationFailed(ctx context.Context, a Activation, cause error) error
}

// VerifierConfig is injected at construction; the verifier never reads
// process-wide configuration.
type VerifierConfig struct {
	Secret             string
	SubscriptionPeriod time.Duration
	ActivationTimeout  time.Duration
}

// Verifier authenticates gateway callbacks and hands verified successful
// payments to the account service. It holds no mutable state and is safe for
// concurrent use. It does not deduplicate: repeated deliveries of the same
// transaction are each forwarded, and the account service must apply them
// idempotently.
type Verifier struct {
	cfg     VerifierConfig
	sender  ActivationSender
	alerter ReconciliationAlerter
	now     func() time.Time
}

// NewVerifier creates a verifier. alerter may be nil.
func NewVerifier(cfg VerifierConfig, sender ActivationSender, alerter ReconciliationAlerter) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, errors.New("payment verifier: secret is required")
	}
	if sender == nil {
		return nil, errors.New("payment verifier: activation sender is required")
	}
	if cfg.SubscriptionPeriod <= 0 {
		return nil, errors.New("payment verifier: subscription period must be positive")
	}
	if cfg.ActivationTimeout <= 0 {
		cfg.ActivationTimeout = defaultActivationTimeout
	}
	return &Verifier{
		cfg:     cfg,
		sender:  sender,
		alerter: alerter,
		now:     time.Now,
	}, nil
}

// Verify checks the callback digest and, for verified successful payments,
// delivers the entitlement activation.
func (v *Verifier) Verify(ctx context.Context, cb Callback) Result {
	if cb.IsMalformed() {
		securitylog.Event(string(ReasonDigestMismatch)).
			WithFields(logrus.Fields(cb.LogFields())).
			WithField("missing", cb.Missing).
			Warn("payment callback rejected: required fields missing")
		return rejected(ReasonDigestMismatch)
	}

	expected := ComputeResponseDigest(v.cfg.Secret, cb)
	if !DigestsEqual(expected, cb.ProvidedDigest) {
		securitylog.Event(string(ReasonDigestMismatch)).
			WithFields(logrus.Fields(cb.LogFields())).
			Warn("payment callback rejected: digest mismatch, possible tampering")
		return rejected(ReasonDigestMismatch)
	}

	if cb.Status != StatusSuccess {
		log.Infof("[Payment] Verified callback for txn %s with status %q, no activation", cb.TransactionID, cb.RawStatus)
		return rejected(ReasonPaymentNotSuccessful)
	}

	activation := Activation{
		TransactionID:    cb.TransactionID,
		GatewayPaymentID: cb.GatewayPaymentID,
		Amount:           cb.Amount,
		ExpiresAt:        v.now().UTC().Add(v.cfg.SubscriptionPeriod),
	}

	if err := v.deliver(ctx, activation); err != nil {
		log.Errorf("[Payment] Activation delivery failed for txn %s (mihpayid=%s): %v", activation.TransactionID, activation.GatewayPaymentID, err)
		securitylog.Event(string(ReasonActivationFailed)).
			WithFields(logrus.Fields(cb.LogFields())).
			WithError(err).
			Error("payment collected but entitlement not activated, flagged for reconciliation")
		v.alert(ctx, activation, err)
		return rejected(ReasonActivationFailed)
	}

	log.Infof("[Payment] Activation delivered for txn %s (mihpayid=%s)", activation.TransactionID, activation.GatewayPaymentID)
	return accepted(activation)
}

// deliver runs the activation call detached from the caller's cancellation
// but bounded by the activation timeout, so a verified payment always ends in
// a logged outcome.
func (v *Verifier) deliver(ctx context.Context, a Activation) (err error) {
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.cfg.ActivationTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("activation sender panicked: %v", r)
		}
	}()

	return v.sender.SendActivation(callCtx, a)
}

func (v *Verifier) alert(ctx context.Context, a Activation, cause error) {
	if v.alerter == nil {
		return
	}
	alertCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), v.cfg.ActivationTimeout)
	defer cancel()
	if err := v.alerter.ActivationFailed(alertCtx, a, cause); err != nil {
		log.Errorf("[Payment] Reconciliation alert for txn %s could not be published: %v", a.TransactionID, err)
	}
}

// RecordFailure ingests a failure callback. It is accepted without a digest
// check because it cannot grant anything; it is only logged.
func (v *Verifier) RecordFailure(cb Callback) {
	log.Infof("[Payment] Failure callback received: txn=%s status=%q amount=%s mihpayid=%s",
		cb.TransactionID, cb.RawStatus, cb.Amount, cb.GatewayPaymentID)
}
