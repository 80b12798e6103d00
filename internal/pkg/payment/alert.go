package payment

import (
	"context"
	"time"
)

// EventPublisher publishes a keyed JSON event to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, message any) error
}

// ActivationFailedEvent is consumed by the reconciliation sweep, which
// matches gateway payment ids against settlement reports.
type ActivationFailedEvent struct {
	TransactionID    string    `json:"transactionId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Amount           string    `json:"amount"`
	Reason           Reason    `json:"reason"`
	Error            string    `json:"error"`
	OccurredAt       time.Time `json:"occurredAt"`
}

// ReconciliationPublisher turns activation failures into events.
type ReconciliationPublisher struct {
	Publisher EventPublisher
	Topic     string

	now func() time.Time
}

func NewReconciliationPublisher(p EventPublisher, topic string) *ReconciliationPublisher {
	return &ReconciliationPublisher{Publisher: p, Topic: topic, now: time.Now}
}

func (r *ReconciliationPublisher) ActivationFailed(ctx context.Context, a Activation, cause error) error {
	ev := ActivationFailedEvent{
		TransactionID:    a.TransactionID,
		GatewayPaymentID: a.GatewayPaymentID,
		Amount:           a.Amount,
		Reason:           ReasonActivationFailed,
		OccurredAt:       r.now().UTC(),
	}
	if cause != nil {
		ev.Error = cause.Error()
	}
	return r.Publisher.Publish(ctx, r.Topic, a.TransactionID, ev)
}
