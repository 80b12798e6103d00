package models

import "time"

// SubscriptionActivation is a paid subscription granted by a verified
// gateway callback. TransactionID is unique, so re-applying the same
// activation is a no-op.
type SubscriptionActivation struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	TransactionID      string    `gorm:"type:varchar(191);not null;uniqueIndex:ux_subscription_activations_txn" json:"transaction_id"`
	GatewayPaymentID   string    `gorm:"type:varchar(191);not null;default:'';index" json:"gateway_payment_id"`
	Amount             string    `gorm:"type:varchar(32);not null" json:"amount"`
	HasSubscription    bool      `gorm:"default:true" json:"has_subscription"`
	SubscriptionExpiry time.Time `gorm:"type:timestamp;not null" json:"subscription_expiry"`
	CreatedAt          time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription is still valid at t.
func (s *SubscriptionActivation) IsActive(t time.Time) bool {
	return s.HasSubscription && t.Before(s.SubscriptionExpiry)
}
