package repository

import (
	"github.com/mandi2mandi/marketguard/app/models"
	"gorm.io/gorm"
)

// ActivationRepository persists subscription activations.
type ActivationRepository interface {
	// CreateIfNotExists inserts the activation unless one with the same
	// transaction id exists. It reports whether a row was created and
	// returns the stored record either way.
	CreateIfNotExists(activation *models.SubscriptionActivation) (bool, *models.SubscriptionActivation, error)
	GetByTransactionID(txnID string) (*models.SubscriptionActivation, error)
}

// InquiryMessageRepository persists chat messages on inquiries.
type InquiryMessageRepository interface {
	Create(message *models.InquiryMessage) error
	ListByInquiry(inquiryID string, offset, limit int) ([]models.InquiryMessage, error)
	CountFlagged(inquiryID string) (int64, error)
}

// Repositories holds all repository instances
type Repositories struct {
	Activation     ActivationRepository
	InquiryMessage InquiryMessageRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Activation:     NewActivationRepository(db),
		InquiryMessage: NewInquiryMessageRepository(db),
	}
}
