package repository

import (
	"github.com/mandi2mandi/marketguard/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type activationRepository struct {
	db *gorm.DB
}

// NewActivationRepository creates an activation repository backed by GORM.
func NewActivationRepository(db *gorm.DB) ActivationRepository {
	return &activationRepository{db: db}
}

func (r *activationRepository) CreateIfNotExists(activation *models.SubscriptionActivation) (bool, *models.SubscriptionActivation, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "transaction_id"}},
		DoNothing: true,
	}).Create(activation)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	stored, err := r.GetByTransactionID(activation.TransactionID)
	if err != nil {
		return false, nil, err
	}
	return created, stored, nil
}

func (r *activationRepository) GetByTransactionID(txnID string) (*models.SubscriptionActivation, error) {
	var a models.SubscriptionActivation
	if err := r.db.Where("transaction_id = ?", txnID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
