package repository

import (
	"github.com/mandi2mandi/marketguard/app/models"
	"gorm.io/gorm"
)

type inquiryMessageRepository struct {
	db *gorm.DB
}

// NewInquiryMessageRepository creates an inquiry message repository backed by GORM.
func NewInquiryMessageRepository(db *gorm.DB) InquiryMessageRepository {
	return &inquiryMessageRepository{db: db}
}

func (r *inquiryMessageRepository) Create(message *models.InquiryMessage) error {
	return r.db.Create(message).Error
}

func (r *inquiryMessageRepository) ListByInquiry(inquiryID string, offset, limit int) ([]models.InquiryMessage, error) {
	var messages []models.InquiryMessage
	err := r.db.Where("inquiry_id = ?", inquiryID).
		Order("created_at ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, err
}

// CountFlagged counts stored messages that were let through with a warning.
func (r *inquiryMessageRepository) CountFlagged(inquiryID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.InquiryMessage{}).
		Where("inquiry_id = ? AND contact_warning = ?", inquiryID, true).
		Count(&count).Error
	return count, err
}
