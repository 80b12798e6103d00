package models

import "time"

// InquiryMessage is a chat message on a buyer inquiry that passed the
// contact leak policy. Blocked messages are never stored.
type InquiryMessage struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	InquiryID       string    `gorm:"type:varchar(64);not null;index" json:"inquiry_id"`
	Sender          string    `gorm:"type:varchar(191);not null" json:"sender"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	ContactSeverity string    `gorm:"type:varchar(10);not null;default:'low';index" json:"contact_severity"`
	ContactWarning  bool      `gorm:"default:false" json:"contact_warning"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
