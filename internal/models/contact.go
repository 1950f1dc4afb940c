package models

import "time"

// MessageStatus tracks whether a contact message has been handled.
type MessageStatus string

const (
	MessageStatusNew      MessageStatus = "new"
	MessageStatusResolved MessageStatus = "resolved"
)

// ContactMessage is a contact-form submission. It has no relation to
// Customer; anyone can write in.
type ContactMessage struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"size:255" json:"name"`
	Email       string        `gorm:"size:254" json:"email"`
	Phone       string        `gorm:"size:17" json:"phone"`
	CompanyName string        `gorm:"size:255" json:"company_name"`
	Message     string        `gorm:"type:text" json:"message"`
	Status      MessageStatus `gorm:"type:varchar(20);default:new" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
