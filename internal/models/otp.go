package models

import (
	"time"

	"gorm.io/gorm"
)

// OTPLifetime is the validity window of a freshly issued code.
const OTPLifetime = 10 * time.Minute

// OTP is one row in the append-only verification-code ledger. Email is free
// text rather than a foreign key so codes survive independently of the
// customer lifecycle. Rows are never deleted; consumption and expiry only
// soft-invalidate them.
type OTP struct {
	BaseModel
	Email     string    `gorm:"size:254;index" json:"email"`
	Code      string    `gorm:"size:8" json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used"`
}

// BeforeCreate fills in the default expiry alongside the UUID.
func (o *OTP) BeforeCreate(tx *gorm.DB) error {
	if err := o.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if o.ExpiresAt.IsZero() {
		o.ExpiresAt = time.Now().Add(OTPLifetime)
	}
	return nil
}

// IsValid reports whether the code can still be redeemed.
func (o *OTP) IsValid() bool {
	return !o.IsUsed && time.Now().Before(o.ExpiresAt)
}
