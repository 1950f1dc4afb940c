package services

import (
	"crypto/rand"
	"errors"
	"math/big"

	"gorm.io/gorm"

	"github.com/example/seidik/internal/models"
)

var (
	// ErrOTPNotFound means no ledger row matches the (email, code) pair.
	ErrOTPNotFound = errors.New("otp not found")
	// ErrOTPInvalid means a matching row exists but is expired or used.
	ErrOTPInvalid = errors.New("otp invalid or expired")
)

const otpLength = 8

// OTPService manages the append-only one-time-password ledger.
type OTPService struct {
	db *gorm.DB
}

// NewOTPService constructs an OTPService.
func NewOTPService(db *gorm.DB) *OTPService {
	return &OTPService{db: db}
}

// Issue mints a fresh 8-digit code for the email and persists it with the
// default expiry. Outstanding codes for the same email stay valid; the
// ledger only ever grows.
func (s *OTPService) Issue(email string) (*models.OTP, error) {
	code, err := generateCode(otpLength)
	if err != nil {
		return nil, err
	}

	otp := models.OTP{Email: email, Code: code}
	if err := s.db.Create(&otp).Error; err != nil {
		return nil, err
	}
	return &otp, nil
}

// Verify looks up the most recently issued row matching (email, code)
// without consuming it. Some flows verify twice before the final consume.
func (s *OTPService) Verify(email, code string) (*models.OTP, error) {
	var otp models.OTP
	err := s.db.Where("email = ? AND code = ?", email, code).
		Order("created_at desc").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, err
	}

	if !otp.IsValid() {
		return nil, ErrOTPInvalid
	}
	return &otp, nil
}

// Consume marks the code used. The conditional update closes the
// check-then-act race between concurrent redemptions: zero rows affected
// means another request already consumed it, which is a no-op here.
func (s *OTPService) Consume(otp *models.OTP) error {
	res := s.db.Model(&models.OTP{}).
		Where("id = ? AND is_used = ?", otp.ID, false).
		Update("is_used", true)
	if res.Error != nil {
		return res.Error
	}

	otp.IsUsed = true
	return nil
}

func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
