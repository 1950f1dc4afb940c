package models

import (
	"testing"
	"time"
)

func TestOTPIsValid(t *testing.T) {
	otp := OTP{ExpiresAt: time.Now().Add(5 * time.Minute)}
	if !otp.IsValid() {
		t.Fatal("fresh unused otp should be valid")
	}

	otp.IsUsed = true
	if otp.IsValid() {
		t.Fatal("used otp should be invalid")
	}

	otp.IsUsed = false
	otp.ExpiresAt = time.Now().Add(-time.Second)
	if otp.IsValid() {
		t.Fatal("expired otp should be invalid")
	}
}
