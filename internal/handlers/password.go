package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/middleware"
	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/services"
	"github.com/example/seidik/internal/utils"
)

// PasswordHandler manages the OTP-gated password reset flow plus the
// authenticated change-password endpoint.
type PasswordHandler struct {
	db     *gorm.DB
	otp    *services.OTPService
	mailer *services.MailService
}

// NewPasswordHandler constructs a PasswordHandler.
func NewPasswordHandler(db *gorm.DB, otp *services.OTPService, mailer *services.MailService) *PasswordHandler {
	return &PasswordHandler{db: db, otp: otp, mailer: mailer}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword mints a reset OTP and emails it. Unknown emails get a 404,
// unlike login's uniform 401; the asymmetry matches the upstream product
// behaviour.
func (h *PasswordHandler) ForgotPassword(c *fiber.Ctx) error {
	var req forgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = models.NormalizeEmail(req.Email)
	if !utils.ValidEmail(req.Email) {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"email": "Enter a valid email address.",
		})
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", req.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User with this email does not exist", nil)
		}
		return err
	}

	otp, err := h.otp.Issue(customer.Email)
	if err != nil {
		return err
	}
	h.mailer.SendPasswordResetCode(customer.Email, otp.Code)

	return utils.Success(c, fiber.StatusOK, "Password reset OTP sent to your email", nil)
}

type verifyResetOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyResetOTP checks a reset code without consuming it, so the client
// can confirm the code before submitting the new password.
func (h *PasswordHandler) VerifyResetOTP(c *fiber.Ctx) error {
	var req verifyResetOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = models.NormalizeEmail(req.Email)
	if req.Email == "" || req.OTP == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"detail": "Email and otp are required.",
		})
	}

	if _, err := h.otp.Verify(req.Email, req.OTP); err != nil {
		if errors.Is(err, services.ErrOTPNotFound) || errors.Is(err, services.ErrOTPInvalid) {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired OTP", nil)
		}
		return err
	}

	return utils.Success(c, fiber.StatusOK, "OTP verified successfully. You can now reset your password.", nil)
}

type resetPasswordRequest struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ResetPassword re-verifies the code, consumes it, and overwrites the
// password hash.
func (h *PasswordHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = models.NormalizeEmail(req.Email)
	if req.NewPassword != req.ConfirmPassword {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"new_password": "Password fields didn't match.",
		})
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"new_password": err.Error(),
		})
	}

	otp, err := h.otp.Verify(req.Email, req.OTP)
	if err != nil {
		if errors.Is(err, services.ErrOTPNotFound) || errors.Is(err, services.ErrOTPInvalid) {
			return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired OTP", nil)
		}
		return err
	}
	if err := h.otp.Consume(otp); err != nil {
		return err
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", req.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "User not found", nil)
		}
		return err
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.db.Model(&customer).Update("password_hash", hash).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Password reset successful", nil)
}

type changePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// ChangePassword rotates the password for the authenticated customer.
func (h *PasswordHandler) ChangePassword(c *fiber.Ctx) error {
	customerID, ok := middleware.GetCurrentCustomerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", customerID).Error; err != nil {
		return err
	}

	if !utils.CheckPassword(customer.PasswordHash, req.OldPassword) {
		return utils.Error(c, fiber.StatusBadRequest, "Old password is incorrect.", nil)
	}
	if req.NewPassword != req.ConfirmPassword {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"new_password": "Password fields didn't match.",
		})
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"new_password": err.Error(),
		})
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}
	if err := h.db.Model(&customer).Update("password_hash", hash).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Password changed successfully", nil)
}
