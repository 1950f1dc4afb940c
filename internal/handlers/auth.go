package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/services"
	"github.com/example/seidik/internal/utils"
)

// AuthHandler bundles dependencies for session endpoints.
type AuthHandler struct {
	db        *gorm.DB
	cfg       *config.Config
	blacklist services.TokenBlacklist
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, blacklist services.TokenBlacklist) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, blacklist: blacklist}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Login authenticates credentials and issues an access/refresh token pair.
// Unknown email and wrong password produce the same response so the
// credential check cannot be used to enumerate accounts; verified/active
// gating is only differentiated after the password is confirmed correct.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = models.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"detail": "Email and password are required.",
		})
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", req.Email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
		}
		return err
	}

	if !utils.CheckPassword(customer.PasswordHash, req.Password) {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	}

	if !customer.IsVerified {
		return utils.Error(c, fiber.StatusForbidden, "Email not verified. Please verify your email first.", nil)
	}
	if !customer.IsActive {
		return utils.Error(c, fiber.StatusForbidden, "Account is deactivated", nil)
	}

	accessToken, err := utils.GenerateToken(h.cfg.JWTSecret, customer.ID, utils.TokenTypeAccess, h.cfg.AccessTokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	refreshTTL := h.cfg.RefreshTokenTTL
	if req.RememberMe {
		refreshTTL = h.cfg.RememberMeTTL
	}
	refreshToken, err := utils.GenerateToken(h.cfg.JWTSecret, customer.ID, utils.TokenTypeRefresh, refreshTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
		"user": fiber.Map{
			"id":            customer.ID,
			"email":         customer.Email,
			"first_name":    customer.FirstName,
			"last_name":     customer.LastName,
			"customer_type": customer.CustomerType,
			"is_verified":   customer.IsVerified,
		},
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Logout revokes the supplied refresh token via the blacklist.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Refresh == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Refresh token is required", nil)
	}

	claims, err := utils.ParseToken(h.cfg.JWTSecret, req.Refresh)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired token", nil)
	}

	revoked, err := h.blacklist.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired token", nil)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return utils.Error(c, fiber.StatusBadRequest, "Invalid or expired token", nil)
	}
	if err := h.blacklist.Revoke(c.Context(), claims.ID, ttl); err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Logout successful", nil)
}

// Refresh mints a new access token for the subject of a valid,
// non-blacklisted refresh token.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Refresh == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"refresh": "This field is required.",
		})
	}

	claims, err := utils.ParseToken(h.cfg.JWTSecret, req.Refresh)
	if err != nil || claims.TokenType != utils.TokenTypeRefresh {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	revoked, err := h.blacklist.IsRevoked(c.Context(), claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	customerID, err := claims.CustomerID()
	if err != nil {
		return utils.Error(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}

	accessToken, err := utils.GenerateToken(h.cfg.JWTSecret, customerID, utils.TokenTypeAccess, h.cfg.AccessTokenTTL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to generate token")
	}

	return utils.Success(c, fiber.StatusOK, "Token refreshed successfully", fiber.Map{
		"access": accessToken,
	})
}
