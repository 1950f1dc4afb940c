package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/services"
	"github.com/example/seidik/internal/utils"
)

// ContactHandler accepts contact-us submissions and notifies staff by email.
type ContactHandler struct {
	db     *gorm.DB
	mailer *services.MailService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB, mailer *services.MailService) *ContactHandler {
	return &ContactHandler{db: db, mailer: mailer}
}

type contactRequest struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	CompanyName string `json:"company_name" form:"company_name"`
	Message     string `json:"message" form:"message"`
}

func (r *contactRequest) validate() fiber.Map {
	fieldErrors := fiber.Map{}

	r.Name = strings.TrimSpace(r.Name)
	r.Message = strings.TrimSpace(r.Message)

	if len(r.Name) < 2 {
		fieldErrors["name"] = "Name must be at least 2 characters long."
	}
	if !utils.ValidEmail(r.Email) {
		fieldErrors["email"] = "Enter a valid email address."
	}
	if r.Phone != "" && !utils.ValidPhone(r.Phone) {
		fieldErrors["phone"] = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	}
	if len(r.Message) < 10 {
		fieldErrors["message"] = "Message must be at least 10 characters long."
	}

	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// Create stores a contact message and sends the staff notification plus a
// confirmation to the sender. Mail failures never fail the request.
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if fieldErrors := req.validate(); fieldErrors != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fieldErrors)
	}

	message := models.ContactMessage{
		Name:        req.Name,
		Email:       models.NormalizeEmail(req.Email),
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Message:     req.Message,
	}
	if err := h.db.Create(&message).Error; err != nil {
		return err
	}

	h.mailer.SendContactNotification(&message)
	h.mailer.SendContactConfirmation(&message)

	return utils.Success(c, fiber.StatusCreated, "Thank you for contacting us! We'll get back to you soon.", fiber.Map{
		"id":         message.ID,
		"name":       message.Name,
		"email":      message.Email,
		"created_at": message.CreatedAt,
	})
}
