package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/services"
	"github.com/example/seidik/internal/utils"
)

// RegistrationHandler drives the staged registration flow: account, billing
// address, delivery address, trade information (trade only), then email
// verification.
type RegistrationHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	otp    *services.OTPService
	mailer *services.MailService
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(db *gorm.DB, cfg *config.Config, otp *services.OTPService, mailer *services.MailService) *RegistrationHandler {
	return &RegistrationHandler{db: db, cfg: cfg, otp: otp, mailer: mailer}
}

type registerRequest struct {
	CustomerType    string `json:"customer_type"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Register creates the customer account (step 1). No email is sent at this
// stage; OTP issuance happens after address completion.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	fieldErrors := fiber.Map{}
	req.Email = models.NormalizeEmail(req.Email)
	if !utils.ValidEmail(req.Email) {
		fieldErrors["email"] = "Enter a valid email address."
	}
	if !utils.ValidPhone(req.PhoneNumber) {
		fieldErrors["phone_number"] = "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	}

	customerType := models.CustomerType(req.CustomerType)
	if req.CustomerType == "" {
		customerType = models.CustomerTypeRetail
	} else if !customerType.Valid() {
		fieldErrors["customer_type"] = "Customer type must be Retail or Trade."
	}

	if req.Password != req.ConfirmPassword {
		fieldErrors["password"] = "Password fields didn't match."
	} else if err := utils.ValidatePassword(req.Password); err != nil {
		fieldErrors["password"] = err.Error()
	}

	if len(fieldErrors) > 0 {
		return utils.Error(c, fiber.StatusBadRequest, "Registration failed", fieldErrors)
	}

	var existing models.Customer
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "Customer with this email already exists", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to hash password")
	}

	customer := models.Customer{
		CustomerType:      customerType,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		PasswordHash:      passwordHash,
		IsVerified:        false,
		IsActive:          true,
		RegistrationStage: models.StageCreated,
	}

	if err := h.db.Create(&customer).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusCreated, "Registration successful. Please complete billing address.", fiber.Map{
		"customer_id":   customer.ID,
		"email":         customer.Email,
		"customer_type": customer.CustomerType,
	})
}

type addressRequest struct {
	Email               string `json:"email"`
	CompanyName         string `json:"company_name"`
	VATNumber           string `json:"vat_number"`
	CompanyRegistration string `json:"company_registration"`
	PONumber            string `json:"po_number"`
	AddressLine1        string `json:"address_line_1"`
	AddressLine2        string `json:"address_line_2"`
	City                string `json:"city"`
	PostalCode          string `json:"postal_code"`
	Province            string `json:"province"`
}

func (r *addressRequest) validate() fiber.Map {
	fieldErrors := fiber.Map{}
	if r.AddressLine1 == "" {
		fieldErrors["address_line_1"] = "This field is required."
	}
	if r.City == "" {
		fieldErrors["city"] = "This field is required."
	}
	if r.PostalCode == "" {
		fieldErrors["postal_code"] = "This field is required."
	}
	if !models.Province(r.Province).Valid() {
		fieldErrors["province"] = "Province must be a valid South African province."
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

// AddBillingAddress appends a billing address for an existing customer
// (step 2). Repeat calls simply append more addresses.
func (h *RegistrationHandler) AddBillingAddress(c *fiber.Ctx) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	customer, err := h.findCustomerByEmail(req.Email)
	if err != nil {
		return err
	}

	if fieldErrors := req.validate(); fieldErrors != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fieldErrors)
	}

	address := models.BillingAddress{
		CustomerID:          customer.ID,
		CompanyName:         req.CompanyName,
		VATNumber:           req.VATNumber,
		CompanyRegistration: req.CompanyRegistration,
		PONumber:            req.PONumber,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		PostalCode:          req.PostalCode,
		Province:            models.Province(req.Province),
	}

	if err := h.db.Create(&address).Error; err != nil {
		return err
	}

	h.advanceStage(customer, models.StageBillingAddressAdded)

	return utils.Success(c, fiber.StatusCreated, "Billing address added successfully. Please complete delivery address.", address)
}

// AddDeliveryAddress appends a delivery address (step 3). For retail
// customers this is the terminal pre-verification step, so an OTP is minted
// and emailed; trade customers continue to the trade-info step first.
func (h *RegistrationHandler) AddDeliveryAddress(c *fiber.Ctx) error {
	var req addressRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	customer, err := h.findCustomerByEmail(req.Email)
	if err != nil {
		return err
	}

	if fieldErrors := req.validate(); fieldErrors != nil {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fieldErrors)
	}

	address := models.DeliveryAddress{
		CustomerID:          customer.ID,
		CompanyName:         req.CompanyName,
		VATNumber:           req.VATNumber,
		CompanyRegistration: req.CompanyRegistration,
		PONumber:            req.PONumber,
		AddressLine1:        req.AddressLine1,
		AddressLine2:        req.AddressLine2,
		City:                req.City,
		PostalCode:          req.PostalCode,
		Province:            models.Province(req.Province),
	}

	if err := h.db.Create(&address).Error; err != nil {
		return err
	}

	message := "Delivery address added successfully. Please complete trade information."
	if customer.CustomerType.RequiresTradeInfo() {
		h.advanceStage(customer, models.StageDeliveryAddressAdded)
	} else {
		if err := h.sendVerificationOTP(customer); err != nil {
			return err
		}
		message = "Delivery address added successfully. Verification email sent. Please verify your email."
	}

	return utils.Success(c, fiber.StatusCreated, message, address)
}

type tradeInfoRequest struct {
	Email            string `json:"email" form:"email"`
	BusinessType     string `json:"business_type" form:"business_type"`
	MonthlyStatement string `json:"monthly_statement" form:"monthly_statement"`
	ProcurementNo    string `json:"procurement_no" form:"procurement_no"`
}

// AddTradeInformation records the trade-only registration data (step 4)
// along with any uploaded supporting documents, then mints the verification
// OTP. Creation fails when trade information already exists.
func (h *RegistrationHandler) AddTradeInformation(c *fiber.Ctx) error {
	var req tradeInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	customer, err := h.findCustomerByEmail(req.Email)
	if err != nil {
		return err
	}

	if !customer.CustomerType.RequiresTradeInfo() {
		return utils.Error(c, fiber.StatusForbidden, "Only Trade customers can submit trade information", nil)
	}

	var existing models.TradeInformation
	if err := h.db.Where("customer_id = ?", customer.ID).First(&existing).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "Trade information already exists for this customer", nil)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if !models.BusinessType(req.BusinessType).Valid() {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"business_type": "Business type must be one of Electrician, Contractor, Reseller, Other.",
		})
	}

	documents := tradeDocumentFiles(c)
	for _, file := range documents {
		if err := validateTradeDocument(file); err != nil {
			return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
				"documents": err.Error(),
			})
		}
	}

	tradeInfo := models.TradeInformation{
		CustomerID:       customer.ID,
		BusinessType:     models.BusinessType(req.BusinessType),
		MonthlyStatement: req.MonthlyStatement,
		ProcurementNo:    req.ProcurementNo,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tradeInfo).Error; err != nil {
			return err
		}
		for _, file := range documents {
			stored, err := h.storeTradeDocument(c, file)
			if err != nil {
				return err
			}
			doc := models.TradeDocument{TradeInformationID: tradeInfo.ID, Document: stored}
			if err := tx.Create(&doc).Error; err != nil {
				return err
			}
			tradeInfo.Documents = append(tradeInfo.Documents, doc)
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.advanceStage(customer, models.StageTradeInfoAdded)
	if err := h.sendVerificationOTP(customer); err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusCreated, "Trade information submitted successfully. Verification email sent. Please verify your email.", tradeInfo)
}

type verifyEmailRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyEmail redeems an OTP and flips the customer to verified. This is
// the only path that sets the verified flag.
func (h *RegistrationHandler) VerifyEmail(c *fiber.Ctx) error {
	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = models.NormalizeEmail(req.Email)
	if req.Email == "" || req.OTP == "" {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"detail": "Email and otp are required.",
		})
	}

	otp, err := h.otp.Verify(req.Email, req.OTP)
	if err != nil {
		// NotFound and Invalid collapse to one message so the response
		// never reveals which branch failed.
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

	customer.IsVerified = true
	customer.RegistrationStage = customer.RegistrationStage.Advance(models.StageVerified)
	if err := h.db.Save(&customer).Error; err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Email verified successfully. Registration complete! You can now login.", nil)
}

type resendOTPRequest struct {
	Email string `json:"email"`
}

// ResendOTP re-mints a verification code for a not-yet-verified customer.
func (h *RegistrationHandler) ResendOTP(c *fiber.Ctx) error {
	var req resendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	customer, err := h.findCustomerByEmail(req.Email)
	if err != nil {
		return err
	}

	if customer.IsVerified {
		return utils.Error(c, fiber.StatusBadRequest, "Email is already verified", nil)
	}

	if err := h.sendVerificationOTP(customer); err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "OTP sent successfully", nil)
}

func (h *RegistrationHandler) findCustomerByEmail(email string) (*models.Customer, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Email is required")
	}

	var customer models.Customer
	if err := h.db.Where("email = ?", email).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Customer not found. Please register first.")
		}
		return nil, err
	}
	return &customer, nil
}

// sendVerificationOTP mints a code and emails it. The email send is
// fire-and-forget; only ledger persistence can fail the request.
func (h *RegistrationHandler) sendVerificationOTP(customer *models.Customer) error {
	otp, err := h.otp.Issue(customer.Email)
	if err != nil {
		return err
	}
	h.mailer.SendVerificationCode(customer.Email, otp.Code)
	h.advanceStage(customer, models.StageOTPSent)
	return nil
}

// advanceStage records forward progress. Stage persistence is advisory, so
// a write failure is logged by gorm and otherwise ignored.
func (h *RegistrationHandler) advanceStage(customer *models.Customer, to models.RegistrationStage) {
	next := customer.RegistrationStage.Advance(to)
	if next == customer.RegistrationStage {
		return
	}
	customer.RegistrationStage = next
	h.db.Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Update("registration_stage", next)
}

var tradeDocumentExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

const maxTradeDocumentSize = 10 * 1024 * 1024

func tradeDocumentFiles(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["documents"]
}

func validateTradeDocument(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !tradeDocumentExtensions[ext] {
		return fmt.Errorf("File %s: Only PDF, JPG, and PNG files are allowed.", file.Filename)
	}
	if file.Size > maxTradeDocumentSize {
		return fmt.Errorf("File %s: File size must not exceed 10MB.", file.Filename)
	}
	return nil
}

func (h *RegistrationHandler) storeTradeDocument(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	dir := filepath.Join(h.cfg.UploadDir, "trade_documents")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}
