package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/middleware"
	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/utils"
)

// ProfileHandler exposes the composite customer profile: scalar fields,
// both address sets, and trade information, read and patched as one unit.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// GetProfile returns the authenticated customer's full composite profile.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	customerID, ok := middleware.GetCurrentCustomerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	customer, err := h.loadProfile(customerID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Profile retrieved successfully", profilePayload(customer))
}

type addressPatch struct {
	ID                  *uuid.UUID `json:"id"`
	CompanyName         *string    `json:"company_name"`
	VATNumber           *string    `json:"vat_number"`
	CompanyRegistration *string    `json:"company_registration"`
	PONumber            *string    `json:"po_number"`
	AddressLine1        *string    `json:"address_line_1"`
	AddressLine2        *string    `json:"address_line_2"`
	City                *string    `json:"city"`
	PostalCode          *string    `json:"postal_code"`
	Province            *string    `json:"province"`
}

type tradeDocumentPatch struct {
	Document string `json:"document"`
}

type tradeInfoPatch struct {
	BusinessType     *string              `json:"business_type"`
	MonthlyStatement *string              `json:"monthly_statement"`
	ProcurementNo    *string              `json:"procurement_no"`
	Documents        []tradeDocumentPatch `json:"documents"`
}

type profileUpdateRequest struct {
	FirstName         *string         `json:"first_name"`
	LastName          *string         `json:"last_name"`
	PhoneNumber       *string         `json:"phone_number"`
	BillingAddresses  []addressPatch  `json:"billing_addresses"`
	DeliveryAddresses []addressPatch  `json:"delivery_addresses"`
	TradeInformation  *tradeInfoPatch `json:"trade_information"`
}

// errProfileValidation carries a field-error map out of the transaction so
// the whole patch rolls back on any nested failure.
type errProfileValidation struct {
	fields fiber.Map
}

func (e *errProfileValidation) Error() string { return "profile validation failed" }

// UpdateProfile applies a partial patch to the composite profile. Address
// entries with an id update in place when owned by the caller and are
// silently skipped otherwise; entries without an id create new rows. All
// nested writes happen inside one transaction so a late validation failure
// cannot leave a half-updated profile.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	customerID, ok := middleware.GetCurrentCustomerID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}

	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	var customer models.Customer
	if err := h.db.First(&customer, "id = ?", customerID).Error; err != nil {
		return err
	}

	if req.PhoneNumber != nil && !utils.ValidPhone(*req.PhoneNumber) {
		return utils.Error(c, fiber.StatusBadRequest, "Validation failed", fiber.Map{
			"phone_number": "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed.",
		})
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := applyScalarPatch(tx, &customer, &req); err != nil {
			return err
		}
		if err := applyBillingPatches(tx, customer.ID, req.BillingAddresses); err != nil {
			return err
		}
		if err := applyDeliveryPatches(tx, customer.ID, req.DeliveryAddresses); err != nil {
			return err
		}
		if req.TradeInformation != nil {
			if err := applyTradePatch(tx, &customer, req.TradeInformation); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var validationErr *errProfileValidation
		if errors.As(err, &validationErr) {
			return utils.Error(c, fiber.StatusBadRequest, "Validation failed", validationErr.fields)
		}
		return err
	}

	updated, err := h.loadProfile(customerID)
	if err != nil {
		return err
	}

	return utils.Success(c, fiber.StatusOK, "Profile updated successfully", profilePayload(updated))
}

func (h *ProfileHandler) loadProfile(customerID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := h.db.
		Preload("BillingAddresses").
		Preload("DeliveryAddresses").
		Preload("TradeInformation.Documents").
		First(&customer, "id = ?", customerID).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func profilePayload(customer *models.Customer) fiber.Map {
	payload := fiber.Map{
		"id":                 customer.ID,
		"customer_type":      customer.CustomerType,
		"first_name":         customer.FirstName,
		"last_name":          customer.LastName,
		"full_name":          customer.FullName(),
		"email":              customer.Email,
		"phone_number":       customer.PhoneNumber,
		"is_verified":        customer.IsVerified,
		"registration_stage": customer.RegistrationStage,
		"billing_addresses":  customer.BillingAddresses,
		"delivery_addresses": customer.DeliveryAddresses,
		"created_at":         customer.CreatedAt,
		"updated_at":         customer.UpdatedAt,
	}
	if customer.BillingAddresses == nil {
		payload["billing_addresses"] = []models.BillingAddress{}
	}
	if customer.DeliveryAddresses == nil {
		payload["delivery_addresses"] = []models.DeliveryAddress{}
	}
	payload["trade_information"] = customer.TradeInformation
	return payload
}

func applyScalarPatch(tx *gorm.DB, customer *models.Customer, req *profileUpdateRequest) error {
	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if len(updates) == 0 {
		return nil
	}
	return tx.Model(customer).Updates(updates).Error
}

func (p *addressPatch) updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.CompanyName != nil {
		updates["company_name"] = *p.CompanyName
	}
	if p.VATNumber != nil {
		updates["vat_number"] = *p.VATNumber
	}
	if p.CompanyRegistration != nil {
		updates["company_registration"] = *p.CompanyRegistration
	}
	if p.PONumber != nil {
		updates["po_number"] = *p.PONumber
	}
	if p.AddressLine1 != nil {
		updates["address_line_1"] = *p.AddressLine1
	}
	if p.AddressLine2 != nil {
		updates["address_line_2"] = *p.AddressLine2
	}
	if p.City != nil {
		updates["city"] = *p.City
	}
	if p.PostalCode != nil {
		updates["postal_code"] = *p.PostalCode
	}
	if p.Province != nil {
		updates["province"] = *p.Province
	}
	return updates
}

// validateCreate checks the required fields for a brand-new address entry.
func (p *addressPatch) validateCreate() fiber.Map {
	fieldErrors := fiber.Map{}
	if p.AddressLine1 == nil || *p.AddressLine1 == "" {
		fieldErrors["address_line_1"] = "This field is required."
	}
	if p.City == nil || *p.City == "" {
		fieldErrors["city"] = "This field is required."
	}
	if p.PostalCode == nil || *p.PostalCode == "" {
		fieldErrors["postal_code"] = "This field is required."
	}
	if p.Province == nil || !models.Province(*p.Province).Valid() {
		fieldErrors["province"] = "Province must be a valid South African province."
	}
	if len(fieldErrors) > 0 {
		return fieldErrors
	}
	return nil
}

func (p *addressPatch) provinceValid() bool {
	return p.Province == nil || models.Province(*p.Province).Valid()
}

func applyBillingPatches(tx *gorm.DB, customerID uuid.UUID, patches []addressPatch) error {
	for i := range patches {
		patch := &patches[i]
		if patch.ID != nil {
			if !patch.provinceValid() {
				return &errProfileValidation{fields: fiber.Map{"billing_addresses": "Province must be a valid South African province."}}
			}
			updates := patch.updates()
			if len(updates) == 0 {
				continue
			}
			// Unowned or unknown ids are skipped, not surfaced: the WHERE
			// clause simply matches nothing.
			if err := tx.Model(&models.BillingAddress{}).
				Where("id = ? AND customer_id = ?", patch.ID, customerID).
				Updates(updates).Error; err != nil {
				return err
			}
			continue
		}

		if fieldErrors := patch.validateCreate(); fieldErrors != nil {
			return &errProfileValidation{fields: fiber.Map{"billing_addresses": fieldErrors}}
		}
		address := models.BillingAddress{CustomerID: customerID}
		applyAddressFields(&address, patch)
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
	}
	return nil
}

func applyDeliveryPatches(tx *gorm.DB, customerID uuid.UUID, patches []addressPatch) error {
	for i := range patches {
		patch := &patches[i]
		if patch.ID != nil {
			if !patch.provinceValid() {
				return &errProfileValidation{fields: fiber.Map{"delivery_addresses": "Province must be a valid South African province."}}
			}
			updates := patch.updates()
			if len(updates) == 0 {
				continue
			}
			if err := tx.Model(&models.DeliveryAddress{}).
				Where("id = ? AND customer_id = ?", patch.ID, customerID).
				Updates(updates).Error; err != nil {
				return err
			}
			continue
		}

		if fieldErrors := patch.validateCreate(); fieldErrors != nil {
			return &errProfileValidation{fields: fiber.Map{"delivery_addresses": fieldErrors}}
		}
		address := models.DeliveryAddress{CustomerID: customerID}
		applyDeliveryFields(&address, patch)
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
	}
	return nil
}

func applyAddressFields(address *models.BillingAddress, p *addressPatch) {
	if p.CompanyName != nil {
		address.CompanyName = *p.CompanyName
	}
	if p.VATNumber != nil {
		address.VATNumber = *p.VATNumber
	}
	if p.CompanyRegistration != nil {
		address.CompanyRegistration = *p.CompanyRegistration
	}
	if p.PONumber != nil {
		address.PONumber = *p.PONumber
	}
	if p.AddressLine1 != nil {
		address.AddressLine1 = *p.AddressLine1
	}
	if p.AddressLine2 != nil {
		address.AddressLine2 = *p.AddressLine2
	}
	if p.City != nil {
		address.City = *p.City
	}
	if p.PostalCode != nil {
		address.PostalCode = *p.PostalCode
	}
	if p.Province != nil {
		address.Province = models.Province(*p.Province)
	}
}

func applyDeliveryFields(address *models.DeliveryAddress, p *addressPatch) {
	if p.CompanyName != nil {
		address.CompanyName = *p.CompanyName
	}
	if p.VATNumber != nil {
		address.VATNumber = *p.VATNumber
	}
	if p.CompanyRegistration != nil {
		address.CompanyRegistration = *p.CompanyRegistration
	}
	if p.PONumber != nil {
		address.PONumber = *p.PONumber
	}
	if p.AddressLine1 != nil {
		address.AddressLine1 = *p.AddressLine1
	}
	if p.AddressLine2 != nil {
		address.AddressLine2 = *p.AddressLine2
	}
	if p.City != nil {
		address.City = *p.City
	}
	if p.PostalCode != nil {
		address.PostalCode = *p.PostalCode
	}
	if p.Province != nil {
		address.Province = models.Province(*p.Province)
	}
}

// applyTradePatch upserts the singleton trade information row and appends
// any newly supplied documents.
func applyTradePatch(tx *gorm.DB, customer *models.Customer, patch *tradeInfoPatch) error {
	if !customer.CustomerType.RequiresTradeInfo() {
		return &errProfileValidation{fields: fiber.Map{
			"trade_information": "Only Trade customers can have trade information",
		}}
	}

	if patch.BusinessType != nil && !models.BusinessType(*patch.BusinessType).Valid() {
		return &errProfileValidation{fields: fiber.Map{
			"trade_information": "Business type must be one of Electrician, Contractor, Reseller, Other.",
		}}
	}

	var tradeInfo models.TradeInformation
	err := tx.Where("customer_id = ?", customer.ID).First(&tradeInfo).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if patch.BusinessType == nil {
			return &errProfileValidation{fields: fiber.Map{
				"trade_information": fiber.Map{"business_type": "This field is required."},
			}}
		}
		tradeInfo = models.TradeInformation{
			CustomerID:   customer.ID,
			BusinessType: models.BusinessType(*patch.BusinessType),
		}
		if patch.MonthlyStatement != nil {
			tradeInfo.MonthlyStatement = *patch.MonthlyStatement
		}
		if patch.ProcurementNo != nil {
			tradeInfo.ProcurementNo = *patch.ProcurementNo
		}
		if err := tx.Create(&tradeInfo).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		updates := map[string]interface{}{}
		if patch.BusinessType != nil {
			updates["business_type"] = *patch.BusinessType
		}
		if patch.MonthlyStatement != nil {
			updates["monthly_statement"] = *patch.MonthlyStatement
		}
		if patch.ProcurementNo != nil {
			updates["procurement_no"] = *patch.ProcurementNo
		}
		if len(updates) > 0 {
			if err := tx.Model(&tradeInfo).Updates(updates).Error; err != nil {
				return err
			}
		}
	}

	for _, doc := range patch.Documents {
		if doc.Document == "" {
			continue
		}
		record := models.TradeDocument{
			TradeInformationID: tradeInfo.ID,
			Document:           doc.Document,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}

	return nil
}
