package models

import "strings"

// CustomerType distinguishes retail shoppers from trade (business) accounts.
type CustomerType string

const (
	CustomerTypeRetail CustomerType = "Retail"
	CustomerTypeTrade  CustomerType = "Trade"
)

// Valid reports whether t is a known customer type.
func (t CustomerType) Valid() bool {
	return t == CustomerTypeRetail || t == CustomerTypeTrade
}

// RequiresTradeInfo reports whether this customer type must submit trade
// information before email verification. This is the single dispatch point
// for type-specific registration behaviour; a new customer type only needs
// an entry here.
func (t CustomerType) RequiresTradeInfo() bool {
	return t == CustomerTypeTrade
}

// RegistrationStage records how far a customer has progressed through the
// staged registration flow. The stage is advisory: step preconditions stay
// existence-based, so retried or replayed steps are tolerated, but the
// recorded stage only ever moves forward.
type RegistrationStage string

const (
	StageCreated              RegistrationStage = "created"
	StageBillingAddressAdded  RegistrationStage = "billing_address_added"
	StageDeliveryAddressAdded RegistrationStage = "delivery_address_added"
	StageTradeInfoAdded       RegistrationStage = "trade_info_added"
	StageOTPSent              RegistrationStage = "otp_sent"
	StageVerified             RegistrationStage = "verified"
)

var stageRank = map[RegistrationStage]int{
	StageCreated:              0,
	StageBillingAddressAdded:  1,
	StageDeliveryAddressAdded: 2,
	StageTradeInfoAdded:       3,
	StageOTPSent:              4,
	StageVerified:             5,
}

// Advance returns the later of s and to. Replaying an earlier step never
// regresses the stage.
func (s RegistrationStage) Advance(to RegistrationStage) RegistrationStage {
	if stageRank[to] > stageRank[s] {
		return to
	}
	return s
}

// Customer is the account entity shared by retail and trade users.
type Customer struct {
	BaseModel
	CustomerType      CustomerType      `gorm:"type:varchar(10);default:Retail" json:"customer_type"`
	FirstName         string            `gorm:"size:150" json:"first_name"`
	LastName          string            `gorm:"size:150" json:"last_name"`
	Email             string            `gorm:"size:254;uniqueIndex" json:"email"`
	PhoneNumber       string            `gorm:"size:17" json:"phone_number"`
	PasswordHash      string            `json:"-"`
	IsVerified        bool              `json:"is_verified"`
	IsActive          bool              `gorm:"default:true" json:"is_active"`
	RegistrationStage RegistrationStage `gorm:"type:varchar(30);default:created" json:"registration_stage"`
	BillingAddresses  []BillingAddress  `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"billing_addresses,omitempty"`
	DeliveryAddresses []DeliveryAddress `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"delivery_addresses,omitempty"`
	TradeInformation  *TradeInformation `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"trade_information,omitempty"`
}

// CanLogin reports whether the account is login-eligible.
func (c *Customer) CanLogin() bool {
	return c.IsVerified && c.IsActive
}

// FullName returns the customer's display name, falling back to email.
func (c *Customer) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	}
	return c.Email
}

// NormalizeEmail lowercases and trims an email address so that lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
