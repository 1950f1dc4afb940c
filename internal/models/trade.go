package models

import "github.com/google/uuid"

// BusinessType enumerates the trade business categories.
type BusinessType string

const (
	BusinessTypeElectrician BusinessType = "Electrician"
	BusinessTypeContractor  BusinessType = "Contractor"
	BusinessTypeReseller    BusinessType = "Reseller"
	BusinessTypeOther       BusinessType = "Other"
)

// Valid reports whether t is a known business type.
func (t BusinessType) Valid() bool {
	switch t {
	case BusinessTypeElectrician, BusinessTypeContractor, BusinessTypeReseller, BusinessTypeOther:
		return true
	}
	return false
}

// TradeInformation holds the additional data a trade customer submits during
// registration. At most one row exists per customer; creation when one
// already exists must fail rather than overwrite.
type TradeInformation struct {
	BaseModel
	CustomerID       uuid.UUID       `gorm:"type:uuid;uniqueIndex" json:"-"`
	BusinessType     BusinessType    `gorm:"type:varchar(20)" json:"business_type"`
	MonthlyStatement string          `gorm:"size:255" json:"monthly_statement"`
	ProcurementNo    string          `gorm:"size:100" json:"procurement_no"`
	IsApproved       bool            `json:"is_approved"`
	Documents        []TradeDocument `gorm:"foreignKey:TradeInformationID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
}

// TradeDocument stores a reference to an uploaded supporting file.
type TradeDocument struct {
	BaseModel
	TradeInformationID uuid.UUID `gorm:"type:uuid;index" json:"-"`
	Document           string    `gorm:"size:512" json:"document"`
}
