package models

import "github.com/google/uuid"

// Province enumerates the South African provinces accepted in addresses.
type Province string

const (
	ProvinceEasternCape  Province = "Eastern Cape"
	ProvinceFreeState    Province = "Free State"
	ProvinceGauteng      Province = "Gauteng"
	ProvinceKwaZuluNatal Province = "KwaZulu-Natal"
	ProvinceLimpopo      Province = "Limpopo"
	ProvinceMpumalanga   Province = "Mpumalanga"
	ProvinceNorthernCape Province = "Northern Cape"
	ProvinceNorthWest    Province = "North West"
	ProvinceWesternCape  Province = "Western Cape"
)

var provinces = map[Province]bool{
	ProvinceEasternCape:  true,
	ProvinceFreeState:    true,
	ProvinceGauteng:      true,
	ProvinceKwaZuluNatal: true,
	ProvinceLimpopo:      true,
	ProvinceMpumalanga:   true,
	ProvinceNorthernCape: true,
	ProvinceNorthWest:    true,
	ProvinceWesternCape:  true,
}

// Valid reports whether p is a known province.
func (p Province) Valid() bool {
	return provinces[p]
}

// BillingAddress belongs to a customer; business fields are optional and
// usable by either customer type.
type BillingAddress struct {
	BaseModel
	CustomerID          uuid.UUID `gorm:"type:uuid;index" json:"-"`
	CompanyName         string    `gorm:"size:255" json:"company_name"`
	VATNumber           string    `gorm:"size:100" json:"vat_number"`
	CompanyRegistration string    `gorm:"size:100" json:"company_registration"`
	PONumber            string    `gorm:"size:100" json:"po_number"`
	AddressLine1        string    `gorm:"size:255" json:"address_line_1"`
	AddressLine2        string    `gorm:"size:255" json:"address_line_2"`
	City                string    `gorm:"size:100" json:"city"`
	PostalCode          string    `gorm:"size:20" json:"postal_code"`
	Province            Province  `gorm:"type:varchar(50)" json:"province"`
}

// DeliveryAddress mirrors BillingAddress but lives in its own table so a
// customer can hold independent sets of each.
type DeliveryAddress struct {
	BaseModel
	CustomerID          uuid.UUID `gorm:"type:uuid;index" json:"-"`
	CompanyName         string    `gorm:"size:255" json:"company_name"`
	VATNumber           string    `gorm:"size:100" json:"vat_number"`
	CompanyRegistration string    `gorm:"size:100" json:"company_registration"`
	PONumber            string    `gorm:"size:100" json:"po_number"`
	AddressLine1        string    `gorm:"size:255" json:"address_line_1"`
	AddressLine2        string    `gorm:"size:255" json:"address_line_2"`
	City                string    `gorm:"size:100" json:"city"`
	PostalCode          string    `gorm:"size:20" json:"postal_code"`
	Province            Province  `gorm:"type:varchar(50)" json:"province"`
}
