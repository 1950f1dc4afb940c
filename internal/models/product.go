package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Availability enumerates product stock states.
type Availability string

const (
	AvailabilityInStock      Availability = "in_stock"
	AvailabilityOutOfStock   Availability = "out_of_stock"
	AvailabilityDiscontinued Availability = "discontinued"
)

// Valid reports whether a is a known availability value.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityInStock, AvailabilityOutOfStock, AvailabilityDiscontinued:
		return true
	}
	return false
}

// MaxProductImages caps how many images a product may carry.
const MaxProductImages = 4

var (
	// ErrSubCategoryMismatch is returned when a product's subcategory does
	// not belong to its category.
	ErrSubCategoryMismatch = errors.New("subcategory must belong to the selected category")
	// ErrProductImageLimit is returned when a product already holds the
	// maximum number of images.
	ErrProductImageLimit = errors.New("a product can have a maximum of 4 images")
)

// Product sits under a category and subcategory pair that must agree.
type Product struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:300" json:"name"`
	Code             string         `gorm:"size:100;uniqueIndex" json:"code"`
	Brand            string         `gorm:"size:100;index" json:"brand"`
	ShortDescription string         `gorm:"type:text" json:"short_description"`
	FullDescription  string         `gorm:"type:text" json:"full_description"`
	CategoryID       uint           `gorm:"index" json:"category_id"`
	Category         *Category      `json:"category,omitempty"`
	SubCategoryID    uint           `gorm:"index" json:"subcategory_id"`
	SubCategory      *SubCategory   `json:"subcategory,omitempty"`
	Availability     Availability   `gorm:"type:varchar(20);default:in_stock" json:"availability"`
	Images           []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// BeforeSave enforces the cross-field invariant at write time, not just via
// foreign keys: the subcategory row must hang off the product's category.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	if p.CategoryID == 0 || p.SubCategoryID == 0 {
		return nil
	}

	var sub SubCategory
	if err := tx.Select("category_id").First(&sub, p.SubCategoryID).Error; err != nil {
		return err
	}
	if sub.CategoryID != p.CategoryID {
		return ErrSubCategoryMismatch
	}
	return nil
}

// ProductImage holds one catalog photo, capped at MaxProductImages per product.
type ProductImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id"`
	Image     string    `gorm:"size:512" json:"image"`
	AltText   string    `gorm:"size:200" json:"alt_text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate enforces the per-product image cap and fills in a default alt
// text from the product name.
func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&ProductImage{}).Where("product_id = ?", i.ProductID).Count(&count).Error; err != nil {
		return err
	}
	if count >= MaxProductImages {
		return ErrProductImageLimit
	}

	if i.AltText == "" {
		var product Product
		if err := tx.Select("name").First(&product, i.ProductID).Error; err == nil {
			i.AltText = product.Name + " image"
		}
	}
	return nil
}
