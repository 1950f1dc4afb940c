package models

import "time"

// Category is the top of the catalog hierarchy. Deleting a category cascades
// through subcategories, products and images.
type Category struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	Name          string        `gorm:"size:200;uniqueIndex" json:"name"`
	Image         string        `gorm:"size:512" json:"image"`
	SubCategories []SubCategory `gorm:"constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
	Products      []Product     `gorm:"constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// SubCategory names are unique within their parent category only.
type SubCategory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CategoryID uint      `gorm:"uniqueIndex:idx_subcategory_category_name" json:"category_id"`
	Name       string    `gorm:"size:200;uniqueIndex:idx_subcategory_category_name" json:"name"`
	Image      string    `gorm:"size:512" json:"image"`
	Products   []Product `gorm:"foreignKey:SubCategoryID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
