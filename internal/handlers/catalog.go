package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/utils"
)

// CatalogHandler serves category and subcategory browsing.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func categorySortOrder(sort string) string {
	switch sort {
	case "za":
		return "name DESC"
	case "oldest":
		return "created_at ASC"
	case "newest":
		return "created_at DESC"
	default:
		return "name ASC"
	}
}

// ListCategories returns all categories with subcategory and product counts.
// The listing is unpaginated unless the caller asks for a page.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	pagination := utils.ParsePagination(c)
	order := categorySortOrder(c.Query("sort"))

	var total int64
	if err := h.db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return err
	}

	query := h.db.Model(&models.Category{}).Order(order)
	if pagination.Requested {
		query = query.Offset(pagination.Offset).Limit(pagination.PageSize)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(categories))
	for i := range categories {
		category := &categories[i]

		var subCount, productCount int64
		if err := h.db.Model(&models.SubCategory{}).
			Where("category_id = ?", category.ID).
			Count(&subCount).Error; err != nil {
			return err
		}
		if err := h.db.Model(&models.Product{}).
			Where("category_id = ?", category.ID).
			Count(&productCount).Error; err != nil {
			return err
		}

		items = append(items, fiber.Map{
			"id":                  category.ID,
			"name":                category.Name,
			"image":               category.Image,
			"subcategories_count": subCount,
			"products_count":      productCount,
			"created_at":          category.CreatedAt,
		})
	}

	data := fiber.Map{"categories": items}
	if pagination.Requested {
		data["pagination"] = pagination.Meta(total)
	}

	return utils.Success(c, fiber.StatusOK, "Categories retrieved successfully", data)
}

// ListSubCategories returns a category's subcategories, each with a product
// count, plus a summary of the parent category.
func (h *CatalogHandler) ListSubCategories(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("category_id")
	if err != nil || categoryID <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return err
	}

	pagination := utils.ParsePagination(c)
	order := categorySortOrder(c.Query("sort"))

	var total int64
	if err := h.db.Model(&models.SubCategory{}).
		Where("category_id = ?", category.ID).
		Count(&total).Error; err != nil {
		return err
	}

	query := h.db.Model(&models.SubCategory{}).
		Where("category_id = ?", category.ID).
		Order(order)
	if pagination.Requested {
		query = query.Offset(pagination.Offset).Limit(pagination.PageSize)
	}

	var subCategories []models.SubCategory
	if err := query.Find(&subCategories).Error; err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(subCategories))
	for i := range subCategories {
		subCategory := &subCategories[i]

		var productCount int64
		if err := h.db.Model(&models.Product{}).
			Where("sub_category_id = ?", subCategory.ID).
			Count(&productCount).Error; err != nil {
			return err
		}

		items = append(items, fiber.Map{
			"id":             subCategory.ID,
			"name":           subCategory.Name,
			"image":          subCategory.Image,
			"products_count": productCount,
			"created_at":     subCategory.CreatedAt,
		})
	}

	data := fiber.Map{
		"category": fiber.Map{
			"id":    category.ID,
			"name":  category.Name,
			"image": category.Image,
		},
		"subcategories": items,
	}
	if pagination.Requested {
		data["pagination"] = pagination.Meta(total)
	}

	return utils.Success(c, fiber.StatusOK, "Subcategories retrieved successfully", data)
}
