package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/seidik/internal/models"
	"github.com/example/seidik/internal/utils"
)

// ProductHandler serves product listings, detail, search and brand lookups.
type ProductHandler struct {
	db *gorm.DB
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{db: db}
}

func productSortOrder(sort string) string {
	switch sort {
	case "az":
		return "products.name ASC"
	case "za":
		return "products.name DESC"
	case "oldest":
		return "products.created_at ASC"
	default:
		return "products.created_at DESC"
	}
}

func productListItem(product *models.Product) fiber.Map {
	item := fiber.Map{
		"id":                product.ID,
		"name":              product.Name,
		"code":              product.Code,
		"brand":             product.Brand,
		"short_description": product.ShortDescription,
		"category_id":       product.CategoryID,
		"subcategory_id":    product.SubCategoryID,
		"availability":      product.Availability,
		"created_at":        product.CreatedAt,
	}

	if product.Category != nil {
		item["category_name"] = product.Category.Name
	} else {
		item["category_name"] = ""
	}
	if product.SubCategory != nil {
		item["subcategory_name"] = product.SubCategory.Name
	} else {
		item["subcategory_name"] = ""
	}

	if len(product.Images) > 0 {
		item["primary_image"] = fiber.Map{
			"image":    product.Images[0].Image,
			"alt_text": product.Images[0].AltText,
		}
	} else {
		item["primary_image"] = nil
	}

	return item
}

func (h *ProductHandler) listProducts(c *fiber.Ctx, query *gorm.DB, message string) error {
	pagination := utils.ParsePagination(c)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	var products []models.Product
	err := query.
		Preload("Category").
		Preload("SubCategory").
		Preload("Images").
		Order(productSortOrder(c.Query("sort"))).
		Offset(pagination.Offset).
		Limit(pagination.PageSize).
		Find(&products).Error
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(products))
	for i := range products {
		items = append(items, productListItem(&products[i]))
	}

	return utils.Success(c, fiber.StatusOK, message, fiber.Map{
		"products":   items,
		"pagination": pagination.Meta(total),
	})
}

func (h *ProductHandler) applyFilters(c *fiber.Ctx, query *gorm.DB) *gorm.DB {
	if brand := c.Query("brand"); brand != "" {
		query = query.Where("LOWER(products.brand) = ?", strings.ToLower(brand))
	}
	if categoryID := c.QueryInt("category"); categoryID > 0 {
		query = query.Where("products.category_id = ?", categoryID)
	}
	if subCategoryID := c.QueryInt("subcategory"); subCategoryID > 0 {
		query = query.Where("products.sub_category_id = ?", subCategoryID)
	}
	if availability := c.Query("availability"); availability != "" && models.Availability(availability).Valid() {
		query = query.Where("products.availability = ?", availability)
	}
	return query
}

// ListProducts returns the paginated master product listing with optional
// brand, category, subcategory and availability filters.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	query := h.applyFilters(c, h.db.Model(&models.Product{}))
	return h.listProducts(c, query, "Products retrieved successfully")
}

// ListSubCategoryProducts returns the products of one subcategory, verifying
// that the subcategory actually hangs off the named category.
func (h *ProductHandler) ListSubCategoryProducts(c *fiber.Ctx) error {
	categoryID, err := c.ParamsInt("category_id")
	if err != nil || categoryID <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Category not found")
	}
	subCategoryID, err := c.ParamsInt("subcategory_id")
	if err != nil || subCategoryID <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Subcategory not found or does not belong to this category")
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return err
	}

	var subCategory models.SubCategory
	err = h.db.Where("id = ? AND category_id = ?", subCategoryID, categoryID).First(&subCategory).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Subcategory not found or does not belong to this category")
		}
		return err
	}

	query := h.db.Model(&models.Product{}).Where("products.sub_category_id = ?", subCategory.ID)
	return h.listProducts(c, query, "Products retrieved successfully")
}

// SearchProducts matches a free-text query against name, brand, both
// descriptions and the product code, case-insensitively.
func (h *ProductHandler) SearchProducts(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search query parameter 'q' is required")
	}

	pattern := "%" + strings.ToLower(q) + "%"
	query := h.db.Model(&models.Product{}).Where(
		"LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(products.short_description) LIKE ? OR LOWER(products.full_description) LIKE ? OR LOWER(products.code) LIKE ?",
		pattern, pattern, pattern, pattern, pattern,
	)
	query = h.applyFilters(c, query)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	message := fmt.Sprintf("Found %d product(s) matching %q", total, q)
	return h.listProducts(c, query, message)
}

// GetProduct returns product detail with images and up to five related
// in-stock products from the same subcategory.
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	var product models.Product
	err = h.db.
		Preload("Category").
		Preload("SubCategory").
		Preload("Images").
		First(&product, "id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return err
	}

	var related []models.Product
	err = h.db.
		Preload("Category").
		Preload("SubCategory").
		Preload("Images").
		Where("category_id = ? AND sub_category_id = ? AND availability = ? AND id <> ?",
			product.CategoryID, product.SubCategoryID, models.AvailabilityInStock, product.ID).
		Order("created_at DESC").
		Limit(5).
		Find(&related).Error
	if err != nil {
		return err
	}

	relatedItems := make([]fiber.Map, 0, len(related))
	for i := range related {
		relatedItems = append(relatedItems, productListItem(&related[i]))
	}

	images := make([]fiber.Map, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, fiber.Map{
			"id":       image.ID,
			"image":    image.Image,
			"alt_text": image.AltText,
		})
	}

	data := fiber.Map{
		"id":                product.ID,
		"name":              product.Name,
		"code":              product.Code,
		"brand":             product.Brand,
		"short_description": product.ShortDescription,
		"full_description":  product.FullDescription,
		"category_id":       product.CategoryID,
		"subcategory_id":    product.SubCategoryID,
		"availability":      product.Availability,
		"images":            images,
		"relevant_products": relatedItems,
		"created_at":        product.CreatedAt,
		"updated_at":        product.UpdatedAt,
	}
	if product.Category != nil {
		data["category_name"] = product.Category.Name
	}
	if product.SubCategory != nil {
		data["subcategory_name"] = product.SubCategory.Name
	}

	return utils.Success(c, fiber.StatusOK, "Product retrieved successfully", data)
}

// ListBrands returns the distinct non-empty brand names in alphabetical order.
func (h *ProductHandler) ListBrands(c *fiber.Ctx) error {
	var brands []string
	err := h.db.Model(&models.Product{}).
		Where("brand <> ''").
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return err
	}
	if brands == nil {
		brands = []string{}
	}

	return utils.Success(c, fiber.StatusOK, "Brands retrieved successfully", fiber.Map{
		"brands": brands,
		"count":  len(brands),
	})
}
