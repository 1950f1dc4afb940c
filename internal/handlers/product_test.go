package handlers_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/example/seidik/internal/models"
)

func TestListProductsFiltered(t *testing.T) {
	env := newTestEnv(t)
	cables, _ := seedCatalog(t, env)

	resp, body := env.get(t, "/api/products/?category="+itoa(cables.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("products returned %d: %s", resp.StatusCode, body.Message)
	}

	var data struct {
		Products []struct {
			Name         string `json:"name"`
			CategoryName string `json:"category_name"`
		} `json:"products"`
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decodeData(t, body, &data)

	if data.Pagination.TotalItems != 3 {
		t.Fatalf("expected 3 cable products, got %d", data.Pagination.TotalItems)
	}
	for _, product := range data.Products {
		if product.CategoryName != "Cables" {
			t.Fatalf("expected only Cables products, got %q", product.CategoryName)
		}
	}
}

func TestListProductsBrandFilterIsCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	resp, body := env.get(t, "/api/products/?brand=aberdare", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("products returned %d", resp.StatusCode)
	}

	var data struct {
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decodeData(t, body, &data)
	if data.Pagination.TotalItems != 2 {
		t.Fatalf("expected 2 Aberdare products, got %d", data.Pagination.TotalItems)
	}
}

func TestListSubCategoryProductsChecksOwnership(t *testing.T) {
	env := newTestEnv(t)
	cables, surfix := seedCatalog(t, env)

	resp, body := env.get(t, "/api/products/categories/"+itoa(cables.ID)+"/subcategories/"+itoa(surfix.ID)+"/products", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("products returned %d: %s", resp.StatusCode, body.Message)
	}

	var data struct {
		Pagination struct {
			TotalItems int64 `json:"total_items"`
		} `json:"pagination"`
	}
	decodeData(t, body, &data)
	if data.Pagination.TotalItems != 2 {
		t.Fatalf("expected 2 Surfix products, got %d", data.Pagination.TotalItems)
	}

	// A subcategory fetched through the wrong category is a 404.
	var lighting models.Category
	if err := env.db.Where("name = ?", "Lighting").First(&lighting).Error; err != nil {
		t.Fatalf("load category failed: %v", err)
	}
	resp, body = env.get(t, "/api/products/categories/"+itoa(lighting.ID)+"/subcategories/"+itoa(surfix.ID)+"/products", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body.Message != "Subcategory not found or does not belong to this category" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestSearchProducts(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	resp, body := env.get(t, "/api/products/search?q=surfix", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("search returned %d: %s", resp.StatusCode, body.Message)
	}
	if !strings.Contains(body.Message, "2 product(s)") {
		t.Fatalf("unexpected message: %q", body.Message)
	}

	var data struct {
		Products []struct {
			Code string `json:"code"`
		} `json:"products"`
	}
	decodeData(t, body, &data)
	if len(data.Products) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(data.Products))
	}

	// Codes are searchable too.
	resp, body = env.get(t, "/api/products/search?q=led-dl", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("search returned %d", resp.StatusCode)
	}
	decodeData(t, body, &data)
	if len(data.Products) != 1 || data.Products[0].Code != "LED-DL-7" {
		t.Fatalf("expected the downlight by code, got %+v", data.Products)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/api/products/search", nil)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if body.Message != "Search query parameter 'q' is required" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestGetProductWithRelevantProducts(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	var product models.Product
	if err := env.db.Where("code = ?", "SFX-25-W").First(&product).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}

	resp, body := env.get(t, "/api/products/"+itoa(product.ID), nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("product returned %d: %s", resp.StatusCode, body.Message)
	}

	var data struct {
		Code             string `json:"code"`
		RelevantProducts []struct {
			Code string `json:"code"`
		} `json:"relevant_products"`
	}
	decodeData(t, body, &data)
	if data.Code != "SFX-25-W" {
		t.Fatalf("unexpected product %q", data.Code)
	}
	if len(data.RelevantProducts) != 1 || data.RelevantProducts[0].Code != "SFX-15-W" {
		t.Fatalf("expected the sibling surfix product, got %+v", data.RelevantProducts)
	}
}

func TestGetProductNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/api/products/424242", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if body.Message != "Product not found" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestListBrands(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	resp, body := env.get(t, "/api/products/brands", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("brands returned %d", resp.StatusCode)
	}

	var data struct {
		Brands []string `json:"brands"`
		Count  int      `json:"count"`
	}
	decodeData(t, body, &data)
	if data.Count != 3 {
		t.Fatalf("expected 3 brands, got %d", data.Count)
	}
	if data.Brands[0] != "Aberdare" {
		t.Fatalf("expected alphabetical order, got %v", data.Brands)
	}
}

func TestProductImageCap(t *testing.T) {
	env := newTestEnv(t)
	seedCatalog(t, env)

	var product models.Product
	if err := env.db.Where("code = ?", "SFX-25-W").First(&product).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}

	for i := 0; i < models.MaxProductImages; i++ {
		image := models.ProductImage{ProductID: product.ID, Image: "img.png"}
		if err := env.db.Create(&image).Error; err != nil {
			t.Fatalf("image %d failed: %v", i, err)
		}
		if image.AltText != product.Name+" image" {
			t.Fatalf("expected default alt text, got %q", image.AltText)
		}
	}

	extra := models.ProductImage{ProductID: product.ID, Image: "overflow.png"}
	if err := env.db.Create(&extra).Error; !errors.Is(err, models.ErrProductImageLimit) {
		t.Fatalf("expected image limit error, got %v", err)
	}
}

func TestSubCategoryMustBelongToCategory(t *testing.T) {
	env := newTestEnv(t)
	cables, _ := seedCatalog(t, env)

	var downlights models.SubCategory
	if err := env.db.Where("name = ?", "Downlights").First(&downlights).Error; err != nil {
		t.Fatalf("load subcategory failed: %v", err)
	}

	product := models.Product{
		Name:          "Mismatched",
		Code:          "MIS-1",
		CategoryID:    cables.ID,
		SubCategoryID: downlights.ID,
	}
	if err := env.db.Create(&product).Error; !errors.Is(err, models.ErrSubCategoryMismatch) {
		t.Fatalf("expected mismatch error, got %v", err)
	}
}
