package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageSize = 9
	maxPageSize     = 100
)

// Pagination holds page/page_size parameters. Requested records whether the
// client asked for pagination at all; some listings return everything when
// it did not.
type Pagination struct {
	Page      int
	PageSize  int
	Offset    int
	Requested bool
}

// ParsePagination reads page and page_size query params with catalog defaults.
func ParsePagination(c *fiber.Ctx) Pagination {
	pageParam := c.Query("page")
	sizeParam := c.Query("page_size")

	page := parseInt(pageParam, 1)
	size := parseInt(sizeParam, defaultPageSize)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	return Pagination{
		Page:      page,
		PageSize:  size,
		Offset:    (page - 1) * size,
		Requested: pageParam != "" || sizeParam != "",
	}
}

// Meta returns the pagination block embedded in list payloads.
func (p Pagination) Meta(total int64) fiber.Map {
	return fiber.Map{
		"current_page":   p.Page,
		"items_per_page": p.PageSize,
		"total_items":    total,
	}
}

func parseInt(value string, fallback int) int {
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return fallback
}
