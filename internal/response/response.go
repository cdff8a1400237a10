package response

import "github.com/gofiber/fiber/v2"

// Tüm başarılı yanıtlar {success, data, pagination?} zarfıyla döner.
// Hatalar main'deki ErrorHandler üzerinden {success:false, error} olur.

type Pagination struct {
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
	TotalItems int64 `json:"totalItems"`
	Limit      int   `json:"limit"`
}

func OK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

func Paginated(c *fiber.Ctx, data any, page, limit int, totalItems int64) error {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": Pagination{
			Page:       page,
			TotalPages: totalPages,
			TotalItems: totalItems,
			Limit:      limit,
		},
	})
}

// PageParams: page/limit query parametrelerini varsayılanlarla okur.
func PageParams(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, (page - 1) * limit
}
