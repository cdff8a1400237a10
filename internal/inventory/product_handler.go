package inventory

import (
	"fmt"
	"strings"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	SKU         string `json:"sku" validate:"required"`
	Unit        string `json:"unit" validate:"required"`
	Description string `json:"description"`
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// POST /api/inventory/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		sku := strings.TrimSpace(strings.ToUpper(body.SKU))

		var count int64
		database.DB.Model(&models.Product{}).
			Where("name = ? OR sku = ?", body.Name, sku).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ad veya stok kodu ile kayıtlı ürün var")
		}

		product := models.Product{
			Name:        body.Name,
			SKU:         sku,
			Unit:        body.Unit,
			Description: body.Description,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ürün eklendi: %s (%s)", product.Name, product.SKU),
				After:       product,
			})
		}

		return response.Created(c, product)
	}
}

// GET /api/inventory/products
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Product{})
		if name := c.Query("name"); name != "" {
			q = q.Where("name ILIKE ?", "%"+name+"%")
		}
		if sku := c.Query("sku"); sku != "" {
			q = q.Where("sku = ?", strings.ToUpper(sku))
		}

		var total int64
		q.Count(&total)

		var products []models.Product
		if err := q.Order("name").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		return response.Paginated(c, products, page, limit, total)
	}
}

// GET /api/inventory/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return response.OK(c, product)
	}
}

// PUT /api/inventory/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := product

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		product.Name = body.Name
		product.SKU = strings.TrimSpace(strings.ToUpper(body.SKU))
		product.Unit = body.Unit
		product.Description = body.Description

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün güncellendi: %s", product.Name),
				Before:      before,
				After:       product,
			})
		}

		return response.OK(c, product)
	}
}

// DELETE /api/inventory/products/:id
// Stok kaydı olan veya açık siparişlerde geçen ürün silinemez.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var stockCount int64
		database.DB.Model(&models.InventoryItem{}).
			Where("product_id = ? AND quantity_on_hand > 0", product.ID).
			Count(&stockCount)
		if stockCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stoğu olan ürün silinemez")
		}

		var orderItemCount int64
		database.DB.Model(&models.PurchaseOrderItem{}).
			Where("product_id = ?", product.ID).
			Count(&orderItemCount)
		if orderItemCount == 0 {
			database.DB.Model(&models.SalesOrderItem{}).
				Where("product_id = ?", product.ID).
				Count(&orderItemCount)
		}
		if orderItemCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Sipariş geçmişi olan ürün silinemez")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    product.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s", product.Name),
				Before:      product,
			})
		}

		return response.OK(c, fiber.Map{"message": "Ürün silindi"})
	}
}
