package inventory

import (
	"fmt"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"

	"github.com/gofiber/fiber/v2"
)

type UpdateThresholdsRequest struct {
	MinimumLevel *float64 `json:"minimum_level"`
	MaximumLevel *float64 `json:"maximum_level"`
	ReorderLevel *float64 `json:"reorder_level"`
}

type ItemResponse struct {
	ID             uint    `json:"id"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	Unit           string  `json:"unit"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
	MinimumLevel   float64 `json:"minimum_level"`
	MaximumLevel   float64 `json:"maximum_level"`
	ReorderLevel   float64 `json:"reorder_level"`
	LowStock       bool    `json:"low_stock"`
}

func toItemResponse(it *models.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:             it.ID,
		ProductID:      it.ProductID,
		ProductName:    it.Product.Name,
		SKU:            it.Product.SKU,
		Unit:           it.Product.Unit,
		QuantityOnHand: it.QuantityOnHand,
		MinimumLevel:   it.MinimumLevel,
		MaximumLevel:   it.MaximumLevel,
		ReorderLevel:   it.ReorderLevel,
		LowStock:       it.QuantityOnHand <= it.ReorderLevel,
	}
}

// GET /api/inventory/items
// low_stock=true ile yalnızca yeniden sipariş eşiğinin altındakiler döner.
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.InventoryItem{})
		if pid := c.QueryInt("product_id", 0); pid > 0 {
			q = q.Where("product_id = ?", pid)
		}
		if c.Query("low_stock") == "true" {
			q = q.Where("quantity_on_hand <= reorder_level")
		}

		var total int64
		q.Count(&total)

		var items []models.InventoryItem
		if err := q.Preload("Product").
			Order("product_id").Limit(limit).Offset(offset).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kayıtları listelenemedi")
		}

		resp := make([]ItemResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toItemResponse(&items[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/inventory/items/:id
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz stok kaydı id")
		}

		var item models.InventoryItem
		if err := database.DB.Preload("Product").First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}

		return response.OK(c, toItemResponse(&item))
	}
}

// PUT /api/inventory/items/:id/thresholds
// Miktar bu uçtan değiştirilemez; yalnızca eşikler güncellenir. Miktar mal
// kabul, sevkiyat ve üretim tamamlama işlemleriyle değişir.
func UpdateThresholdsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz stok kaydı id")
		}

		var body UpdateThresholdsRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var item models.InventoryItem
		if err := database.DB.Preload("Product").First(&item, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Stok kaydı bulunamadı")
		}
		before := item

		if body.MinimumLevel != nil {
			if *body.MinimumLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "minimum_level negatif olamaz")
			}
			item.MinimumLevel = *body.MinimumLevel
		}
		if body.MaximumLevel != nil {
			if *body.MaximumLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "maximum_level negatif olamaz")
			}
			item.MaximumLevel = *body.MaximumLevel
		}
		if body.ReorderLevel != nil {
			if *body.ReorderLevel < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "reorder_level negatif olamaz")
			}
			item.ReorderLevel = *body.ReorderLevel
		}

		if item.MaximumLevel > 0 && item.MinimumLevel > item.MaximumLevel {
			return fiber.NewError(fiber.StatusBadRequest, "minimum_level maximum_level'dan büyük olamaz")
		}

		if err := database.DB.Model(&models.InventoryItem{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"minimum_level": item.MinimumLevel,
				"maximum_level": item.MaximumLevel,
				"reorder_level": item.ReorderLevel,
			}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok eşikleri güncellenemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "inventory_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Stok eşikleri güncellendi: %s", item.Product.Name),
				Before:      before,
				After:       item,
			})
		}

		return response.OK(c, toItemResponse(&item))
	}
}
