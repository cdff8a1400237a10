package production

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/inventory"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateOrderRequest struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	PlannedDate string  `json:"planned_date"` // "2025-12-09"; boşsa bugün
	Notes       string  `json:"notes"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed cancelled"`
}

type OrderResponse struct {
	ID             uint    `json:"id"`
	OrderNumber    string  `json:"order_number"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       float64 `json:"quantity"`
	Status         string  `json:"status"`
	PlannedDate    string  `json:"planned_date"`
	StartedAt      *string `json:"started_at"`
	CompletionDate *string `json:"completion_date"`
	Notes          string  `json:"notes"`
	CreatedAt      string  `json:"created_at"`
}

func toOrderResponse(o *models.ProductionOrder) OrderResponse {
	var startedAt, completionDate *string
	if o.StartedAt != nil {
		s := o.StartedAt.Format("2006-01-02 15:04:05")
		startedAt = &s
	}
	if o.CompletionDate != nil {
		s := o.CompletionDate.Format("2006-01-02 15:04:05")
		completionDate = &s
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		ProductID:      o.ProductID,
		ProductName:    o.Product.Name,
		Quantity:       o.Quantity,
		Status:         string(o.Status),
		PlannedDate:    o.PlannedDate.Format("2006-01-02"),
		StartedAt:      startedAt,
		CompletionDate: completionDate,
		Notes:          o.Notes,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
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

// POST /api/production/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var product models.Product
		if err := database.DB.First(&product, body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		plannedDate := time.Now()
		if body.PlannedDate != "" {
			d, err := time.Parse("2006-01-02", body.PlannedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "planned_date formatı 'YYYY-MM-DD' olmalı")
			}
			plannedDate = d
		}

		var order models.ProductionOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := sequence.Next(tx, sequence.PrefixProductionOrder, plannedDate.Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri numarası üretilemedi")
			}

			order = models.ProductionOrder{
				OrderNumber: number,
				ProductID:   body.ProductID,
				Quantity:    body.Quantity,
				Status:      models.ProductionOrderPlanned,
				PlannedDate: plannedDate,
				Notes:       body.Notes,
				CreatedBy:   userID,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri oluşturulamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}

		order.Product = product

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Üretim emri oluşturuldu: %s, %s x %.2f", order.OrderNumber, product.Name, order.Quantity),
			After:       order,
		})

		return response.Created(c, toOrderResponse(&order))
	}
}

// GET /api/production/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.ProductionOrder{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if pid := c.QueryInt("product_id", 0); pid > 0 {
			q = q.Where("product_id = ?", pid)
		}

		var total int64
		q.Count(&total)

		var orders []models.ProductionOrder
		if err := q.Preload("Product").
			Order("id DESC").Limit(limit).Offset(offset).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim emirleri listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/production/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üretim emri id")
		}

		var order models.ProductionOrder
		if err := database.DB.Preload("Product").First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
		}

		return response.OK(c, toOrderResponse(&order))
	}
}

// PUT /api/production/orders/:id/status
// Tamamlanan üretim aynı transaction içinde üretilen miktarı mamul stoğuna
// ekler ve tamamlanma zamanını damgalar.
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz üretim emri id")
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		target := models.ProductionOrderStatus(body.Status)

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var order models.ProductionOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&order, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
			}

			if !order.Status.CanTransitionTo(target) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("'%s' durumundan '%s' durumuna geçilemez", order.Status, target))
			}

			now := time.Now()
			updates := map[string]interface{}{"status": target}
			switch target {
			case models.ProductionOrderInProgress:
				updates["started_at"] = &now
			case models.ProductionOrderCompleted:
				if err := inventory.IncreaseStock(tx, order.ProductID, order.Quantity); err != nil {
					return err
				}
				updates["completion_date"] = &now
			case models.ProductionOrderCancelled:
				updates["cancelled_at"] = &now
			}

			if err := tx.Model(&models.ProductionOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Üretim emri güncellenemedi")
			}
			return tx.Preload("Product").First(&order, order.ID).Error
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "production_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Üretim emri durumu güncellendi: %s, yeni durum '%s'", order.OrderNumber, order.Status),
			After:       order,
		})

		return response.OK(c, toOrderResponse(&order))
	}
}
