package sales

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/inventory"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateOrderItemRequest struct {
	ProductID uint    `json:"product_id" validate:"required"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice string  `json:"unit_price" validate:"required"`
}

type CreateOrderRequest struct {
	CustomerID uint                     `json:"customer_id" validate:"required"`
	OrderDate  string                   `json:"order_date"` // "2025-12-09"; boşsa bugün
	Items      []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed in_production ready_to_ship shipped delivered cancelled"`
}

type OrderItemResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	TotalPrice  string  `json:"total_price"`
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	OrderNumber  string              `json:"order_number"`
	CustomerID   uint                `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	TotalAmount  string              `json:"total_amount"`
	OrderDate    string              `json:"order_date"`
	ShippedAt    *string             `json:"shipped_at"`
	DeliveredAt  *string             `json:"delivered_at"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    string              `json:"created_at"`
}

func toOrderResponse(o *models.SalesOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
			TotalPrice:  it.TotalPrice.StringFixed(2),
		})
	}

	var shippedAt, deliveredAt *string
	if o.ShippedAt != nil {
		s := o.ShippedAt.Format("2006-01-02 15:04:05")
		shippedAt = &s
	}
	if o.DeliveredAt != nil {
		s := o.DeliveredAt.Format("2006-01-02 15:04:05")
		deliveredAt = &s
	}

	return OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		CustomerID:   o.CustomerID,
		CustomerName: o.Customer.Name,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount.StringFixed(2),
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		ShippedAt:    shippedAt,
		DeliveredAt:  deliveredAt,
		Items:        items,
		CreatedAt:    o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/sales/orders
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

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		orderDate := time.Now()
		if body.OrderDate != "" {
			d, err := time.Parse("2006-01-02", body.OrderDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "order_date formatı 'YYYY-MM-DD' olmalı")
			}
			orderDate = d
		}

		var order models.SalesOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			totalAmount := decimal.Zero
			items := make([]models.SalesOrderItem, 0, len(body.Items))
			for _, reqItem := range body.Items {
				var product models.Product
				if err := tx.First(&product, reqItem.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusNotFound,
						fmt.Sprintf("Ürün bulunamadı: %d", reqItem.ProductID))
				}

				unitPrice, err := decimal.NewFromString(reqItem.UnitPrice)
				if err != nil || unitPrice.LessThanOrEqual(decimal.Zero) {
					return fiber.NewError(fiber.StatusBadRequest, "unit_price pozitif bir sayı olmalı")
				}

				totalPrice := unitPrice.Mul(decimal.NewFromFloat(reqItem.Quantity)).Round(2)
				totalAmount = totalAmount.Add(totalPrice)
				items = append(items, models.SalesOrderItem{
					ProductID:  reqItem.ProductID,
					Quantity:   reqItem.Quantity,
					UnitPrice:  unitPrice,
					TotalPrice: totalPrice,
				})
			}

			number, err := sequence.Next(tx, sequence.PrefixSalesOrder, orderDate.Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş numarası üretilemedi")
			}

			order = models.SalesOrder{
				OrderNumber: number,
				CustomerID:  body.CustomerID,
				Status:      models.SalesOrderDraft,
				TotalAmount: totalAmount,
				OrderDate:   orderDate,
				CreatedBy:   userID,
				Items:       items,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
			return tx.Preload("Items.Product").Preload("Customer").First(&order, order.ID).Error
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satış siparişi oluşturuldu: %s, toplam %s", order.OrderNumber, order.TotalAmount.StringFixed(2)),
			After:       order,
		})

		return response.Created(c, toOrderResponse(&order))
	}
}

// GET /api/sales/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.SalesOrder{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if cid := c.QueryInt("customer_id", 0); cid > 0 {
			q = q.Where("customer_id = ?", cid)
		}

		var total int64
		q.Count(&total)

		var orders []models.SalesOrder
		if err := q.Preload("Items.Product").Preload("Customer").
			Order("id DESC").Limit(limit).Offset(offset).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, toOrderResponse(&orders[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/sales/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var order models.SalesOrder
		if err := database.DB.Preload("Items.Product").Preload("Customer").
			First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return response.OK(c, toOrderResponse(&order))
	}
}

// PUT /api/sales/orders/:id/status
// Sevkiyata geçiş (shipped) aynı transaction içinde sipariş kalemlerinin
// stoğunu düşer; stok yetmiyorsa geçiş tümüyle reddedilir.
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body UpdateOrderStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		target := models.SalesOrderStatus(body.Status)

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var order models.SalesOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Preload("Items").First(&order, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}

			if !order.Status.CanTransitionTo(target) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("'%s' durumundan '%s' durumuna geçilemez", order.Status, target))
			}

			now := time.Now()
			updates := map[string]interface{}{"status": target}
			switch target {
			case models.SalesOrderShipped:
				for _, item := range order.Items {
					if err := inventory.DecreaseStock(tx, item.ProductID, item.Quantity); err != nil {
						return err
					}
				}
				updates["shipped_at"] = &now
			case models.SalesOrderDelivered:
				updates["delivered_at"] = &now
			case models.SalesOrderCancelled:
				updates["cancelled_at"] = &now
			}

			if err := tx.Model(&models.SalesOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
			}
			return tx.Preload("Items.Product").Preload("Customer").First(&order, order.ID).Error
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sales_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş durumu güncellendi: %s, yeni durum '%s'", order.OrderNumber, order.Status),
			After:       order,
		})

		return response.OK(c, toOrderResponse(&order))
	}
}
