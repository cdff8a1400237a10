package procurement

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
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
	ProductID      uint    `json:"product_id" validate:"required"`
	Quantity       float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice      string  `json:"unit_price" validate:"required"`
	Specifications string  `json:"specifications"`
}

type CreateOrderRequest struct {
	SupplierID   uint                     `json:"supplier_id" validate:"required"`
	OrderDate    string                   `json:"order_date"`    // "2025-12-09"; boşsa bugün
	ExpectedDate string                   `json:"expected_date"` // opsiyonel
	Items        []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReceiveOrderRequest struct {
	ReceivedItems  []ReceiptLine `json:"received_items" validate:"required,min=1,dive"`
	ReceivingNotes string        `json:"receiving_notes"`
}

type OrderItemResponse struct {
	ID               uint    `json:"id"`
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name"`
	Quantity         float64 `json:"quantity"`
	ReceivedQuantity float64 `json:"received_quantity"`
	UnitPrice        string  `json:"unit_price"`
	TotalPrice       string  `json:"total_price"`
	Specifications   string  `json:"specifications"`
}

type OrderResponse struct {
	ID             uint                `json:"id"`
	OrderNumber    string              `json:"order_number"`
	SupplierID     uint                `json:"supplier_id"`
	SupplierName   string              `json:"supplier_name"`
	Status         string              `json:"status"`
	TotalAmount    string              `json:"total_amount"`
	OrderDate      string              `json:"order_date"`
	ReceivingNotes string              `json:"receiving_notes"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      string              `json:"created_at"`
}

func toOrderResponse(o *models.PurchaseOrder) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.Product.Name,
			Quantity:         item.Quantity,
			ReceivedQuantity: item.ReceivedQuantity,
			UnitPrice:        item.UnitPrice.StringFixed(2),
			TotalPrice:       item.TotalPrice.StringFixed(2),
			Specifications:   item.Specifications,
		})
	}
	return OrderResponse{
		ID:             o.ID,
		OrderNumber:    o.OrderNumber,
		SupplierID:     o.SupplierID,
		SupplierName:   o.Supplier.Name,
		Status:         string(o.Status),
		TotalAmount:    o.TotalAmount.StringFixed(2),
		OrderDate:      o.OrderDate.Format("2006-01-02"),
		ReceivingNotes: o.ReceivingNotes,
		Items:          items,
		CreatedAt:      o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// -------------------------
// Yardımcı: Kullanıcı bilgilerini al
// -------------------------
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

// POST /api/procurement/orders
// Sipariş + satırlar + belge numarası tek transaction içinde oluşturulur.
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

		orderDate := time.Now()
		if body.OrderDate != "" {
			d, err := time.Parse("2006-01-02", body.OrderDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "order_date formatı 'YYYY-MM-DD' olmalı")
			}
			orderDate = d
		}

		var expectedDate *time.Time
		if body.ExpectedDate != "" {
			d, err := time.Parse("2006-01-02", body.ExpectedDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "expected_date formatı 'YYYY-MM-DD' olmalı")
			}
			expectedDate = &d
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}

		var order models.PurchaseOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			totalAmount := decimal.Zero
			items := make([]models.PurchaseOrderItem, 0, len(body.Items))

			for _, itemReq := range body.Items {
				var product models.Product
				if err := tx.First(&product, itemReq.ProductID).Error; err != nil {
					return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ürün bulunamadı: %d", itemReq.ProductID))
				}

				unitPrice, err := decimal.NewFromString(itemReq.UnitPrice)
				if err != nil || unitPrice.LessThanOrEqual(decimal.Zero) {
					return fiber.NewError(fiber.StatusBadRequest, "unit_price pozitif bir sayı olmalı")
				}

				totalPrice := unitPrice.Mul(decimal.NewFromFloat(itemReq.Quantity))
				totalAmount = totalAmount.Add(totalPrice)

				items = append(items, models.PurchaseOrderItem{
					ProductID:      itemReq.ProductID,
					Quantity:       itemReq.Quantity,
					UnitPrice:      unitPrice,
					TotalPrice:     totalPrice,
					Specifications: itemReq.Specifications,
				})
			}

			orderNumber, err := sequence.Next(tx, sequence.PrefixPurchaseOrder, orderDate.Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş numarası üretilemedi")
			}

			order = models.PurchaseOrder{
				OrderNumber:  orderNumber,
				SupplierID:   body.SupplierID,
				Status:       models.PurchaseOrderPending,
				TotalAmount:  totalAmount,
				OrderDate:    orderDate,
				ExpectedDate: expectedDate,
				CreatedBy:    userID,
				Items:        items,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := database.DB.Preload("Items.Product").Preload("Supplier").First(&order, order.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş yüklenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satın alma siparişi oluşturuldu: %s, %d satır, toplam %s", order.OrderNumber, len(order.Items), order.TotalAmount.StringFixed(2)),
			After:       order,
		})

		return response.Created(c, toOrderResponse(&order))
	}
}

// GET /api/procurement/orders
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.PurchaseOrder{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if sid := c.QueryInt("supplier_id", 0); sid > 0 {
			q = q.Where("supplier_id = ?", sid)
		}

		var total int64
		q.Count(&total)

		var orders []models.PurchaseOrder
		if err := q.Preload("Items.Product").Preload("Supplier").
			Order("order_date DESC, id DESC").
			Limit(limit).Offset(offset).
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

// GET /api/procurement/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var order models.PurchaseOrder
		if err := database.DB.Preload("Items.Product").Preload("Supplier").First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satın alma siparişi bulunamadı")
		}

		return response.OK(c, toOrderResponse(&order))
	}
}

// PUT /api/procurement/orders/:id/confirm
func ConfirmOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return transitionOrder(c, models.PurchaseOrderConfirmed)
	}
}

// PUT /api/procurement/orders/:id/cancel
func CancelOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return transitionOrder(c, models.PurchaseOrderCancelled)
	}
}

// transitionOrder: Durum geçişi + ilgili zaman damgası, FOR UPDATE kilidi
// altında.
func transitionOrder(c *fiber.Ctx, target models.PurchaseOrderStatus) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
	}

	userID, userName, err := getUserInfo(c)
	if err != nil {
		return err
	}

	var order models.PurchaseOrder
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satın alma siparişi bulunamadı")
		}

		if !order.Status.CanTransitionTo(target) {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Sipariş '%s' durumundan '%s' durumuna geçemez", order.Status, target))
		}

		now := time.Now()
		updates := map[string]interface{}{"status": target}
		switch target {
		case models.PurchaseOrderConfirmed:
			updates["confirmed_at"] = &now
		case models.PurchaseOrderCancelled:
			updates["cancelled_at"] = &now
		}

		if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}
		return tx.Preload("Items.Product").Preload("Supplier").First(&order, order.ID).Error
	})
	if err != nil {
		return err
	}

	_ = audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "purchase_order",
		EntityID:    order.ID,
		Action:      models.AuditActionUpdate,
		Description: fmt.Sprintf("Sipariş durumu '%s' yapıldı: %s", target, order.OrderNumber),
		After:       order,
	})

	return response.OK(c, toOrderResponse(&order))
}

// POST /api/procurement/orders/:id/receive
// Mal kabul: satır miktarları, stok upsert'leri ve sipariş durumu tek
// transaction'da işlenir.
func ReceiveOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body ReceiveOrderRequest
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

		var order *models.PurchaseOrder
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			order, txErr = ReceiveOrder(tx, uint(id), body.ReceivedItems, body.ReceivingNotes)
			return txErr
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "purchase_order",
			EntityID:    order.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Mal kabul işlendi: %s, %d satır, yeni durum '%s'", order.OrderNumber, len(body.ReceivedItems), order.Status),
			After:       order,
		})

		return response.OK(c, toOrderResponse(order))
	}
}
