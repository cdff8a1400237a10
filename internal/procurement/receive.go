package procurement

import (
	"fmt"
	"time"

	"fabrika-backend/internal/inventory"
	"fabrika-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mal kabul mutabakatı. Sipariş satırlarındaki teslim alınan miktarlar
// kümülatif artar (aynı payload iki kez gönderilirse iki kez işlenir),
// stok kayıtları upsert edilir ve sipariş durumu satırlardan yeniden
// türetilir. Tamamı tek transaction içinde çalışır: herhangi bir adım
// başarısız olursa önceki satır güncellemeleri ve stok artışları da geri
// alınır.

type ReceiptLine struct {
	ItemID           uint    `json:"id" validate:"required"`
	ReceivedQuantity float64 `json:"received_quantity" validate:"required,gt=0"`
}

// ReceiveOrder: Satın alma siparişine kısmi/tam teslimat işler. tx bir
// transaction olmalıdır.
func ReceiveOrder(tx *gorm.DB, orderID uint, lines []ReceiptLine, notes string) (*models.PurchaseOrder, error) {
	if len(lines) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "En az bir teslimat satırı gerekli")
	}

	var order models.PurchaseOrder
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", orderID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Satın alma siparişi bulunamadı")
	}

	if !order.Status.CanReceive() {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("'%s' durumundaki sipariş teslim alınamaz; sipariş onaylanmış olmalı", order.Status))
	}

	var items []models.PurchaseOrderItem
	if err := tx.Where("purchase_order_id = ?", order.ID).Find(&items).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş satırları okunamadı")
	}

	itemsByID := make(map[uint]*models.PurchaseOrderItem, len(items))
	for i := range items {
		itemsByID[items[i].ID] = &items[i]
	}

	now := time.Now()
	for _, line := range lines {
		item, ok := itemsByID[line.ItemID]
		if !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Sipariş satırı bulunamadı: %d", line.ItemID))
		}
		if line.ReceivedQuantity <= 0 {
			return nil, fiber.NewError(fiber.StatusBadRequest, "received_quantity 0'dan büyük olmalı")
		}

		// Kümülatif teslim alınan miktar sipariş edileni aşamaz
		if item.ReceivedQuantity+line.ReceivedQuantity > item.Quantity {
			return nil, fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Satır %d için fazla teslimat: sipariş %.2f, teslim alınmış %.2f, gelen %.2f",
					item.ID, item.Quantity, item.ReceivedQuantity, line.ReceivedQuantity))
		}

		item.ReceivedQuantity += line.ReceivedQuantity
		item.ReceivedDate = &now
		if err := tx.Model(&models.PurchaseOrderItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
			"received_quantity": item.ReceivedQuantity,
			"received_date":     item.ReceivedDate,
		}).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş satırı güncellenemedi")
		}

		if err := inventory.IncreaseStock(tx, item.ProductID, line.ReceivedQuantity); err != nil {
			return nil, err
		}
	}

	// Sipariş durumunu satırlardan yeniden türet
	allReceived := true
	for i := range items {
		if items[i].ReceivedQuantity < items[i].Quantity {
			allReceived = false
			break
		}
	}

	newStatus := models.PurchaseOrderPartiallyReceived
	if allReceived {
		newStatus = models.PurchaseOrderCompleted
	}
	if !order.Status.CanTransitionTo(newStatus) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Sipariş '%s' durumundan '%s' durumuna geçemez", order.Status, newStatus))
	}

	updates := map[string]interface{}{"status": newStatus}
	if notes != "" {
		updates["receiving_notes"] = notes
	}
	if allReceived {
		updates["completion_date"] = &now
	}
	if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).Updates(updates).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş durumu güncellenemedi")
	}

	if err := tx.Preload("Items.Product").Preload("Supplier").First(&order, order.ID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Sipariş yeniden yüklenemedi")
	}
	return &order, nil
}
