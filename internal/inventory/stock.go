package inventory

import (
	"errors"
	"fmt"

	"fabrika-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stok hareketleri her zaman çağıranın transaction'ı içinde, ilgili satır
// FOR UPDATE ile kilitlenerek yapılır; eşzamanlı mal kabul/sevkiyat
// isteklerinde kayıp güncelleme olmaz.

// IncreaseStock: Ürünün stok kaydını artırır; kayıt yoksa varsayılan
// eşiklerle oluşturur (upsert).
func IncreaseStock(tx *gorm.DB, productID uint, qty float64) error {
	if qty <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Stok artışı 0'dan büyük olmalı")
	}

	var item models.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&item).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.InventoryItem{
			ProductID:      productID,
			QuantityOnHand: qty,
			MinimumLevel:   models.DefaultMinimumLevel,
			MaximumLevel:   models.DefaultMaximumLevel,
			ReorderLevel:   models.DefaultReorderLevel,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı oluşturulamadı")
		}
		return nil
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı okunamadı")
	}

	item.QuantityOnHand += qty
	if err := tx.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Update("quantity_on_hand", item.QuantityOnHand).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
	}
	return nil
}

// DecreaseStock: Stoğu azaltır. Mevcut miktar yetmiyorsa işlem reddedilir;
// QuantityOnHand hiçbir zaman negatife düşmez.
func DecreaseStock(tx *gorm.DB, productID uint, qty float64) error {
	if qty <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Stok düşümü 0'dan büyük olmalı")
	}

	var item models.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Ürün için stok kaydı yok: %d", productID))
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Stok kaydı okunamadı")
	}

	if item.QuantityOnHand < qty {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Yetersiz stok: ürün %d için mevcut %.2f, istenen %.2f", productID, item.QuantityOnHand, qty))
	}

	item.QuantityOnHand -= qty
	if err := tx.Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Update("quantity_on_hand", item.QuantityOnHand).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
	}
	return nil
}
