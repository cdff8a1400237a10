package models

import "time"

// İlk mal kabulünde stok kaydı yoksa bu varsayılanlarla açılır.
const (
	DefaultMinimumLevel = 0
	DefaultMaximumLevel = 1000
	DefaultReorderLevel = 10
)

// InventoryItem: Ürün başına tek stok kaydı. Mal kabul ve sevkiyat
// işlemleri QuantityOnHand üzerinde artar/azalır; QuantityOnHand asla
// negatife düşmez.
type InventoryItem struct {
	ID             uint `gorm:"primaryKey"`
	ProductID      uint `gorm:"uniqueIndex;not null"`
	Product        Product
	QuantityOnHand float64 `gorm:"not null;default:0"`
	MinimumLevel   float64 `gorm:"not null;default:0"`
	MaximumLevel   float64 `gorm:"not null;default:0"`
	ReorderLevel   float64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
