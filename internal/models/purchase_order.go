package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderPending           PurchaseOrderStatus = "pending"
	PurchaseOrderConfirmed         PurchaseOrderStatus = "confirmed"
	PurchaseOrderPartiallyReceived PurchaseOrderStatus = "partially_received"
	PurchaseOrderCompleted         PurchaseOrderStatus = "completed"
	PurchaseOrderCancelled         PurchaseOrderStatus = "cancelled"
)

// IsTerminal: completed ve cancelled üzerinde başka işlem yapılamaz.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderCompleted || s == PurchaseOrderCancelled
}

// CanTransitionTo: Sipariş durum geçiş tablosu. İptal, terminal olmayan
// her durumdan mümkündür.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == PurchaseOrderCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case PurchaseOrderPending:
		return target == PurchaseOrderConfirmed
	case PurchaseOrderConfirmed:
		return target == PurchaseOrderPartiallyReceived || target == PurchaseOrderCompleted
	case PurchaseOrderPartiallyReceived:
		return target == PurchaseOrderPartiallyReceived || target == PurchaseOrderCompleted
	}
	return false
}

// CanReceive: Mal kabul yalnızca onaylanmış veya kısmen teslim alınmış
// siparişlerde yapılabilir.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderConfirmed || s == PurchaseOrderPartiallyReceived
}

type PurchaseOrder struct {
	ID             uint   `gorm:"primaryKey"`
	OrderNumber    string `gorm:"size:30;uniqueIndex;not null"` // PO-2025-0001
	SupplierID     uint   `gorm:"index;not null"`
	Supplier       Supplier
	Status         PurchaseOrderStatus `gorm:"size:20;not null;index"`
	TotalAmount    decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	OrderDate      time.Time           `gorm:"index;not null"`
	ExpectedDate   *time.Time
	ReceivingNotes string `gorm:"size:500"`
	ConfirmedAt    *time.Time
	CompletionDate *time.Time
	CancelledAt    *time.Time
	CreatedBy      uint                `gorm:"not null"`
	Items          []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type PurchaseOrderItem struct {
	ID               uint `gorm:"primaryKey"`
	PurchaseOrderID  uint `gorm:"index;not null"`
	ProductID        uint `gorm:"index;not null"`
	Product          Product
	Quantity         float64         `gorm:"not null"`           // sipariş edilen miktar
	ReceivedQuantity float64         `gorm:"not null;default:0"` // şimdiye kadar teslim alınan (<= Quantity)
	UnitPrice        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Specifications   string          `gorm:"size:255"`
	ReceivedDate     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
