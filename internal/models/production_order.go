package models

import "time"

type ProductionOrderStatus string

const (
	ProductionOrderPlanned    ProductionOrderStatus = "planned"
	ProductionOrderInProgress ProductionOrderStatus = "in_progress"
	ProductionOrderCompleted  ProductionOrderStatus = "completed"
	ProductionOrderCancelled  ProductionOrderStatus = "cancelled"
)

func (s ProductionOrderStatus) IsTerminal() bool {
	return s == ProductionOrderCompleted || s == ProductionOrderCancelled
}

func (s ProductionOrderStatus) CanTransitionTo(target ProductionOrderStatus) bool {
	if target == ProductionOrderCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case ProductionOrderPlanned:
		return target == ProductionOrderInProgress
	case ProductionOrderInProgress:
		return target == ProductionOrderCompleted
	}
	return false
}

// ProductionOrder: Üretim emri. Tamamlandığında üretilen miktar mamul
// stoğuna eklenir.
type ProductionOrder struct {
	ID             uint   `gorm:"primaryKey"`
	OrderNumber    string `gorm:"size:30;uniqueIndex;not null"` // PR-2025-0001
	ProductID      uint   `gorm:"index;not null"`
	Product        Product
	Quantity       float64               `gorm:"not null"` // planlanan üretim miktarı
	Status         ProductionOrderStatus `gorm:"size:20;not null;index"`
	PlannedDate    time.Time             `gorm:"index;not null"`
	StartedAt      *time.Time
	CompletionDate *time.Time
	CancelledAt    *time.Time
	Notes          string `gorm:"size:500"`
	CreatedBy      uint   `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
