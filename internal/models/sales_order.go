package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesOrderStatus string

const (
	SalesOrderDraft        SalesOrderStatus = "draft"
	SalesOrderConfirmed    SalesOrderStatus = "confirmed"
	SalesOrderInProduction SalesOrderStatus = "in_production"
	SalesOrderReadyToShip  SalesOrderStatus = "ready_to_ship"
	SalesOrderShipped      SalesOrderStatus = "shipped"
	SalesOrderDelivered    SalesOrderStatus = "delivered"
	SalesOrderCancelled    SalesOrderStatus = "cancelled"
)

func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderDelivered || s == SalesOrderCancelled
}

// CanTransitionTo: draft → confirmed → in_production → ready_to_ship →
// shipped → delivered zinciri; teslim edilmemiş her durumdan iptal mümkün.
func (s SalesOrderStatus) CanTransitionTo(target SalesOrderStatus) bool {
	if target == SalesOrderCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case SalesOrderDraft:
		return target == SalesOrderConfirmed
	case SalesOrderConfirmed:
		return target == SalesOrderInProduction || target == SalesOrderReadyToShip
	case SalesOrderInProduction:
		return target == SalesOrderReadyToShip
	case SalesOrderReadyToShip:
		return target == SalesOrderShipped
	case SalesOrderShipped:
		return target == SalesOrderDelivered
	}
	return false
}

type SalesOrder struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:30;uniqueIndex;not null"` // SO-2025-0001
	CustomerID  uint   `gorm:"index;not null"`
	Customer    Customer
	Status      SalesOrderStatus `gorm:"size:20;not null;index"`
	TotalAmount decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	OrderDate   time.Time        `gorm:"index;not null"`
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	CreatedBy   uint             `gorm:"not null"`
	Items       []SalesOrderItem `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type SalesOrderItem struct {
	ID           uint `gorm:"primaryKey"`
	SalesOrderID uint `gorm:"index;not null"`
	ProductID    uint `gorm:"index;not null"`
	Product      Product
	Quantity     float64         `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
