package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EquipmentStatus string

const (
	EquipmentOperational      EquipmentStatus = "operational"
	EquipmentUnderMaintenance EquipmentStatus = "under_maintenance"
	EquipmentRetired          EquipmentStatus = "retired"
)

func (s EquipmentStatus) IsTerminal() bool {
	return s == EquipmentRetired
}

func (s EquipmentStatus) CanTransitionTo(target EquipmentStatus) bool {
	if target == EquipmentRetired {
		return !s.IsTerminal()
	}
	switch s {
	case EquipmentOperational:
		return target == EquipmentUnderMaintenance
	case EquipmentUnderMaintenance:
		return target == EquipmentOperational
	}
	return false
}

type Equipment struct {
	ID          uint   `gorm:"primaryKey"`
	Code        string `gorm:"size:30;uniqueIndex;not null"`
	Name        string `gorm:"size:150;not null"`
	Location    string `gorm:"size:100"`
	Status      EquipmentStatus `gorm:"size:20;not null;index"`
	PurchasedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MaintenanceRecord struct {
	ID          uint `gorm:"primaryKey"`
	EquipmentID uint `gorm:"index;not null"`
	Equipment   Equipment
	Date        time.Time       `gorm:"index;not null"`
	Description string          `gorm:"size:500;not null"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PerformedBy string          `gorm:"size:100"`
	CreatedAt   time.Time
}
