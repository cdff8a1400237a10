package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee: Personel kaydı. Silme işlemi IsActive=false ile yapılır (soft
// delete); bordro ve devam kayıtları geçmişe dönük korunur.
type Employee struct {
	ID             uint   `gorm:"primaryKey"`
	EmployeeNumber string `gorm:"size:30;uniqueIndex;not null"` // EMP-2025-0001
	Name           string `gorm:"size:100;not null"`
	Email          string `gorm:"size:100;uniqueIndex;not null"`
	Phone          string `gorm:"size:30"`
	Department     string `gorm:"size:50;index"`
	Position       string `gorm:"size:50"`
	BasicSalary    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	HireDate       time.Time       `gorm:"not null"`
	IsActive       bool            `gorm:"not null;default:true;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
