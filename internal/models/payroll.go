package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayrollStatus string

const (
	PayrollDraft    PayrollStatus = "draft"
	PayrollApproved PayrollStatus = "approved"
)

func (s PayrollStatus) CanTransitionTo(target PayrollStatus) bool {
	return s == PayrollDraft && target == PayrollApproved
}

// Payroll: Aylık bordro. (employee, month, year) üçlüsü başına tek kayıt.
// gross = (basic/30)*working_days + overtime + allowances, net = gross - deductions.
type Payroll struct {
	ID            uint `gorm:"primaryKey"`
	EmployeeID    uint `gorm:"not null;uniqueIndex:idx_employee_period"`
	Employee      Employee
	PayMonth      int             `gorm:"not null;uniqueIndex:idx_employee_period"` // 1-12
	PayYear       int             `gorm:"not null;uniqueIndex:idx_employee_period"`
	BasicSalary   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	WorkingDays   int             `gorm:"not null"` // o ay "present" geçen gün sayısı
	OvertimeHours decimal.Decimal `gorm:"type:decimal(8,2);not null;default:0"`
	OvertimeRate  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	OvertimePay   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Allowances    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Deductions    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	GrossSalary   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	NetSalary     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        PayrollStatus   `gorm:"size:20;not null;index"`
	ApprovedBy    *uint
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
