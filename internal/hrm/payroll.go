package hrm

import (
	"fmt"
	"time"

	"fabrika-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// payrollBaseDays: Aylık baz çalışma günü politikası. Takvimden
// hesaplanmaz; bordro formülü sabit 30 gün üzerinden oranlar.
const payrollBaseDays = 30

type GeneratePayrollInput struct {
	EmployeeID    uint
	PayMonth      int
	PayYear       int
	BasicSalary   decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	Allowances    decimal.Decimal
	Deductions    decimal.Decimal
}

// GeneratePayroll: Aylık bordro üretir. (employee, month, year) başına tek
// bordro; çalışılan gün sayısı o ayın "present" devam kayıtlarından sayılır.
// gross = (basic/30)*working_days + overtime_hours*overtime_rate + allowances
// net   = gross - deductions
func GeneratePayroll(tx *gorm.DB, in GeneratePayrollInput) (*models.Payroll, error) {
	if in.PayMonth < 1 || in.PayMonth > 12 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "pay_month 1-12 arasında olmalı")
	}
	if in.BasicSalary.LessThanOrEqual(decimal.Zero) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "basic_salary 0'dan büyük olmalı")
	}

	var employee models.Employee
	if err := tx.First(&employee, "id = ? AND is_active = ?", in.EmployeeID, true).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
	}

	var count int64
	tx.Model(&models.Payroll{}).
		Where("employee_id = ? AND pay_month = ? AND pay_year = ?", in.EmployeeID, in.PayMonth, in.PayYear).
		Count(&count)
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%d/%d dönemi için bu personelin bordrosu zaten var", in.PayMonth, in.PayYear))
	}

	// Ay içindeki "present" günleri say
	monthStart := time.Date(in.PayYear, time.Month(in.PayMonth), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var workingDays int64
	tx.Model(&models.Attendance{}).
		Where("employee_id = ? AND status = ? AND date >= ? AND date < ?",
			in.EmployeeID, models.AttendancePresent, monthStart, monthEnd).
		Count(&workingDays)

	overtimePay := in.OvertimeHours.Mul(in.OvertimeRate)
	grossSalary := in.BasicSalary.
		Div(decimal.NewFromInt(payrollBaseDays)).
		Mul(decimal.NewFromInt(workingDays)).
		Add(overtimePay).
		Add(in.Allowances).
		Round(2)
	netSalary := grossSalary.Sub(in.Deductions)

	payroll := models.Payroll{
		EmployeeID:    in.EmployeeID,
		PayMonth:      in.PayMonth,
		PayYear:       in.PayYear,
		BasicSalary:   in.BasicSalary,
		WorkingDays:   int(workingDays),
		OvertimeHours: in.OvertimeHours,
		OvertimeRate:  in.OvertimeRate,
		OvertimePay:   overtimePay,
		Allowances:    in.Allowances,
		Deductions:    in.Deductions,
		GrossSalary:   grossSalary,
		NetSalary:     netSalary,
		Status:        models.PayrollDraft,
	}
	if err := tx.Create(&payroll).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Bordro oluşturulamadı")
	}

	payroll.Employee = employee
	return &payroll, nil
}

// ApprovePayroll: Taslak bordroyu onaylar; onaylayan ve zaman damgalanır.
// Ödeme/havale bu sistemde modellenmez.
func ApprovePayroll(tx *gorm.DB, payrollID uint, approvedBy uint) (*models.Payroll, error) {
	var payroll models.Payroll
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payroll, "id = ?", payrollID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Bordro bulunamadı")
	}

	if !payroll.Status.CanTransitionTo(models.PayrollApproved) {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Yalnızca taslak bordro onaylanabilir; mevcut durum '%s'", payroll.Status))
	}

	now := time.Now()
	if err := tx.Model(&models.Payroll{}).Where("id = ?", payroll.ID).Updates(map[string]interface{}{
		"status":      models.PayrollApproved,
		"approved_by": approvedBy,
		"approved_at": &now,
	}).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Bordro güncellenemedi")
	}

	if err := tx.Preload("Employee").First(&payroll, payroll.ID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Bordro yeniden yüklenemedi")
	}
	return &payroll, nil
}
