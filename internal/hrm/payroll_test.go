package hrm_test

import (
	"testing"
	"time"

	"fabrika-backend/internal/hrm"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedEmployee(t *testing.T, db *gorm.DB, salary int64) *models.Employee {
	t.Helper()

	employee := models.Employee{
		EmployeeNumber: "EMP-2025-0001",
		Name:           "Ayşe Kaya",
		Email:          "ayse.kaya@example.com",
		Department:     "Üretim",
		BasicSalary:    decimal.NewFromInt(salary),
		HireDate:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	require.NoError(t, db.Create(&employee).Error)
	return &employee
}

func seedPresentDays(t *testing.T, db *gorm.DB, employeeID uint, year int, month time.Month, days int) {
	t.Helper()
	for d := 1; d <= days; d++ {
		day := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		checkIn := day.Add(8 * time.Hour)
		require.NoError(t, db.Create(&models.Attendance{
			EmployeeID: employeeID,
			Date:       day,
			CheckIn:    &checkIn,
			Status:     models.AttendancePresent,
		}).Error)
	}
}

func generate(db *gorm.DB, in hrm.GeneratePayrollInput) (*models.Payroll, error) {
	var payroll *models.Payroll
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		payroll, txErr = hrm.GeneratePayroll(tx, in)
		return txErr
	})
	return payroll, err
}

func TestGeneratePayrollFormula(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)
	seedPresentDays(t, db, employee.ID, 2025, time.March, 22)

	payroll, err := generate(db, hrm.GeneratePayrollInput{
		EmployeeID:  employee.ID,
		PayMonth:    3,
		PayYear:     2025,
		BasicSalary: employee.BasicSalary,
	})
	require.NoError(t, err)

	// (3000/30)*22 = 2200, kesinti yok
	require.Equal(t, 22, payroll.WorkingDays)
	require.True(t, payroll.GrossSalary.Equal(decimal.NewFromInt(2200)),
		"gross = %s", payroll.GrossSalary)
	require.True(t, payroll.NetSalary.Equal(decimal.NewFromInt(2200)))
	require.Equal(t, models.PayrollDraft, payroll.Status)
}

func TestGeneratePayrollWithOvertimeAndDeductions(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)
	seedPresentDays(t, db, employee.ID, 2025, time.April, 30)

	payroll, err := generate(db, hrm.GeneratePayrollInput{
		EmployeeID:    employee.ID,
		PayMonth:      4,
		PayYear:       2025,
		BasicSalary:   employee.BasicSalary,
		OvertimeHours: decimal.NewFromInt(10),
		OvertimeRate:  decimal.NewFromInt(25),
		Allowances:    decimal.NewFromInt(200),
		Deductions:    decimal.NewFromInt(450),
	})
	require.NoError(t, err)

	// gross = 3000 + 250 + 200 = 3450, net = 3450 - 450 = 3000
	require.True(t, payroll.OvertimePay.Equal(decimal.NewFromInt(250)))
	require.True(t, payroll.GrossSalary.Equal(decimal.NewFromInt(3450)))
	require.True(t, payroll.NetSalary.Equal(decimal.NewFromInt(3000)))
}

func TestGeneratePayrollCountsOnlyPresentDaysInPeriod(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)
	seedPresentDays(t, db, employee.ID, 2025, time.May, 10)

	// Başka ay ve izinli gün sayılmamalı
	seedPresentDays(t, db, employee.ID, 2025, time.June, 5)
	leaveDay := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Attendance{
		EmployeeID: employee.ID,
		Date:       leaveDay,
		Status:     models.AttendanceOnLeave,
	}).Error)

	payroll, err := generate(db, hrm.GeneratePayrollInput{
		EmployeeID:  employee.ID,
		PayMonth:    5,
		PayYear:     2025,
		BasicSalary: employee.BasicSalary,
	})
	require.NoError(t, err)
	require.Equal(t, 10, payroll.WorkingDays)
}

func TestGeneratePayrollRejectsDuplicatePeriod(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)

	in := hrm.GeneratePayrollInput{
		EmployeeID:  employee.ID,
		PayMonth:    7,
		PayYear:     2025,
		BasicSalary: employee.BasicSalary,
	}
	_, err := generate(db, in)
	require.NoError(t, err)

	_, err = generate(db, in)
	require.Error(t, err)
}

func TestGeneratePayrollRejectsInactiveEmployee(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)
	require.NoError(t, db.Model(employee).Update("is_active", false).Error)

	_, err := generate(db, hrm.GeneratePayrollInput{
		EmployeeID:  employee.ID,
		PayMonth:    8,
		PayYear:     2025,
		BasicSalary: employee.BasicSalary,
	})
	require.Error(t, err)
}

func TestApprovePayroll(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedEmployee(t, db, 3000)

	payroll, err := generate(db, hrm.GeneratePayrollInput{
		EmployeeID:  employee.ID,
		PayMonth:    9,
		PayYear:     2025,
		BasicSalary: employee.BasicSalary,
	})
	require.NoError(t, err)

	var approved *models.Payroll
	err = db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		approved, txErr = hrm.ApprovePayroll(tx, payroll.ID, 42)
		return txErr
	})
	require.NoError(t, err)
	require.Equal(t, models.PayrollApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	require.EqualValues(t, 42, *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	// Onaylı bordro ikinci kez onaylanamaz
	err = db.Transaction(func(tx *gorm.DB) error {
		_, txErr := hrm.ApprovePayroll(tx, payroll.ID, 42)
		return txErr
	})
	require.Error(t, err)
}
