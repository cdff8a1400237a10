package hrm_test

import (
	"testing"
	"time"

	"fabrika-backend/internal/hrm"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedActiveEmployee(t *testing.T, db *gorm.DB) *models.Employee {
	t.Helper()
	employee := models.Employee{
		EmployeeNumber: "EMP-2025-0002",
		Name:           "Mehmet Demir",
		Email:          "mehmet.demir@example.com",
		Department:     "Depo",
		BasicSalary:    decimal.NewFromInt(2500),
		HireDate:       time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
	require.NoError(t, db.Create(&employee).Error)
	return &employee
}

func TestCheckInCreatesDailyRecord(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedActiveEmployee(t, db)

	att, err := hrm.CheckIn(db, employee.ID)
	require.NoError(t, err)
	require.NotNil(t, att.CheckIn)
	require.Nil(t, att.CheckOut)
	require.Equal(t, models.AttendancePresent, att.Status)

	var count int64
	db.Model(&models.Attendance{}).Where("employee_id = ?", employee.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestCheckInRejectsSecondCheckInSameDay(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedActiveEmployee(t, db)

	_, err := hrm.CheckIn(db, employee.ID)
	require.NoError(t, err)

	_, err = hrm.CheckIn(db, employee.ID)
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestCheckInRejectsInactiveEmployee(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedActiveEmployee(t, db)
	require.NoError(t, db.Model(employee).Update("is_active", false).Error)

	_, err := hrm.CheckIn(db, employee.ID)
	require.Error(t, err)
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedActiveEmployee(t, db)

	_, err := hrm.CheckOut(db, employee.ID)
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestCheckOutCompletesDay(t *testing.T) {
	db := testutil.NewTestDB(t)
	employee := seedActiveEmployee(t, db)

	_, err := hrm.CheckIn(db, employee.ID)
	require.NoError(t, err)

	att, err := hrm.CheckOut(db, employee.ID)
	require.NoError(t, err)
	require.NotNil(t, att.CheckIn)
	require.NotNil(t, att.CheckOut)

	// Aynı gün ikinci çıkış reddedilir
	_, err = hrm.CheckOut(db, employee.ID)
	require.Error(t, err)
}
