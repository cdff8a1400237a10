package hrm

import (
	"errors"
	"time"

	"fabrika-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Devam kayıtları: personel + gün başına tek satır. Giriş günde bir kez,
// çıkış ancak girişten sonra ve günde bir kez.

// dayOf: Zamanı gün başlangıcına yuvarlar (tarih kolonu için).
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckIn: Günün devam kaydına giriş saati yazar; aynı gün ikinci giriş
// reddedilir.
func CheckIn(db *gorm.DB, employeeID uint) (*models.Attendance, error) {
	var employee models.Employee
	if err := db.First(&employee, "id = ? AND is_active = ?", employeeID, true).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Personel bulunamadı")
	}

	now := time.Now()
	today := dayOf(now)

	var att models.Attendance
	err := db.Where("employee_id = ? AND date = ?", employeeID, today).First(&att).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		att = models.Attendance{
			EmployeeID: employeeID,
			Date:       today,
			CheckIn:    &now,
			Status:     models.AttendancePresent,
		}
		if err := db.Create(&att).Error; err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Devam kaydı oluşturulamadı")
		}
		return &att, nil
	case err != nil:
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Devam kaydı okunamadı")
	}

	if att.CheckIn != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Bugün için giriş kaydı zaten var")
	}

	// Gün önceden izinli/devamsız işaretlenmiş olabilir; giriş yapılınca present olur
	att.CheckIn = &now
	att.Status = models.AttendancePresent
	if err := db.Save(&att).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Devam kaydı güncellenemedi")
	}
	return &att, nil
}

// CheckOut: Günün kaydına çıkış saati yazar. Giriş yoksa veya çıkış zaten
// yazılmışsa reddedilir.
func CheckOut(db *gorm.DB, employeeID uint) (*models.Attendance, error) {
	now := time.Now()
	today := dayOf(now)

	var att models.Attendance
	err := db.Where("employee_id = ? AND date = ?", employeeID, today).First(&att).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && att.CheckIn == nil) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Çıkış için önce giriş yapılmış olmalı")
	}
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Devam kaydı okunamadı")
	}

	if att.CheckOut != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Bugün için çıkış kaydı zaten var")
	}

	att.CheckOut = &now
	if err := db.Save(&att).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Devam kaydı güncellenemedi")
	}
	return &att, nil
}
