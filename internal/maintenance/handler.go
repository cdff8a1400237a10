package maintenance

import (
	"fmt"
	"strings"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EquipmentRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Location    string `json:"location"`
	PurchasedAt string `json:"purchased_at"` // "2025-12-09", opsiyonel
}

type UpdateEquipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=operational under_maintenance retired"`
}

type CreateRecordRequest struct {
	Description string `json:"description" validate:"required"`
	Cost        string `json:"cost"`
	PerformedBy string `json:"performed_by"`
}

type RecordResponse struct {
	ID          uint   `json:"id"`
	EquipmentID uint   `json:"equipment_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Cost        string `json:"cost"`
	PerformedBy string `json:"performed_by"`
}

func toRecordResponse(r *models.MaintenanceRecord) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		EquipmentID: r.EquipmentID,
		Date:        r.Date.Format("2006-01-02 15:04:05"),
		Description: r.Description,
		Cost:        r.Cost.StringFixed(2),
		PerformedBy: r.PerformedBy,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userID, err := auth.CurrentUserID(c)
	if err != nil {
		return 0, "", err
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.Name, nil
}

// POST /api/maintenance/equipment
func CreateEquipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EquipmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		code := strings.TrimSpace(strings.ToUpper(body.Code))

		var count int64
		database.DB.Model(&models.Equipment{}).Where("code = ?", code).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bu kod ile kayıtlı ekipman var")
		}

		var purchasedAt *time.Time
		if body.PurchasedAt != "" {
			d, err := time.Parse("2006-01-02", body.PurchasedAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "purchased_at formatı 'YYYY-MM-DD' olmalı")
			}
			purchasedAt = &d
		}

		equipment := models.Equipment{
			Code:        code,
			Name:        body.Name,
			Location:    body.Location,
			Status:      models.EquipmentOperational,
			PurchasedAt: purchasedAt,
		}
		if err := database.DB.Create(&equipment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ekipman oluşturulamadı")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "equipment",
				EntityID:    equipment.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ekipman eklendi: %s (%s)", equipment.Name, equipment.Code),
				After:       equipment,
			})
		}

		return response.Created(c, equipment)
	}
}

// GET /api/maintenance/equipment
func ListEquipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Equipment{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if loc := c.Query("location"); loc != "" {
			q = q.Where("location ILIKE ?", "%"+loc+"%")
		}

		var total int64
		q.Count(&total)

		var equipment []models.Equipment
		if err := q.Order("code").Limit(limit).Offset(offset).Find(&equipment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ekipmanlar listelenemedi")
		}

		return response.Paginated(c, equipment, page, limit, total)
	}
}

// GET /api/maintenance/equipment/:id
func GetEquipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ekipman id")
		}

		var equipment models.Equipment
		if err := database.DB.First(&equipment, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ekipman bulunamadı")
		}

		return response.OK(c, equipment)
	}
}

// PUT /api/maintenance/equipment/:id/status
// operational ↔ under_maintenance; retired kalıcıdır.
func UpdateEquipmentStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ekipman id")
		}

		var body UpdateEquipmentStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		target := models.EquipmentStatus(body.Status)

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var equipment models.Equipment
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&equipment, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Ekipman bulunamadı")
			}

			if !equipment.Status.CanTransitionTo(target) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("'%s' durumundan '%s' durumuna geçilemez", equipment.Status, target))
			}

			if err := tx.Model(&models.Equipment{}).Where("id = ?", equipment.ID).
				Update("status", target).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ekipman güncellenemedi")
			}
			return tx.First(&equipment, equipment.ID).Error
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "equipment",
			EntityID:    equipment.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ekipman durumu güncellendi: %s, yeni durum '%s'", equipment.Code, equipment.Status),
			After:       equipment,
		})

		return response.OK(c, equipment)
	}
}

// DELETE /api/maintenance/equipment/:id
// Bakım geçmişi olan ekipman silinmez; retired durumuna alınır.
func DeleteEquipmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ekipman id")
		}

		var equipment models.Equipment
		if err := database.DB.First(&equipment, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ekipman bulunamadı")
		}

		var recordCount int64
		database.DB.Model(&models.MaintenanceRecord{}).
			Where("equipment_id = ?", equipment.ID).
			Count(&recordCount)
		if recordCount > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Bakım geçmişi olan ekipman silinemez; retired durumuna alın")
		}

		if err := database.DB.Delete(&equipment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ekipman silinemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "equipment",
				EntityID:    equipment.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ekipman silindi: %s (%s)", equipment.Name, equipment.Code),
				Before:      equipment,
			})
		}

		return response.OK(c, fiber.Map{"message": "Ekipman silindi"})
	}
}

// POST /api/maintenance/equipment/:id/records
func CreateRecordHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ekipman id")
		}

		var body CreateRecordRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		cost := decimal.Zero
		if body.Cost != "" {
			cost, err = decimal.NewFromString(body.Cost)
			if err != nil || cost.IsNegative() {
				return fiber.NewError(fiber.StatusBadRequest, "cost negatif olmayan bir sayı olmalı")
			}
		}

		var equipment models.Equipment
		if err := database.DB.First(&equipment, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ekipman bulunamadı")
		}
		if equipment.Status == models.EquipmentRetired {
			return fiber.NewError(fiber.StatusBadRequest, "Emekli ekipmana bakım kaydı girilemez")
		}

		record := models.MaintenanceRecord{
			EquipmentID: equipment.ID,
			Date:        time.Now(),
			Description: body.Description,
			Cost:        cost,
			PerformedBy: body.PerformedBy,
		}
		if err := database.DB.Create(&record).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bakım kaydı oluşturulamadı")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "maintenance_record",
				EntityID:    record.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Bakım kaydı eklendi: %s", equipment.Code),
				After:       record,
			})
		}

		return response.Created(c, toRecordResponse(&record))
	}
}

// GET /api/maintenance/equipment/:id/records
func ListRecordsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ekipman id")
		}

		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.MaintenanceRecord{}).Where("equipment_id = ?", id)

		var total int64
		q.Count(&total)

		var records []models.MaintenanceRecord
		if err := q.Order("date DESC").Limit(limit).Offset(offset).Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bakım kayıtları listelenemedi")
		}

		resp := make([]RecordResponse, 0, len(records))
		for i := range records {
			resp = append(resp, toRecordResponse(&records[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}
