package quality

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateControlRequest struct {
	ProductionOrderID uint   `json:"production_order_id" validate:"required"`
	Notes             string `json:"notes"`
}

type ResolveControlRequest struct {
	Result string `json:"result" validate:"required,oneof=passed failed"`
	Notes  string `json:"notes"`
}

type ControlResponse struct {
	ID                uint   `json:"id"`
	ProductionOrderID uint   `json:"production_order_id"`
	OrderNumber       string `json:"order_number"`
	InspectorID       uint   `json:"inspector_id"`
	Date              string `json:"date"`
	Result            string `json:"result"`
	Notes             string `json:"notes"`
}

func toControlResponse(qc *models.QualityControl) ControlResponse {
	return ControlResponse{
		ID:                qc.ID,
		ProductionOrderID: qc.ProductionOrderID,
		OrderNumber:       qc.ProductionOrder.OrderNumber,
		InspectorID:       qc.InspectorID,
		Date:              qc.Date.Format("2006-01-02 15:04:05"),
		Result:            string(qc.Result),
		Notes:             qc.Notes,
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

// POST /api/quality/controls
// Kontrol açan kullanıcı denetçi olarak kaydedilir; sonuç pending başlar.
func CreateControlHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateControlRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var order models.ProductionOrder
		if err := database.DB.First(&order, body.ProductionOrderID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Üretim emri bulunamadı")
		}
		if order.Status == models.ProductionOrderPlanned || order.Status == models.ProductionOrderCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Başlamamış veya iptal edilmiş üretim emri için kontrol açılamaz")
		}

		control := models.QualityControl{
			ProductionOrderID: body.ProductionOrderID,
			InspectorID:       userID,
			Date:              time.Now(),
			Result:            models.QualityPending,
			Notes:             body.Notes,
		}
		if err := database.DB.Create(&control).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalite kontrolü oluşturulamadı")
		}
		control.ProductionOrder = order

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "quality_control",
			EntityID:    control.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Kalite kontrolü açıldı: %s", order.OrderNumber),
			After:       control,
		})

		return response.Created(c, toControlResponse(&control))
	}
}

// GET /api/quality/controls
func ListControlsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.QualityControl{})
		if r := c.Query("result"); r != "" {
			q = q.Where("result = ?", r)
		}
		if oid := c.QueryInt("production_order_id", 0); oid > 0 {
			q = q.Where("production_order_id = ?", oid)
		}

		var total int64
		q.Count(&total)

		var controls []models.QualityControl
		if err := q.Preload("ProductionOrder").
			Order("id DESC").Limit(limit).Offset(offset).
			Find(&controls).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalite kontrolleri listelenemedi")
		}

		resp := make([]ControlResponse, 0, len(controls))
		for i := range controls {
			resp = append(resp, toControlResponse(&controls[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/quality/controls/:id
func GetControlHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kontrol id")
		}

		var control models.QualityControl
		if err := database.DB.Preload("ProductionOrder").First(&control, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalite kontrolü bulunamadı")
		}

		return response.OK(c, toControlResponse(&control))
	}
}

// PUT /api/quality/controls/:id/resolve
// Yalnızca bekleyen kontrol sonuçlandırılabilir; passed/failed kalıcıdır.
func ResolveControlHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kontrol id")
		}

		var body ResolveControlRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		target := models.QualityResult(body.Result)

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var control models.QualityControl
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&control, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Kalite kontrolü bulunamadı")
			}

			if !control.Result.CanTransitionTo(target) {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Yalnızca bekleyen kontrol sonuçlandırılabilir; mevcut sonuç '%s'", control.Result))
			}

			updates := map[string]interface{}{"result": target}
			if body.Notes != "" {
				updates["notes"] = body.Notes
			}
			if err := tx.Model(&models.QualityControl{}).Where("id = ?", control.ID).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Kalite kontrolü güncellenemedi")
			}
			return tx.Preload("ProductionOrder").First(&control, control.ID).Error
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "quality_control",
			EntityID:    control.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Kalite kontrolü sonuçlandı: %s, sonuç '%s'", control.ProductionOrder.OrderNumber, control.Result),
			After:       control,
		})

		return response.OK(c, toControlResponse(&control))
	}
}

// DELETE /api/quality/controls/:id
// Yalnızca bekleyen kontrol silinebilir; sonuçlanmış kayıt kalıcıdır.
func DeleteControlHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kontrol id")
		}

		var control models.QualityControl
		if err := database.DB.Preload("ProductionOrder").First(&control, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kalite kontrolü bulunamadı")
		}
		if control.Result.IsTerminal() {
			return fiber.NewError(fiber.StatusBadRequest, "Sonuçlanmış kontrol silinemez")
		}

		if err := database.DB.Delete(&control).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kalite kontrolü silinemedi")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "quality_control",
				EntityID:    control.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Kalite kontrolü silindi: %s", control.ProductionOrder.OrderNumber),
				Before:      control,
			})
		}

		return response.OK(c, fiber.Map{"message": "Kalite kontrolü silindi"})
	}
}
