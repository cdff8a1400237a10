package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullan
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}

	return nil
}

// UndoLog - Bir audit log'u geri al. Yalnızca basit CRUD entity'leri geri
// alınabilir; mal kabul / ödeme gibi mutabakat işlemlerinin düzeltmesi satır
// restore ile değil, ters yönlü iş kaydıyla yapılır.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log bulunamadı: %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("bu işlem zaten geri alınmış")
	}

	switch log.Action {
	case models.AuditActionCreate:
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("entity silinemedi: %w", err)
		}

	case models.AuditActionUpdate:
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("entity geri yüklenemedi: %w", err)
		}

	case models.AuditActionDelete:
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("entity geri oluşturulamadı: %w", err)
		}

	default:
		return fmt.Errorf("bu işlem türü geri alınamaz")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("log güncellenemedi: %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Geri alındı: %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("undo log kaydedilemedi: %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "supplier":
		return database.DB.Delete(&models.Supplier{}, "id = ?", entityID).Error
	case "customer":
		return database.DB.Delete(&models.Customer{}, "id = ?", entityID).Error
	case "product":
		return database.DB.Delete(&models.Product{}, "id = ?", entityID).Error
	case "equipment":
		return database.DB.Delete(&models.Equipment{}, "id = ?", entityID).Error
	case "quality_control":
		return database.DB.Delete(&models.QualityControl{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("geri alınamayan entity tipi: %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "supplier":
		var s models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &s); err != nil {
			return err
		}
		s.ID = 0
		return database.DB.Create(&s).Error

	case "customer":
		var cu models.Customer
		if err := json.Unmarshal([]byte(dataJSON), &cu); err != nil {
			return err
		}
		cu.ID = 0
		return database.DB.Create(&cu).Error

	case "product":
		var p models.Product
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		p.ID = 0
		return database.DB.Create(&p).Error

	case "equipment":
		var e models.Equipment
		if err := json.Unmarshal([]byte(dataJSON), &e); err != nil {
			return err
		}
		e.ID = 0
		return database.DB.Create(&e).Error

	case "quality_control":
		var q models.QualityControl
		if err := json.Unmarshal([]byte(dataJSON), &q); err != nil {
			return err
		}
		q.ID = 0
		return database.DB.Create(&q).Error

	default:
		return fmt.Errorf("geri alınamayan entity tipi: %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "supplier":
		var s models.Supplier
		if err := json.Unmarshal([]byte(dataJSON), &s); err != nil {
			return err
		}
		return database.DB.Model(&models.Supplier{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":         s.Name,
			"contact_name": s.ContactName,
			"email":        s.Email,
			"phone":        s.Phone,
			"address":      s.Address,
			"tax_number":   s.TaxNumber,
		}).Error

	case "customer":
		var cu models.Customer
		if err := json.Unmarshal([]byte(dataJSON), &cu); err != nil {
			return err
		}
		return database.DB.Model(&models.Customer{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":         cu.Name,
			"contact_name": cu.ContactName,
			"email":        cu.Email,
			"phone":        cu.Phone,
			"address":      cu.Address,
			"tax_number":   cu.TaxNumber,
		}).Error

	case "product":
		var p models.Product
		if err := json.Unmarshal([]byte(dataJSON), &p); err != nil {
			return err
		}
		return database.DB.Model(&models.Product{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"name":        p.Name,
			"sku":         p.SKU,
			"unit":        p.Unit,
			"description": p.Description,
		}).Error

	case "equipment":
		var e models.Equipment
		if err := json.Unmarshal([]byte(dataJSON), &e); err != nil {
			return err
		}
		return database.DB.Model(&models.Equipment{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"code":     e.Code,
			"name":     e.Name,
			"location": e.Location,
			"status":   e.Status,
		}).Error

	default:
		return fmt.Errorf("geri alınamayan entity tipi: %s", entityType)
	}
}
