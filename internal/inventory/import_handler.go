package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Toplu ürün içe aktarma. Beklenen kolonlar:
//   A: ürün adı, B: stok kodu (SKU), C: birim, D: açıklama (opsiyonel),
//   E: başlangıç miktarı (opsiyonel)
// SKU'su zaten kayıtlı satırlar atlanır; dosyanın tamamı tek transaction
// içinde işlenir, hatalı satır tüm içe aktarmayı geri alır.

type importResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// POST /api/inventory/products/import  (multipart, alan adı "file")
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası gerekli (alan adı: file)")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası okunamadı: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sheet bulunamadı")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet okunamadı: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		// İlk satır başlık mı?
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "ÜRÜN") || strings.Contains(firstCell, "PRODUCT") ||
				strings.Contains(firstCell, "NAME") || strings.Contains(firstCell, "AD") {
				startIndex = 1
			}
		}

		result := importResult{Errors: make([]string, 0)}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := startIndex; i < len(rows); i++ {
				row := rows[i]
				if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
					continue
				}

				name := strings.TrimSpace(row[0])
				var sku, unit, description string
				if len(row) > 1 {
					sku = strings.TrimSpace(strings.ToUpper(row[1]))
				}
				if len(row) > 2 {
					unit = strings.TrimSpace(row[2])
				}
				if len(row) > 3 {
					description = strings.TrimSpace(row[3])
				}

				if sku == "" {
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("Satır %d: stok kodu (SKU) boş olamaz", i+1))
				}
				if unit == "" {
					unit = "adet"
				}

				var count int64
				tx.Model(&models.Product{}).Where("sku = ? OR name = ?", sku, name).Count(&count)
				if count > 0 {
					result.Skipped++
					continue
				}

				product := models.Product{
					Name:        name,
					SKU:         sku,
					Unit:        unit,
					Description: description,
				}
				if err := tx.Create(&product).Error; err != nil {
					return fiber.NewError(fiber.StatusInternalServerError,
						fmt.Sprintf("Satır %d: ürün kaydedilemedi", i+1))
				}

				// Opsiyonel başlangıç miktarı
				if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
					qty, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[4]), ",", "."), 64)
					if err != nil || qty < 0 {
						return fiber.NewError(fiber.StatusBadRequest,
							fmt.Sprintf("Satır %d: miktar sayısal olmalı", i+1))
					}
					if qty > 0 {
						if err := IncreaseStock(tx, product.ID, qty); err != nil {
							return err
						}
					}
				}

				result.Imported++
			}
			return nil
		})
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"file":     fileHeader.Filename,
			"imported": result.Imported,
			"skipped":  result.Skipped,
		}).Info("Ürün içe aktarma tamamlandı")

		if userID, userName, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "product",
				EntityID:    0,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Toplu ürün içe aktarma: %d eklendi, %d atlandı (%s)", result.Imported, result.Skipped, fileHeader.Filename),
			})
		}

		return response.OK(c, result)
	}
}
