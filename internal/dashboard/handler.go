package dashboard

import (
	"time"

	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Salt okunur özet uçları. Rakamlar anlık sorgularla türetilir; ayrı bir
// özet tablosu tutulmaz.

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

func countByStatus(model interface{}) ([]statusCount, error) {
	var counts []statusCount
	err := database.DB.Model(model).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func sumDecimal(model interface{}, column string, where string, args ...interface{}) (decimal.Decimal, error) {
	var raw *string
	q := database.DB.Model(model).Select("SUM(" + column + ")")
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*raw)
}

// GET /api/dashboard/procurement
func ProcurementSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderCounts, err := countByStatus(&models.PurchaseOrder{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş özetleri alınamadı")
		}

		var pendingRequests int64
		database.DB.Model(&models.PurchaseRequest{}).
			Where("status = ?", models.PurchaseRequestPending).
			Count(&pendingRequests)

		openTotal, err := sumDecimal(&models.PurchaseOrder{}, "total_amount",
			"status IN ?", []models.PurchaseOrderStatus{
				models.PurchaseOrderConfirmed, models.PurchaseOrderPartiallyReceived,
			})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş tutarları toplanamadı")
		}

		return response.OK(c, fiber.Map{
			"orders_by_status": orderCounts,
			"pending_requests": pendingRequests,
			"open_order_total": openTotal.StringFixed(2),
		})
	}
}

// GET /api/dashboard/sales
func SalesSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderCounts, err := countByStatus(&models.SalesOrder{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş özetleri alınamadı")
		}

		now := time.Now().UTC()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

		monthlyTotal, err := sumDecimal(&models.SalesOrder{}, "total_amount",
			"status <> ? AND order_date >= ?", models.SalesOrderCancelled, monthStart)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş tutarları toplanamadı")
		}

		return response.OK(c, fiber.Map{
			"orders_by_status": orderCounts,
			"monthly_total":    monthlyTotal.StringFixed(2),
		})
	}
}

// GET /api/dashboard/finance
func FinanceSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		invoiceCounts, err := countByStatus(&models.Invoice{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura özetleri alınamadı")
		}

		invoiced, err := sumDecimal(&models.Invoice{}, "total_amount", "")
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fatura tutarları toplanamadı")
		}
		collected, err := sumDecimal(&models.Payment{}, "amount",
			"status = ?", models.PaymentCompleted)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler toplanamadı")
		}

		var overdue int64
		database.DB.Model(&models.Invoice{}).
			Where("status <> ? AND due_date IS NOT NULL AND due_date < ?", models.InvoicePaid, time.Now()).
			Count(&overdue)

		return response.OK(c, fiber.Map{
			"invoices_by_status": invoiceCounts,
			"total_invoiced":     invoiced.StringFixed(2),
			"total_collected":    collected.StringFixed(2),
			"outstanding":        invoiced.Sub(collected).StringFixed(2),
			"overdue_invoices":   overdue,
		})
	}
}

// GET /api/dashboard/inventory
func InventorySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var productCount, itemCount, lowStock int64
		database.DB.Model(&models.Product{}).Count(&productCount)
		database.DB.Model(&models.InventoryItem{}).Count(&itemCount)
		database.DB.Model(&models.InventoryItem{}).
			Where("quantity_on_hand <= reorder_level").
			Count(&lowStock)

		return response.OK(c, fiber.Map{
			"product_count":   productCount,
			"stocked_items":   itemCount,
			"low_stock_items": lowStock,
		})
	}
}

// GET /api/dashboard/hrm
func HRMSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var headcount int64
		database.DB.Model(&models.Employee{}).
			Where("is_active = ?", true).
			Count(&headcount)

		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		var presentToday int64
		database.DB.Model(&models.Attendance{}).
			Where("date = ? AND status = ?", today, models.AttendancePresent).
			Count(&presentToday)

		var draftPayrolls int64
		database.DB.Model(&models.Payroll{}).
			Where("status = ?", models.PayrollDraft).
			Count(&draftPayrolls)

		return response.OK(c, fiber.Map{
			"active_employees": headcount,
			"present_today":    presentToday,
			"draft_payrolls":   draftPayrolls,
		})
	}
}

// GET /api/dashboard/production
func ProductionSummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		orderCounts, err := countByStatus(&models.ProductionOrder{})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Üretim özetleri alınamadı")
		}

		var pendingQC int64
		database.DB.Model(&models.QualityControl{}).
			Where("result = ?", models.QualityPending).
			Count(&pendingQC)

		var underMaintenance int64
		database.DB.Model(&models.Equipment{}).
			Where("status = ?", models.EquipmentUnderMaintenance).
			Count(&underMaintenance)

		return response.OK(c, fiber.Map{
			"orders_by_status":  orderCounts,
			"pending_controls":  pendingQC,
			"under_maintenance": underMaintenance,
		})
	}
}
