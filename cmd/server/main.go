package main

import (
	"strings"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/config"
	"fabrika-backend/internal/dashboard"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/finance"
	"fabrika-backend/internal/hrm"
	"fabrika-backend/internal/inventory"
	"fabrika-backend/internal/maintenance"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/procurement"
	"fabrika-backend/internal/production"
	"fabrika-backend/internal/quality"
	"fabrika-backend/internal/sales"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"success": false,
					"error":   e.Message,
				})
			}
			logrus.WithError(err).Error("Beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Kullanıcı yönetimi (yalnızca admin)
	adminRoutes := protected.Group("")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())

	// Satınalma
	protected.Post("/procurement/suppliers", procurement.CreateSupplierHandler())
	protected.Get("/procurement/suppliers", procurement.ListSuppliersHandler())
	protected.Get("/procurement/suppliers/:id", procurement.GetSupplierHandler())
	protected.Put("/procurement/suppliers/:id", procurement.UpdateSupplierHandler())
	protected.Delete("/procurement/suppliers/:id", procurement.DeleteSupplierHandler())

	protected.Post("/procurement/requests", procurement.CreateRequestHandler())
	protected.Get("/procurement/requests", procurement.ListRequestsHandler())
	protected.Put("/procurement/requests/:id/approve", procurement.ApproveRequestHandler())
	protected.Put("/procurement/requests/:id/reject", procurement.RejectRequestHandler())

	protected.Post("/procurement/orders", procurement.CreateOrderHandler())
	protected.Get("/procurement/orders", procurement.ListOrdersHandler())
	protected.Get("/procurement/orders/:id", procurement.GetOrderHandler())
	protected.Put("/procurement/orders/:id/confirm", procurement.ConfirmOrderHandler())
	protected.Put("/procurement/orders/:id/cancel", procurement.CancelOrderHandler())
	protected.Post("/procurement/orders/:id/receive", procurement.ReceiveOrderHandler())

	// Stok
	protected.Post("/inventory/products", inventory.CreateProductHandler())
	protected.Get("/inventory/products", inventory.ListProductsHandler())
	protected.Get("/inventory/products/:id", inventory.GetProductHandler())
	protected.Put("/inventory/products/:id", inventory.UpdateProductHandler())
	protected.Delete("/inventory/products/:id", inventory.DeleteProductHandler())
	protected.Post("/inventory/products/import", inventory.ImportProductsHandler())

	protected.Get("/inventory/items", inventory.ListItemsHandler())
	protected.Get("/inventory/items/:id", inventory.GetItemHandler())
	protected.Put("/inventory/items/:id/thresholds", inventory.UpdateThresholdsHandler())

	// Satış
	protected.Post("/sales/customers", sales.CreateCustomerHandler())
	protected.Get("/sales/customers", sales.ListCustomersHandler())
	protected.Get("/sales/customers/:id", sales.GetCustomerHandler())
	protected.Put("/sales/customers/:id", sales.UpdateCustomerHandler())
	protected.Delete("/sales/customers/:id", sales.DeleteCustomerHandler())

	protected.Post("/sales/orders", sales.CreateOrderHandler())
	protected.Get("/sales/orders", sales.ListOrdersHandler())
	protected.Get("/sales/orders/:id", sales.GetOrderHandler())
	protected.Put("/sales/orders/:id/status", sales.UpdateOrderStatusHandler())

	// Üretim
	protected.Post("/production/orders", production.CreateOrderHandler())
	protected.Get("/production/orders", production.ListOrdersHandler())
	protected.Get("/production/orders/:id", production.GetOrderHandler())
	protected.Put("/production/orders/:id/status", production.UpdateOrderStatusHandler())

	// Kalite kontrol
	protected.Post("/quality/controls", quality.CreateControlHandler())
	protected.Get("/quality/controls", quality.ListControlsHandler())
	protected.Get("/quality/controls/:id", quality.GetControlHandler())
	protected.Put("/quality/controls/:id/resolve", quality.ResolveControlHandler())
	protected.Delete("/quality/controls/:id", quality.DeleteControlHandler())

	// Bakım
	protected.Post("/maintenance/equipment", maintenance.CreateEquipmentHandler())
	protected.Get("/maintenance/equipment", maintenance.ListEquipmentHandler())
	protected.Get("/maintenance/equipment/:id", maintenance.GetEquipmentHandler())
	protected.Put("/maintenance/equipment/:id/status", maintenance.UpdateEquipmentStatusHandler())
	protected.Delete("/maintenance/equipment/:id", maintenance.DeleteEquipmentHandler())
	protected.Post("/maintenance/equipment/:id/records", maintenance.CreateRecordHandler())
	protected.Get("/maintenance/equipment/:id/records", maintenance.ListRecordsHandler())

	// Finans
	protected.Post("/finance/invoices", finance.CreateInvoiceHandler())
	protected.Get("/finance/invoices", finance.ListInvoicesHandler())
	protected.Get("/finance/invoices/:id", finance.GetInvoiceHandler())
	protected.Put("/finance/invoices/:id", finance.UpdateInvoiceHandler())
	protected.Post("/finance/invoices/:id/payment", finance.RecordPaymentHandler())

	// İnsan kaynakları
	protected.Post("/hrm/employees", hrm.CreateEmployeeHandler())
	protected.Get("/hrm/employees", hrm.ListEmployeesHandler())
	protected.Get("/hrm/employees/:id", hrm.GetEmployeeHandler())
	protected.Put("/hrm/employees/:id", hrm.UpdateEmployeeHandler())
	protected.Delete("/hrm/employees/:id", hrm.DeactivateEmployeeHandler())

	protected.Post("/hrm/attendance/checkin", hrm.CheckInHandler())
	protected.Post("/hrm/attendance/checkout", hrm.CheckOutHandler())
	protected.Get("/hrm/attendance", hrm.ListAttendanceHandler())

	// Bordro: üretme ve onay yalnızca admin/yönetici
	payrollRoutes := protected.Group("/hrm/payroll")
	payrollRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
	payrollRoutes.Post("/generate", hrm.GeneratePayrollHandler())
	payrollRoutes.Post("/:id/approve", hrm.ApprovePayrollHandler())
	payrollRoutes.Get("", hrm.ListPayrollHandler())

	// Dashboard
	protected.Get("/dashboard/procurement", dashboard.ProcurementSummaryHandler())
	protected.Get("/dashboard/sales", dashboard.SalesSummaryHandler())
	protected.Get("/dashboard/production", dashboard.ProductionSummaryHandler())
	protected.Get("/dashboard/inventory", dashboard.InventorySummaryHandler())
	protected.Get("/dashboard/finance", dashboard.FinanceSummaryHandler())
	protected.Get("/dashboard/hrm", dashboard.HRMSummaryHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	logrus.WithField("port", cfg.HTTPPort).Info("Sunucu başlatılıyor")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logrus.Fatal(err)
	}
}
