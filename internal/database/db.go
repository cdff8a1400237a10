package database

import (
	"fabrika-backend/internal/config"
	"fabrika-backend/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("AutoMigrate hatası: %v", err)
	}

	logrus.Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate: Tüm tabloları oluşturur/günceller. Testler aynı listeyi
// in-memory sqlite üzerinde kullanır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Customer{},
		&models.Product{},
		&models.InventoryItem{},
		&models.PurchaseRequest{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderItem{},
		&models.SalesOrder{},
		&models.SalesOrderItem{},
		&models.ProductionOrder{},
		&models.Invoice{},
		&models.Payment{},
		&models.Employee{},
		&models.Attendance{},
		&models.Payroll{},
		&models.Equipment{},
		&models.MaintenanceRecord{},
		&models.QualityControl{},
		&models.DocumentSequence{},
		&models.AuditLog{},
	)
}
