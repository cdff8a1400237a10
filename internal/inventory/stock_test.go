package inventory_test

import (
	"testing"

	"fabrika-backend/internal/inventory"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	product := models.Product{Name: "Profil Boru", SKU: "PRF-001", Unit: "adet"}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

func TestIncreaseStockCreatesItemWithDefaults(t *testing.T) {
	db := testutil.NewTestDB(t)
	product := seedProduct(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return inventory.IncreaseStock(tx, product.ID, 25)
	})
	require.NoError(t, err)

	var item models.InventoryItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
	require.Equal(t, 25.0, item.QuantityOnHand)
	require.Equal(t, float64(models.DefaultMinimumLevel), item.MinimumLevel)
	require.Equal(t, float64(models.DefaultMaximumLevel), item.MaximumLevel)
	require.Equal(t, float64(models.DefaultReorderLevel), item.ReorderLevel)
}

func TestIncreaseStockAccumulatesOnExistingItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	product := seedProduct(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := inventory.IncreaseStock(tx, product.ID, 10); err != nil {
			return err
		}
		return inventory.IncreaseStock(tx, product.ID, 7.5)
	})
	require.NoError(t, err)

	var item models.InventoryItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
	require.Equal(t, 17.5, item.QuantityOnHand)

	// Tek stok kaydı kalmalı (upsert)
	var count int64
	db.Model(&models.InventoryItem{}).Where("product_id = ?", product.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestDecreaseStockRejectsInsufficientQuantity(t *testing.T) {
	db := testutil.NewTestDB(t)
	product := seedProduct(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return inventory.IncreaseStock(tx, product.ID, 5)
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return inventory.DecreaseStock(tx, product.ID, 6)
	})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)

	// Miktar değişmemiş olmalı
	var item models.InventoryItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
	require.Equal(t, 5.0, item.QuantityOnHand)
}

func TestDecreaseStockRejectsMissingItem(t *testing.T) {
	db := testutil.NewTestDB(t)
	product := seedProduct(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return inventory.DecreaseStock(tx, product.ID, 1)
	})
	require.Error(t, err)
}

func TestDecreaseStockToExactlyZero(t *testing.T) {
	db := testutil.NewTestDB(t)
	product := seedProduct(t, db)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := inventory.IncreaseStock(tx, product.ID, 8); err != nil {
			return err
		}
		return inventory.DecreaseStock(tx, product.ID, 8)
	})
	require.NoError(t, err)

	var item models.InventoryItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
	require.Equal(t, 0.0, item.QuantityOnHand)
}
