package procurement_test

import (
	"testing"
	"time"

	"fabrika-backend/internal/models"
	"fabrika-backend/internal/procurement"
	"fabrika-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// İki satırlı onaylanmış bir sipariş kurar: 10 adet x 5.00 ve 20 adet x 3.00.
func seedConfirmedOrder(t *testing.T, db *gorm.DB) *models.PurchaseOrder {
	t.Helper()

	supplier := models.Supplier{Name: "Demir Çelik A.Ş."}
	require.NoError(t, db.Create(&supplier).Error)

	sac := models.Product{Name: "Sac Levha", SKU: "SAC-001", Unit: "adet"}
	vida := models.Product{Name: "Vida Paketi", SKU: "VID-001", Unit: "koli"}
	require.NoError(t, db.Create(&sac).Error)
	require.NoError(t, db.Create(&vida).Error)

	order := models.PurchaseOrder{
		OrderNumber: "PO-2025-0001",
		SupplierID:  supplier.ID,
		Status:      models.PurchaseOrderConfirmed,
		TotalAmount: decimal.NewFromInt(110),
		OrderDate:   time.Now(),
		CreatedBy:   1,
		Items: []models.PurchaseOrderItem{
			{ProductID: sac.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(5), TotalPrice: decimal.NewFromInt(50)},
			{ProductID: vida.ID, Quantity: 20, UnitPrice: decimal.NewFromInt(3), TotalPrice: decimal.NewFromInt(60)},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func receive(db *gorm.DB, orderID uint, lines []procurement.ReceiptLine) (*models.PurchaseOrder, error) {
	var order *models.PurchaseOrder
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = procurement.ReceiveOrder(tx, orderID, lines, "")
		return txErr
	})
	return order, err
}

func TestReceiveOrderPartialThenComplete(t *testing.T) {
	db := testutil.NewTestDB(t)
	order := seedConfirmedOrder(t, db)

	// İlk teslimat: ilk satır tamamen, ikinci satır kısmen
	got, err := receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[0].ID, ReceivedQuantity: 10},
		{ItemID: order.Items[1].ID, ReceivedQuantity: 15},
	})
	require.NoError(t, err)
	require.Equal(t, models.PurchaseOrderPartiallyReceived, got.Status)
	require.Nil(t, got.CompletionDate)

	var item models.InventoryItem
	require.NoError(t, db.Where("product_id = ?", order.Items[1].ProductID).First(&item).Error)
	require.Equal(t, 15.0, item.QuantityOnHand)
	require.Equal(t, float64(models.DefaultReorderLevel), item.ReorderLevel)

	// İkinci teslimat kalan 5 adedi kapatır
	got, err = receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[1].ID, ReceivedQuantity: 5},
	})
	require.NoError(t, err)
	require.Equal(t, models.PurchaseOrderCompleted, got.Status)
	require.NotNil(t, got.CompletionDate)

	require.NoError(t, db.Where("product_id = ?", order.Items[1].ProductID).First(&item).Error)
	require.Equal(t, 20.0, item.QuantityOnHand)
}

func TestReceiveOrderRejectsOverReceipt(t *testing.T) {
	db := testutil.NewTestDB(t)
	order := seedConfirmedOrder(t, db)

	_, err := receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[0].ID, ReceivedQuantity: 11},
	})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)

	// Hatalı teslimat hiçbir iz bırakmamalı
	var reloaded models.PurchaseOrder
	require.NoError(t, db.Preload("Items").First(&reloaded, order.ID).Error)
	require.Equal(t, models.PurchaseOrderConfirmed, reloaded.Status)
	require.Equal(t, 0.0, reloaded.Items[0].ReceivedQuantity)

	var stockCount int64
	db.Model(&models.InventoryItem{}).Count(&stockCount)
	require.Zero(t, stockCount)
}

func TestReceiveOrderRejectsCumulativeOverReceipt(t *testing.T) {
	db := testutil.NewTestDB(t)
	order := seedConfirmedOrder(t, db)

	_, err := receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[0].ID, ReceivedQuantity: 6},
	})
	require.NoError(t, err)

	// 6 + 6 > 10: kümülatif kontrol reddetmeli
	_, err = receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[0].ID, ReceivedQuantity: 6},
	})
	require.Error(t, err)
}

func TestReceiveOrderRejectsWrongStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	order := seedConfirmedOrder(t, db)
	require.NoError(t, db.Model(&models.PurchaseOrder{}).Where("id = ?", order.ID).
		Update("status", models.PurchaseOrderPending).Error)

	_, err := receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: order.Items[0].ID, ReceivedQuantity: 1},
	})
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
}

func TestReceiveOrderRejectsUnknownLine(t *testing.T) {
	db := testutil.NewTestDB(t)
	order := seedConfirmedOrder(t, db)

	_, err := receive(db, order.ID, []procurement.ReceiptLine{
		{ItemID: 99999, ReceivedQuantity: 1},
	})
	require.Error(t, err)
}
