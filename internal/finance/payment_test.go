package finance_test

import (
	"testing"

	"fabrika-backend/internal/finance"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedInvoice(t *testing.T, db *gorm.DB, total int64) *models.Invoice {
	t.Helper()

	customer := models.Customer{Name: "Yılmaz Mobilya Ltd."}
	require.NoError(t, db.Create(&customer).Error)

	invoice := models.Invoice{
		InvoiceNumber: "INV-2025-0001",
		CustomerID:    customer.ID,
		TotalAmount:   decimal.NewFromInt(total),
		PaidAmount:    decimal.Zero,
		Status:        models.InvoicePending,
		CreatedBy:     1,
	}
	require.NoError(t, db.Create(&invoice).Error)
	return &invoice
}

func pay(db *gorm.DB, invoiceID uint, amount int64, method string) (*models.Invoice, *models.Payment, error) {
	var invoice *models.Invoice
	var payment *models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		invoice, payment, txErr = finance.RecordPayment(tx, invoiceID, decimal.NewFromInt(amount), method, "", 1)
		return txErr
	})
	return invoice, payment, err
}

func TestRecordPaymentPartialThenFull(t *testing.T) {
	db := testutil.NewTestDB(t)
	seeded := seedInvoice(t, db, 1000)

	invoice, payment, err := pay(db, seeded.ID, 400, "cash")
	require.NoError(t, err)
	require.Equal(t, models.InvoicePartiallyPaid, invoice.Status)
	require.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(400)))
	require.Nil(t, invoice.PaymentDate)
	require.Equal(t, models.PaymentCompleted, payment.Status)
	require.NotEmpty(t, payment.Reference) // boş referans otomatik doldurulur

	invoice, _, err = pay(db, seeded.ID, 600, "bank_transfer")
	require.NoError(t, err)
	require.Equal(t, models.InvoicePaid, invoice.Status)
	require.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(1000)))
	require.NotNil(t, invoice.PaymentDate)
	require.Len(t, invoice.Payments, 2)
}

func TestRecordPaymentRejectsPaidInvoice(t *testing.T) {
	db := testutil.NewTestDB(t)
	seeded := seedInvoice(t, db, 500)

	_, _, err := pay(db, seeded.ID, 500, "cash")
	require.NoError(t, err)

	// Kilitli faturaya yeni ödeme kabul edilmez
	_, _, err = pay(db, seeded.ID, 100, "cash")
	require.Error(t, err)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)

	var paymentCount int64
	db.Model(&models.Payment{}).Count(&paymentCount)
	require.EqualValues(t, 1, paymentCount)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	db := testutil.NewTestDB(t)
	seeded := seedInvoice(t, db, 500)

	_, _, err := pay(db, seeded.ID, 0, "cash")
	require.Error(t, err)

	_, _, err = pay(db, seeded.ID, -50, "cash")
	require.Error(t, err)
}

func TestRecordPaymentDerivesPaidAmountFromCompletedPayments(t *testing.T) {
	db := testutil.NewTestDB(t)
	seeded := seedInvoice(t, db, 1000)

	// Başarısız ödeme toplamı etkilememeli
	require.NoError(t, db.Create(&models.Payment{
		InvoiceID:   seeded.ID,
		Amount:      decimal.NewFromInt(999),
		Method:      "cash",
		Status:      models.PaymentFailed,
		PaymentDate: seeded.CreatedAt,
		RecordedBy:  1,
	}).Error)

	invoice, _, err := pay(db, seeded.ID, 300, "cash")
	require.NoError(t, err)
	require.True(t, invoice.PaidAmount.Equal(decimal.NewFromInt(300)))
	require.Equal(t, models.InvoicePartiallyPaid, invoice.Status)
}
