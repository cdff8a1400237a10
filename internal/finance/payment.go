package finance

import (
	"time"

	"fabrika-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ödeme mutabakatı. PaidAmount yeni tutar eklenerek değil, faturaya bağlı
// tamamlanmış ödemelerin toplamı yeniden hesaplanarak türetilir; böylece
// dışarıdan yapılmış bir düzeltme sonraki ödemede kendiliğinden toparlanır.
// Kayıt ve yeniden hesap tek transaction içinde, fatura satırı FOR UPDATE
// kilitliyken yapılır.

// RecordPayment: Faturaya ödeme işler. tx bir transaction olmalıdır.
func RecordPayment(tx *gorm.DB, invoiceID uint, amount decimal.Decimal, method, reference string, recordedBy uint) (*models.Invoice, *models.Payment, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "payment_amount 0'dan büyük olmalı")
	}
	if method == "" {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "payment_method zorunlu")
	}

	var invoice models.Invoice
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, "id = ?", invoiceID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
	}

	if invoice.Status.IsLocked() {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Ödenmiş fatura güncellenemez")
	}

	if reference == "" {
		reference = uuid.NewString()
	}

	now := time.Now()
	payment := models.Payment{
		InvoiceID:   invoice.ID,
		Amount:      amount,
		Method:      method,
		Reference:   reference,
		Status:      models.PaymentCompleted,
		PaymentDate: now,
		RecordedBy:  recordedBy,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
	}

	// paid_amount = tamamlanmış ödemelerin toplamı (yeniden türet)
	paidAmount, err := sumCompletedPayments(tx, invoice.ID)
	if err != nil {
		return nil, nil, err
	}

	newStatus := models.InvoicePartiallyPaid
	updates := map[string]interface{}{"paid_amount": paidAmount}
	if paidAmount.GreaterThanOrEqual(invoice.TotalAmount) {
		newStatus = models.InvoicePaid
		updates["payment_date"] = &now // yalnızca tamamen ödendiğinde
	}
	if !invoice.Status.CanTransitionTo(newStatus) {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, "Fatura durumu güncellenemedi")
	}
	updates["status"] = newStatus

	if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(updates).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Fatura güncellenemedi")
	}

	if err := tx.Preload("Payments").Preload("Customer").First(&invoice, invoice.ID).Error; err != nil {
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Fatura yeniden yüklenemedi")
	}
	return &invoice, &payment, nil
}

func sumCompletedPayments(tx *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var raw *string
	err := tx.Model(&models.Payment{}).
		Select("SUM(amount)").
		Where("invoice_id = ? AND status = ?", invoiceID, models.PaymentCompleted).
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, fiber.NewError(fiber.StatusInternalServerError, "Ödemeler toplanamadı")
	}
	if raw == nil {
		return decimal.Zero, nil
	}
	total, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fiber.NewError(fiber.StatusInternalServerError, "Ödeme toplamı çözümlenemedi")
	}
	return total, nil
}
