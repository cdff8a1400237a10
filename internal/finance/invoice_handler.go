package finance

import (
	"fmt"
	"time"

	"fabrika-backend/internal/audit"
	"fabrika-backend/internal/auth"
	"fabrika-backend/internal/database"
	"fabrika-backend/internal/models"
	"fabrika-backend/internal/response"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreateInvoiceRequest struct {
	CustomerID   uint   `json:"customer_id" validate:"required"`
	SalesOrderID *uint  `json:"sales_order_id"`
	TotalAmount  string `json:"total_amount" validate:"required"`
	DueDate      string `json:"due_date"` // "2025-12-09", opsiyonel
	Notes        string `json:"notes"`
}

type UpdateInvoiceRequest struct {
	DueDate *string `json:"due_date"`
	Notes   *string `json:"notes"`
}

type RecordPaymentRequest struct {
	PaymentAmount    string `json:"payment_amount" validate:"required"`
	PaymentMethod    string `json:"payment_method" validate:"required,oneof=cash bank_transfer cheque credit_card"`
	PaymentReference string `json:"payment_reference"`
}

type PaymentResponse struct {
	ID          uint   `json:"id"`
	InvoiceID   uint   `json:"invoice_id"`
	Amount      string `json:"amount"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
	Status      string `json:"status"`
	PaymentDate string `json:"payment_date"`
}

type InvoiceResponse struct {
	ID            uint              `json:"id"`
	InvoiceNumber string            `json:"invoice_number"`
	CustomerID    uint              `json:"customer_id"`
	CustomerName  string            `json:"customer_name"`
	TotalAmount   string            `json:"total_amount"`
	PaidAmount    string            `json:"paid_amount"`
	Status        string            `json:"status"`
	DueDate       *string           `json:"due_date"`
	PaymentDate   *string           `json:"payment_date"`
	Notes         string            `json:"notes"`
	Payments      []PaymentResponse `json:"payments"`
	CreatedAt     string            `json:"created_at"`
}

func toPaymentResponse(p *models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		Amount:      p.Amount.StringFixed(2),
		Method:      p.Method,
		Reference:   p.Reference,
		Status:      string(p.Status),
		PaymentDate: p.PaymentDate.Format("2006-01-02 15:04:05"),
	}
}

func toInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	payments := make([]PaymentResponse, 0, len(inv.Payments))
	for i := range inv.Payments {
		payments = append(payments, toPaymentResponse(&inv.Payments[i]))
	}

	var dueDate, paymentDate *string
	if inv.DueDate != nil {
		s := inv.DueDate.Format("2006-01-02")
		dueDate = &s
	}
	if inv.PaymentDate != nil {
		s := inv.PaymentDate.Format("2006-01-02 15:04:05")
		paymentDate = &s
	}

	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.Customer.Name,
		TotalAmount:   inv.TotalAmount.StringFixed(2),
		PaidAmount:    inv.PaidAmount.StringFixed(2),
		Status:        string(inv.Status),
		DueDate:       dueDate,
		PaymentDate:   paymentDate,
		Notes:         inv.Notes,
		Payments:      payments,
		CreatedAt:     inv.CreatedAt.Format("2006-01-02 15:04:05"),
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

// POST /api/finance/invoices
func CreateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateInvoiceRequest
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

		totalAmount, err := decimal.NewFromString(body.TotalAmount)
		if err != nil || totalAmount.LessThanOrEqual(decimal.Zero) {
			return fiber.NewError(fiber.StatusBadRequest, "total_amount pozitif bir sayı olmalı")
		}

		var customer models.Customer
		if err := database.DB.First(&customer, body.CustomerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var dueDate *time.Time
		if body.DueDate != "" {
			d, err := time.Parse("2006-01-02", body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "due_date formatı 'YYYY-MM-DD' olmalı")
			}
			dueDate = &d
		}

		var invoice models.Invoice
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			number, err := sequence.Next(tx, sequence.PrefixInvoice, time.Now().Year())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fatura numarası üretilemedi")
			}

			invoice = models.Invoice{
				InvoiceNumber: number,
				CustomerID:    body.CustomerID,
				SalesOrderID:  body.SalesOrderID,
				TotalAmount:   totalAmount,
				PaidAmount:    decimal.Zero,
				Status:        models.InvoicePending,
				DueDate:       dueDate,
				Notes:         body.Notes,
				CreatedBy:     userID,
			}
			if err := tx.Create(&invoice).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fatura oluşturulamadı")
			}
			return nil
		})
		if err != nil {
			return err
		}

		invoice.Customer = customer

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Fatura oluşturuldu: %s, toplam %s", invoice.InvoiceNumber, invoice.TotalAmount.StringFixed(2)),
			After:       invoice,
		})

		return response.Created(c, toInvoiceResponse(&invoice))
	}
}

// GET /api/finance/invoices
func ListInvoicesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, offset := response.PageParams(c)

		q := database.DB.Model(&models.Invoice{})
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if cid := c.QueryInt("customer_id", 0); cid > 0 {
			q = q.Where("customer_id = ?", cid)
		}

		var total int64
		q.Count(&total)

		var invoices []models.Invoice
		if err := q.Preload("Payments").Preload("Customer").
			Order("id DESC").Limit(limit).Offset(offset).
			Find(&invoices).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Faturalar listelenemedi")
		}

		resp := make([]InvoiceResponse, 0, len(invoices))
		for i := range invoices {
			resp = append(resp, toInvoiceResponse(&invoices[i]))
		}

		return response.Paginated(c, resp, page, limit, total)
	}
}

// GET /api/finance/invoices/:id
func GetInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura id")
		}

		var invoice models.Invoice
		if err := database.DB.Preload("Payments").Preload("Customer").First(&invoice, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
		}

		return response.OK(c, toInvoiceResponse(&invoice))
	}
}

// PUT /api/finance/invoices/:id
// Ödenmiş fatura kilitlidir; güncelleme reddedilir.
func UpdateInvoiceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura id")
		}

		var body UpdateInvoiceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var invoice models.Invoice
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invoice, id).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Fatura bulunamadı")
			}

			if invoice.Status.IsLocked() {
				return fiber.NewError(fiber.StatusBadRequest, "Ödenmiş fatura güncellenemez")
			}

			if body.DueDate != nil {
				d, err := time.Parse("2006-01-02", *body.DueDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "due_date formatı 'YYYY-MM-DD' olmalı")
				}
				invoice.DueDate = &d
			}
			if body.Notes != nil {
				invoice.Notes = *body.Notes
			}

			if err := tx.Save(&invoice).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Fatura güncellenemedi")
			}
			return tx.Preload("Payments").Preload("Customer").First(&invoice, invoice.ID).Error
		})
		if err != nil {
			return err
		}

		return response.OK(c, toInvoiceResponse(&invoice))
	}
}

// POST /api/finance/invoices/:id/payment
func RecordPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz fatura id")
		}

		var body RecordPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		amount, err := decimal.NewFromString(body.PaymentAmount)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "payment_amount sayısal olmalı")
		}

		userID, userName, err := getUserInfo(c)
		if err != nil {
			return err
		}

		var invoice *models.Invoice
		var payment *models.Payment
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			invoice, payment, txErr = RecordPayment(tx, uint(id), amount, body.PaymentMethod, body.PaymentReference, userID)
			return txErr
		})
		if err != nil {
			return err
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  "invoice",
			EntityID:    invoice.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ödeme işlendi: %s, tutar %s, yeni durum '%s'", invoice.InvoiceNumber, payment.Amount.StringFixed(2), invoice.Status),
			After:       invoice,
		})

		return response.OK(c, fiber.Map{
			"invoice": toInvoiceResponse(invoice),
			"payment": toPaymentResponse(payment),
		})
	}
}
