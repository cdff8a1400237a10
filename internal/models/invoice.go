package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
)

// IsLocked: Tamamen ödenmiş fatura üzerinde güncelleme yapılamaz.
func (s InvoiceStatus) IsLocked() bool {
	return s == InvoicePaid
}

func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoicePending:
		return target == InvoicePartiallyPaid || target == InvoicePaid
	case InvoicePartiallyPaid:
		return target == InvoicePartiallyPaid || target == InvoicePaid
	}
	return false
}

// Invoice: Satış faturası. PaidAmount her ödemede tamamlanmış ödemelerin
// toplamından yeniden türetilir, asla tek tek eklenerek yürütülmez.
type Invoice struct {
	ID            uint   `gorm:"primaryKey"`
	InvoiceNumber string `gorm:"size:30;uniqueIndex;not null"` // INV-2025-0001
	CustomerID    uint   `gorm:"index;not null"`
	Customer      Customer
	SalesOrderID  *uint           `gorm:"index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status        InvoiceStatus   `gorm:"size:20;not null;index"`
	DueDate       *time.Time
	PaymentDate   *time.Time // yalnızca tamamen ödendiğinde set edilir
	Notes         string     `gorm:"size:500"`
	CreatedBy     uint       `gorm:"not null"`
	Payments      []Payment  `gorm:"foreignKey:InvoiceID"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment: Faturaya yapılan ödeme. Append-only; oluşturulduktan sonra
// hiçbir alanı değiştirilmez.
type Payment struct {
	ID          uint `gorm:"primaryKey"`
	InvoiceID   uint `gorm:"index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method      string          `gorm:"size:30;not null"` // cash, bank_transfer, cheque...
	Reference   string          `gorm:"size:64;index"`
	Status      PaymentStatus   `gorm:"size:20;not null"`
	PaymentDate time.Time       `gorm:"index;not null"`
	RecordedBy  uint            `gorm:"not null"`
	CreatedAt   time.Time
}
