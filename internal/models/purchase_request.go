package models

import "time"

type PurchaseRequestStatus string

const (
	PurchaseRequestPending  PurchaseRequestStatus = "pending"
	PurchaseRequestApproved PurchaseRequestStatus = "approved"
	PurchaseRequestRejected PurchaseRequestStatus = "rejected"
)

func (s PurchaseRequestStatus) IsTerminal() bool {
	return s == PurchaseRequestApproved || s == PurchaseRequestRejected
}

// CanTransitionTo: Yalnızca bekleyen talep onaylanabilir veya reddedilebilir.
func (s PurchaseRequestStatus) CanTransitionTo(target PurchaseRequestStatus) bool {
	return s == PurchaseRequestPending &&
		(target == PurchaseRequestApproved || target == PurchaseRequestRejected)
}

// PurchaseRequest: Satın alma siparişi öncesi talep kaydı.
type PurchaseRequest struct {
	ID            uint   `gorm:"primaryKey"`
	RequestNumber string `gorm:"size:30;uniqueIndex;not null"` // PR-REQ yerine REQ-2025-0001
	ProductID     uint   `gorm:"index;not null"`
	Product       Product
	Quantity      float64               `gorm:"not null"`
	Reason        string                `gorm:"size:255"`
	Status        PurchaseRequestStatus `gorm:"size:20;not null;index"`
	RequestedBy   uint                  `gorm:"not null"`
	ApprovedBy    *uint
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
