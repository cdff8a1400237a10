package models

import "time"

type QualityResult string

const (
	QualityPending QualityResult = "pending"
	QualityPassed  QualityResult = "passed"
	QualityFailed  QualityResult = "failed"
)

func (s QualityResult) IsTerminal() bool {
	return s == QualityPassed || s == QualityFailed
}

func (s QualityResult) CanTransitionTo(target QualityResult) bool {
	return s == QualityPending && (target == QualityPassed || target == QualityFailed)
}

// QualityControl: Üretim emri üzerinde yapılan kalite kontrolü.
type QualityControl struct {
	ID                uint `gorm:"primaryKey"`
	ProductionOrderID uint `gorm:"index;not null"`
	ProductionOrder   ProductionOrder
	InspectorID       uint          `gorm:"not null"`
	Date              time.Time     `gorm:"index;not null"`
	Result            QualityResult `gorm:"size:20;not null;index"`
	Notes             string        `gorm:"size:500"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
