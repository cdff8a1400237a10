package models

import "time"

type Customer struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	ContactName string `gorm:"size:100"`
	Email       string `gorm:"size:100"`
	Phone       string `gorm:"size:30"`
	Address     string `gorm:"size:255"`
	TaxNumber   string `gorm:"size:30;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
