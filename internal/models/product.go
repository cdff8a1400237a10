package models

import "time"

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null;unique"`
	SKU         string `gorm:"size:50;uniqueIndex;not null"` // stok kodu
	Unit        string `gorm:"size:20;not null"`             // adet, kg, koli vs.
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
