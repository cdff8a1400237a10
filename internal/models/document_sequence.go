package models

// DocumentSequence: Belge numarası sayacı. (Prefix, Year) başına tek satır;
// numara üretimi bu satırı FOR UPDATE kilidiyle artırır, böylece eşzamanlı
// kayıtlarda numara çakışması olmaz.
type DocumentSequence struct {
	ID         uint   `gorm:"primaryKey"`
	Prefix     string `gorm:"size:10;not null;uniqueIndex:idx_prefix_year"`
	Year       int    `gorm:"not null;uniqueIndex:idx_prefix_year"`
	LastNumber int    `gorm:"not null;default:0"`
}
