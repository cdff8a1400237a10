package sequence

import (
	"errors"
	"fmt"

	"fabrika-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Belge numarası üretimi. Eski tasarımdaki "yıl içindeki satırları say,
// bir ekle" yaklaşımı eşzamanlı isteklerde aynı numarayı iki kez
// üretebiliyordu; onun yerine (prefix, yıl) başına tek sayaç satırı
// tutulur ve çağıranın transaction'ı içinde FOR UPDATE ile artırılır.
// Transaction geri alınırsa numara da geri alınır.

const (
	PrefixPurchaseOrder   = "PO"
	PrefixSalesOrder      = "SO"
	PrefixProductionOrder = "PR"
	PrefixInvoice         = "INV"
	PrefixPurchaseRequest = "REQ"
	PrefixEmployee        = "EMP"
)

// Next: <PREFIX>-<YEAR>-<NNNN> formatında bir sonraki numarayı döner.
// tx bir transaction olmalıdır; sayaç artışı belge insert'iyle birlikte
// commit edilir ya da birlikte geri alınır.
func Next(tx *gorm.DB, prefix string, year int) (string, error) {
	var seq models.DocumentSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ? AND year = ?", prefix, year).
		First(&seq).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = models.DocumentSequence{Prefix: prefix, Year: year, LastNumber: 0}
		if err := tx.Create(&seq).Error; err != nil {
			return "", fmt.Errorf("sayaç satırı oluşturulamadı: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("sayaç okunamadı: %w", err)
	}

	seq.LastNumber++
	if err := tx.Model(&models.DocumentSequence{}).
		Where("id = ?", seq.ID).
		Update("last_number", seq.LastNumber).Error; err != nil {
		return "", fmt.Errorf("sayaç artırılamadı: %w", err)
	}

	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq.LastNumber), nil
}
