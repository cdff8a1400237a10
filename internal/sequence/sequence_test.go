package sequence_test

import (
	"testing"

	"fabrika-backend/internal/models"
	"fabrika-backend/internal/sequence"
	"fabrika-backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestNextProducesSequentialNumbers(t *testing.T) {
	db := testutil.NewTestDB(t)

	var first, second string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		first, err = sequence.Next(tx, sequence.PrefixPurchaseOrder, 2025)
		require.NoError(t, err)
		second, err = sequence.Next(tx, sequence.PrefixPurchaseOrder, 2025)
		return err
	})
	require.NoError(t, err)

	require.Equal(t, "PO-2025-0001", first)
	require.Equal(t, "PO-2025-0002", second)
}

func TestNextCountersAreIndependentPerPrefixAndYear(t *testing.T) {
	db := testutil.NewTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		po, err := sequence.Next(tx, sequence.PrefixPurchaseOrder, 2025)
		require.NoError(t, err)
		inv, err := sequence.Next(tx, sequence.PrefixInvoice, 2025)
		require.NoError(t, err)
		poNextYear, err := sequence.Next(tx, sequence.PrefixPurchaseOrder, 2026)
		require.NoError(t, err)

		require.Equal(t, "PO-2025-0001", po)
		require.Equal(t, "INV-2025-0001", inv)
		require.Equal(t, "PO-2026-0001", poNextYear)
		return nil
	})
	require.NoError(t, err)
}

func TestNextRollsBackWithCallerTransaction(t *testing.T) {
	db := testutil.NewTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := sequence.Next(tx, sequence.PrefixSalesOrder, 2025)
		require.NoError(t, err)
		return gorm.ErrInvalidData // transaction'ı geri al
	})
	require.Error(t, err)

	// Geri alınan numara yeniden kullanılmalı
	var number string
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		number, err = sequence.Next(tx, sequence.PrefixSalesOrder, 2025)
		return err
	})
	require.NoError(t, err)
	require.Equal(t, "SO-2025-0001", number)

	var seq models.DocumentSequence
	require.NoError(t, db.Where("prefix = ? AND year = ?", sequence.PrefixSalesOrder, 2025).First(&seq).Error)
	require.Equal(t, 1, seq.LastNumber)
}
