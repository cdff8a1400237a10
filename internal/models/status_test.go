package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPurchaseOrderStatusTransitions(t *testing.T) {
	require.True(t, PurchaseOrderPending.CanTransitionTo(PurchaseOrderConfirmed))
	require.True(t, PurchaseOrderConfirmed.CanTransitionTo(PurchaseOrderPartiallyReceived))
	require.True(t, PurchaseOrderConfirmed.CanTransitionTo(PurchaseOrderCompleted))
	require.True(t, PurchaseOrderPartiallyReceived.CanTransitionTo(PurchaseOrderPartiallyReceived))
	require.True(t, PurchaseOrderPartiallyReceived.CanTransitionTo(PurchaseOrderCompleted))

	require.False(t, PurchaseOrderPending.CanTransitionTo(PurchaseOrderCompleted))
	require.False(t, PurchaseOrderCompleted.CanTransitionTo(PurchaseOrderConfirmed))

	// İptal terminal olmayan her durumdan mümkün
	require.True(t, PurchaseOrderPending.CanTransitionTo(PurchaseOrderCancelled))
	require.True(t, PurchaseOrderPartiallyReceived.CanTransitionTo(PurchaseOrderCancelled))
	require.False(t, PurchaseOrderCompleted.CanTransitionTo(PurchaseOrderCancelled))
	require.False(t, PurchaseOrderCancelled.CanTransitionTo(PurchaseOrderCancelled))
}

func TestPurchaseOrderCanReceive(t *testing.T) {
	require.True(t, PurchaseOrderConfirmed.CanReceive())
	require.True(t, PurchaseOrderPartiallyReceived.CanReceive())

	require.False(t, PurchaseOrderPending.CanReceive())
	require.False(t, PurchaseOrderCompleted.CanReceive())
	require.False(t, PurchaseOrderCancelled.CanReceive())
}

func TestSalesOrderStatusChain(t *testing.T) {
	chain := []SalesOrderStatus{
		SalesOrderDraft, SalesOrderConfirmed, SalesOrderInProduction,
		SalesOrderReadyToShip, SalesOrderShipped, SalesOrderDelivered,
	}
	for i := 0; i < len(chain)-1; i++ {
		require.True(t, chain[i].CanTransitionTo(chain[i+1]),
			"%s -> %s geçerli olmalı", chain[i], chain[i+1])
	}

	// Üretim atlanabilir: confirmed -> ready_to_ship
	require.True(t, SalesOrderConfirmed.CanTransitionTo(SalesOrderReadyToShip))

	// Geri gidiş yok
	require.False(t, SalesOrderShipped.CanTransitionTo(SalesOrderReadyToShip))
	require.False(t, SalesOrderDelivered.CanTransitionTo(SalesOrderShipped))

	require.True(t, SalesOrderShipped.CanTransitionTo(SalesOrderCancelled))
	require.False(t, SalesOrderDelivered.CanTransitionTo(SalesOrderCancelled))
}

func TestProductionOrderStatusTransitions(t *testing.T) {
	require.True(t, ProductionOrderPlanned.CanTransitionTo(ProductionOrderInProgress))
	require.True(t, ProductionOrderInProgress.CanTransitionTo(ProductionOrderCompleted))

	require.False(t, ProductionOrderPlanned.CanTransitionTo(ProductionOrderCompleted))
	require.False(t, ProductionOrderCompleted.CanTransitionTo(ProductionOrderInProgress))
	require.False(t, ProductionOrderCompleted.CanTransitionTo(ProductionOrderCancelled))
}

func TestInvoiceStatusTransitions(t *testing.T) {
	require.True(t, InvoicePending.CanTransitionTo(InvoicePartiallyPaid))
	require.True(t, InvoicePending.CanTransitionTo(InvoicePaid))
	require.True(t, InvoicePartiallyPaid.CanTransitionTo(InvoicePartiallyPaid))
	require.True(t, InvoicePartiallyPaid.CanTransitionTo(InvoicePaid))

	require.False(t, InvoicePaid.CanTransitionTo(InvoicePartiallyPaid))
	require.False(t, InvoicePaid.CanTransitionTo(InvoicePending))

	require.False(t, InvoicePending.IsLocked())
	require.False(t, InvoicePartiallyPaid.IsLocked())
	require.True(t, InvoicePaid.IsLocked())
}

func TestPurchaseRequestStatusTransitions(t *testing.T) {
	require.True(t, PurchaseRequestPending.CanTransitionTo(PurchaseRequestApproved))
	require.True(t, PurchaseRequestPending.CanTransitionTo(PurchaseRequestRejected))

	require.False(t, PurchaseRequestApproved.CanTransitionTo(PurchaseRequestRejected))
	require.False(t, PurchaseRequestRejected.CanTransitionTo(PurchaseRequestApproved))
}

func TestEquipmentStatusTransitions(t *testing.T) {
	require.True(t, EquipmentOperational.CanTransitionTo(EquipmentUnderMaintenance))
	require.True(t, EquipmentUnderMaintenance.CanTransitionTo(EquipmentOperational))
	require.True(t, EquipmentOperational.CanTransitionTo(EquipmentRetired))
	require.True(t, EquipmentUnderMaintenance.CanTransitionTo(EquipmentRetired))

	require.False(t, EquipmentRetired.CanTransitionTo(EquipmentOperational))
	require.False(t, EquipmentRetired.CanTransitionTo(EquipmentRetired))
}

func TestQualityResultTransitions(t *testing.T) {
	require.True(t, QualityPending.CanTransitionTo(QualityPassed))
	require.True(t, QualityPending.CanTransitionTo(QualityFailed))

	require.False(t, QualityPassed.CanTransitionTo(QualityFailed))
	require.False(t, QualityFailed.CanTransitionTo(QualityPassed))
	require.False(t, QualityPending.CanTransitionTo(QualityPending))
}

func TestPayrollStatusTransitions(t *testing.T) {
	require.True(t, PayrollDraft.CanTransitionTo(PayrollApproved))
	require.False(t, PayrollApproved.CanTransitionTo(PayrollDraft))
}
