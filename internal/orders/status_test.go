package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetailChainAdvancesInOrder(t *testing.T) {
	want := []RetailStatus{RetailPlaced, RetailProcessed, RetailOutForDelivery, RetailDelivered}

	s := RetailPlaced
	var walked []RetailStatus
	walked = append(walked, s)
	for {
		next, ok := s.Next()
		if !ok {
			break
		}
		walked = append(walked, next)
		s = next
	}

	assert.Equal(t, want, walked)
	assert.True(t, s.Terminal())
}

func TestRetailCancelOnlyFromPlaced(t *testing.T) {
	assert.True(t, RetailPlaced.CanTransition(RetailCancelled))
	assert.False(t, RetailProcessed.CanTransition(RetailCancelled))
	assert.False(t, RetailOutForDelivery.CanTransition(RetailCancelled))
	assert.False(t, RetailDelivered.CanTransition(RetailCancelled))
	assert.False(t, RetailCancelled.CanTransition(RetailCancelled))
}

func TestRetailNoSkippingSteps(t *testing.T) {
	assert.False(t, RetailPlaced.CanTransition(RetailOutForDelivery))
	assert.False(t, RetailPlaced.CanTransition(RetailDelivered))
	assert.False(t, RetailProcessed.CanTransition(RetailDelivered))
	assert.False(t, RetailDelivered.CanTransition(RetailPlaced))
}

func TestRetailTerminalStatuses(t *testing.T) {
	assert.True(t, RetailDelivered.Terminal())
	assert.True(t, RetailCancelled.Terminal())
	assert.False(t, RetailPlaced.Terminal())
	assert.False(t, RetailProcessed.Terminal())
	assert.False(t, RetailOutForDelivery.Terminal())
}

func TestParseRetailStatusRejectsUnknown(t *testing.T) {
	_, err := ParseRetailStatus("paid")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	s, err := ParseRetailStatus("out_for_delivery")
	require.NoError(t, err)
	assert.Equal(t, RetailOutForDelivery, s)
}

func TestBuyerMessageCoversEveryStatus(t *testing.T) {
	for _, s := range []RetailStatus{RetailPlaced, RetailProcessed, RetailOutForDelivery, RetailDelivered, RetailCancelled} {
		assert.NotEmpty(t, s.BuyerMessage(), "status %s", s)
	}
	assert.Equal(t, "Your order has been placed successfully!", RetailPlaced.BuyerMessage())
}

func TestStockHappyPath(t *testing.T) {
	chain := []StockStatus{StockPending, StockApproved, StockOrderConfirmed, StockShipped, StockDelivered, StockReceivedInInventory}
	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, chain[i].CanTransition(chain[i+1]), "%s to %s", chain[i], chain[i+1])
	}
	assert.True(t, StockReceivedInInventory.Terminal())
}

func TestStockPendingBranches(t *testing.T) {
	assert.True(t, StockPending.CanTransition(StockApproved))
	assert.True(t, StockPending.CanTransition(StockRejected))
	assert.True(t, StockPending.CanTransition(StockCancelled))
	assert.False(t, StockPending.CanTransition(StockOrderConfirmed))
	assert.False(t, StockPending.CanTransition(StockShipped))
}

func TestStockNoCancelAfterApproval(t *testing.T) {
	assert.False(t, StockApproved.CanTransition(StockCancelled))
	assert.False(t, StockOrderConfirmed.CanTransition(StockCancelled))
	assert.False(t, StockShipped.CanTransition(StockCancelled))
}

func TestStockPaymentGatesShipping(t *testing.T) {
	// Approved waits for payment; shipping is only legal once confirmed.
	assert.False(t, StockApproved.CanTransition(StockShipped))
	assert.True(t, StockApproved.CanTransition(StockOrderConfirmed))
	assert.True(t, StockOrderConfirmed.CanTransition(StockShipped))
}

func TestStockTerminalStatuses(t *testing.T) {
	assert.True(t, StockRejected.Terminal())
	assert.True(t, StockCancelled.Terminal())
	assert.True(t, StockReceivedInInventory.Terminal())
	assert.False(t, StockDelivered.Terminal())
}

func TestParseStockStatusRejectsUnknown(t *testing.T) {
	_, err := ParseStockStatus("processing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDecideApproval(t *testing.T) {
	assert.Equal(t, StockApproved, DecideApproval(10, 5))
	assert.Equal(t, StockApproved, DecideApproval(5, 5))
	assert.Equal(t, StockRejected, DecideApproval(3, 5))
	assert.Equal(t, StockRejected, DecideApproval(0, 1))
}

func TestClearableSets(t *testing.T) {
	assert.True(t, ClearableStock(StockDelivered))
	assert.True(t, ClearableStock(StockCancelled))
	assert.True(t, ClearableStock(StockRejected))
	assert.False(t, ClearableStock(StockPending))
	assert.False(t, ClearableStock(StockApproved))
	assert.False(t, ClearableStock(StockReceivedInInventory))

	assert.True(t, ClearableRetail(RetailDelivered))
	assert.True(t, ClearableRetail(RetailCancelled))
	assert.False(t, ClearableRetail(RetailPlaced))
	assert.False(t, ClearableRetail(RetailOutForDelivery))
}

func TestClearableStatusLists(t *testing.T) {
	assert.Equal(t, []string{"delivered", "cancelled", "rejected"}, ClearableStockStatuses())
	assert.Equal(t, []string{"delivered", "cancelled"}, ClearableRetailStatuses())
}

func TestStatusPlaceholders(t *testing.T) {
	clause, args := statusPlaceholders(3, ClearableStockStatuses())
	assert.Equal(t, "$3, $4, $5", clause)
	assert.Equal(t, []any{"delivered", "cancelled", "rejected"}, args)
}
