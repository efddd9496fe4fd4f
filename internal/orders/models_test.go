package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPrice(t *testing.T) {
	o := Order{Quantity: 4, TotalPrice: 200}
	assert.Equal(t, 50.0, o.UnitPrice())

	empty := Order{}
	assert.Equal(t, 0.0, empty.UnitPrice())
}

func TestStockMarkupOnReceivedInventory(t *testing.T) {
	// A wholesale order of 10 units at 500 total lands in the retailer's
	// inventory priced at the 50 unit cost plus 30 percent.
	o := Order{Quantity: 10, TotalPrice: 500}
	assert.InDelta(t, 65.0, o.UnitPrice()*StockMarkup, 1e-9)
}

func TestNormalizeDeliveryPayAtStore(t *testing.T) {
	lat, lng := 12.9, 77.6
	c := Checkout{
		PaymentMethod:   PaymentPayAtStore,
		DeliveryAddress: "12 MG Road",
		DeliveryLat:     &lat,
		DeliveryLng:     &lng,
	}
	require.NoError(t, c.NormalizeDelivery())
	assert.Equal(t, SelfPickupAddress, c.DeliveryAddress)
	assert.Nil(t, c.DeliveryLat)
	assert.Nil(t, c.DeliveryLng)
}

func TestNormalizeDeliveryRequiresAddressForShipping(t *testing.T) {
	for _, method := range []string{PaymentOnline, PaymentCOD} {
		c := Checkout{PaymentMethod: method, DeliveryAddress: "   "}
		err := c.NormalizeDelivery()
		assert.ErrorIs(t, err, ErrInvalidInput, method)
	}
}

func TestNormalizeDeliveryKeepsShippingAddress(t *testing.T) {
	c := Checkout{PaymentMethod: PaymentCOD, DeliveryAddress: "12 MG Road"}
	require.NoError(t, c.NormalizeDelivery())
	assert.Equal(t, "12 MG Road", c.DeliveryAddress)
}
