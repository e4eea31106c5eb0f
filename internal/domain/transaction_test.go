package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToTransactionStatus(t *testing.T) {
	for _, status := range TransactionStatuses() {
		t.Run(string(status), func(t *testing.T) {
			got, err := ToTransactionStatus(string(status))
			require.NoError(t, err)
			assert.Equal(t, status, got)
		})
	}
}

func TestToTransactionStatus_Unknown(t *testing.T) {
	for _, raw := range []string{"", "COMPLETED", "reserved", "partial-refunded"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ToTransactionStatus(raw)
			assert.Error(t, err)
		})
	}
}

func TestTransactionStatuses_MatchesValidationTable(t *testing.T) {
	assert.Len(t, TransactionStatuses(), len(validTransactionStatuses))
}

func TestOrder_BelongsTo(t *testing.T) {
	order := &Order{PaymentModule: "multisafepay"}

	assert.True(t, order.BelongsTo("multisafepay"))
	assert.False(t, order.BelongsTo("paypal"))
}

func TestCart_HasDelivery(t *testing.T) {
	assert.True(t, (&Cart{DeliveryAddress: &Address{}}).HasDelivery())
	assert.False(t, (&Cart{}).HasDelivery())
	assert.False(t, (&Cart{IsVirtual: true, DeliveryAddress: &Address{}}).HasDelivery())
}

func TestAddress_PreferredPhone(t *testing.T) {
	assert.Equal(t, "020", (&Address{Phone: "020", Mobile: "06"}).PreferredPhone())
	assert.Equal(t, "06", (&Address{Mobile: "06"}).PreferredPhone())
}
