package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"cash", "bank_transfer", "momo", "vnpay"} {
		m, err := ParsePaymentMethod(s)
		require.NoError(t, err)
		assert.Equal(t, PaymentMethod(s), m)
	}
	_, err := ParsePaymentMethod("paypal")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestMaskCard(t *testing.T) {
	assert.Equal(t, "************3456", MaskCard("1234567890123456"))
	assert.Equal(t, "****", MaskCard("123"))
	assert.Equal(t, "****", MaskCard("1234"))
	assert.Equal(t, "*2345", MaskCard("12345"))
}
