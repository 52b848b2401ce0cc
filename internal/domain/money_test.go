package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"github.com/shopmesh/shopmesh/internal/domain"
)

func money(t *testing.T, amount string, code string) domain.Money {
	t.Helper()

	unit, err := currency.ParseISO(code)
	require.NoError(t, err)

	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: unit,
	}
}

func TestMoneyValidate(t *testing.T) {
	tests := []struct {
		name      string
		money     domain.Money
		wantError bool
	}{
		{name: "positive amount: ok", money: money(t, "10.50", "EUR")},
		{name: "zero amount: ok", money: money(t, "0", "EUR")},
		{name: "negative amount: error", money: money(t, "-1", "EUR"), wantError: true},
		{name: "empty currency: error", money: domain.Money{Amount: decimal.NewFromInt(1)}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.money.Validate()
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestMoneyMul(t *testing.T) {
	price := money(t, "19.99", "USD")

	got := price.Mul(3)

	assert.True(t, got.Amount.Equal(decimal.RequireFromString("59.97")))
	assert.Equal(t, "USD", got.Currency.String())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("same currency: summed", func(t *testing.T) {
		sum, err := money(t, "10.00", "EUR").Add(money(t, "5.50", "EUR"))
		require.NoError(t, err)

		assert.True(t, sum.Amount.Equal(decimal.RequireFromString("15.50")))
		assert.Equal(t, "EUR", sum.Currency.String())
	})

	t.Run("mixed currencies: rejected", func(t *testing.T) {
		_, err := money(t, "10.00", "EUR").Add(money(t, "5.50", "USD"))
		require.ErrorIs(t, err, domain.ErrMixedCurrency)
	})
}
