package domain_test

import (
	"testing"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReciprocal(t *testing.T) {
	cases := []struct {
		rate string
		want string
	}{
		{"1104", "0.00091"},
		{"1064", "0.00094"},
		{"180.8", "0.00553"},
		{"1", "1"},
		{"0.5", "2"},
	}

	for _, tc := range cases {
		got := domain.Reciprocal(decimal.RequireFromString(tc.rate))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"Reciprocal(%s) = %s, want %s", tc.rate, got, tc.want)
	}
}

func TestRateRowQuote(t *testing.T) {
	row := domain.RateRow{
		BaseCurrency: "EUR",
		Rates:        map[string]decimal.Decimal{"ARS": decimal.NewFromInt(1104)},
	}

	rate, ok := row.Quote("ARS")
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.NewFromInt(1104)))

	_, ok = row.Quote("JPY")
	assert.False(t, ok)
}
