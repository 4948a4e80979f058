package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReciprocalPlaces is the precision used when deriving the counter→base rate
// from a base→counter rate. rate(B→A) == round(1/rate(A→B), ReciprocalPlaces).
const ReciprocalPlaces = 5

// RateRow holds every quote for a single base currency: a map from counter
// currency code to the base→counter exchange rate.
type RateRow struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// Quote returns the rate for the given counter currency, if quoted.
func (r RateRow) Quote(counterCurrency string) (decimal.Decimal, bool) {
	rate, ok := r.Rates[counterCurrency]
	return rate, ok
}

// Reciprocal computes round(1/rate, ReciprocalPlaces). The caller must ensure
// rate is positive.
func Reciprocal(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).DivRound(rate, ReciprocalPlaces)
}
