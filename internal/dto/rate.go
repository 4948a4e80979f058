package dto

import (
	"time"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetRateRequest defines the body of PUT /rates. The reciprocal counter→base
// rate is derived server-side; clients only submit the base→counter rate.
type SetRateRequest struct {
	BaseCurrency    string          `json:"baseCurrency" binding:"required,currency"`
	CounterCurrency string          `json:"counterCurrency" binding:"required,currency"`
	Rate            decimal.Decimal `json:"rate" binding:"required"`
}

// RateRowResponse defines the data returned for one base currency's quotes.
type RateRowResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
}

// SetRateResponse returns both rows touched by a rate update, base first.
type SetRateResponse struct {
	Base    RateRowResponse `json:"base"`
	Counter RateRowResponse `json:"counter"`
}

// ToRateRowResponse converts a domain.RateRow to RateRowResponse.
func ToRateRowResponse(row *domain.RateRow) RateRowResponse {
	return RateRowResponse{
		BaseCurrency: row.BaseCurrency,
		Rates:        row.Rates,
		UpdatedAt:    row.UpdatedAt,
	}
}

// ToListRateRowResponse converts a slice of domain.RateRow to response DTOs.
func ToListRateRowResponse(rows []domain.RateRow) []RateRowResponse {
	res := make([]RateRowResponse, len(rows))
	for i := range rows {
		res[i] = ToRateRowResponse(&rows[i])
	}
	return res
}
