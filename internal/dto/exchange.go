package dto

import (
	"time"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRequest defines the body of POST /exchange.
type ExchangeRequest struct {
	BaseCurrency     string          `json:"baseCurrency" binding:"required,currency"`
	CounterCurrency  string          `json:"counterCurrency" binding:"required,currency"`
	BaseAccountID    string          `json:"baseAccountId" binding:"required"`
	CounterAccountID string          `json:"counterAccountId" binding:"required"`
	BaseAmount       decimal.Decimal `json:"baseAmount" binding:"required"`
}

// ToDomainExchangeRequest converts the DTO to its domain counterpart.
func (r ExchangeRequest) ToDomainExchangeRequest() domain.ExchangeRequest {
	return domain.ExchangeRequest{
		BaseCurrency:     r.BaseCurrency,
		CounterCurrency:  r.CounterCurrency,
		BaseAccountID:    r.BaseAccountID,
		CounterAccountID: r.CounterAccountID,
		BaseAmount:       r.BaseAmount,
	}
}

// ExchangeResultResponse defines the data returned for one exchange attempt.
type ExchangeResultResponse struct {
	ID            string                 `json:"id"`
	Timestamp     time.Time              `json:"ts"`
	Ok            bool                   `json:"ok"`
	Request       domain.ExchangeRequest `json:"request"`
	ExchangeRate  decimal.Decimal        `json:"exchangeRate"`
	CounterAmount decimal.Decimal        `json:"counterAmount"`
	Obs           string                 `json:"obs,omitempty"`
}

// ToExchangeResultResponse converts a domain.ExchangeResult to its DTO.
func ToExchangeResultResponse(res *domain.ExchangeResult) ExchangeResultResponse {
	return ExchangeResultResponse{
		ID:            res.ID,
		Timestamp:     res.Timestamp,
		Ok:            res.Ok,
		Request:       res.Request,
		ExchangeRate:  res.ExchangeRate,
		CounterAmount: res.CounterAmount,
		Obs:           res.Obs,
	}
}

// ToListExchangeResultResponse converts a slice of results to response DTOs.
func ToListExchangeResultResponse(results []domain.ExchangeResult) []ExchangeResultResponse {
	res := make([]ExchangeResultResponse, len(results))
	for i := range results {
		res[i] = ToExchangeResultResponse(&results[i])
	}
	return res
}
