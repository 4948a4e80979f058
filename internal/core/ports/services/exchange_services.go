package services

import (
	"context"

	"github.com/arvault/exchange-service/internal/core/domain"
)

// ExchangeSvcFacade executes exchanges and exposes the transaction log.
type ExchangeSvcFacade interface {
	// Exchange runs one exchange attempt end to end and returns its logged
	// result. Business declines (insufficient funds, failed transfer legs)
	// are reported inside the result, not as errors; an error return means an
	// infrastructure failure.
	Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResult, error)

	// GetLog returns every logged exchange attempt in insertion order.
	GetLog(ctx context.Context) ([]domain.ExchangeResult, error)
}
