package services

import (
	"context"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/arvault/exchange-service/internal/dto"
)

// RateReaderSvc defines read operations for rate data
type RateReaderSvc interface {
	// GetRate retrieves the quote row for a base currency.
	GetRate(ctx context.Context, baseCurrency string) (*domain.RateRow, error)

	// ListRates retrieves the full rate table.
	ListRates(ctx context.Context) ([]domain.RateRow, error)
}

// RateWriterSvc defines write operations for rate data
type RateWriterSvc interface {
	// SetRate sets base→counter to the requested rate and counter→base to its
	// reciprocal as a single logical update. Returns the updated base row
	// followed by the updated counter row.
	SetRate(ctx context.Context, req dto.SetRateRequest) (*domain.RateRow, *domain.RateRow, error)
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}
