package repositories

import (
	"context"
	"time"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReader defines read operations for rate data
type RateReader interface {
	// FindRateRow retrieves the quote row for a base currency. It fails with
	// apperrors.ErrRateNotFound when no row exists.
	FindRateRow(ctx context.Context, baseCurrency string) (*domain.RateRow, error)

	// ListRateRows retrieves every rate row, ordered by base currency.
	ListRateRows(ctx context.Context) ([]domain.RateRow, error)
}

// RateWriter defines write operations for rate data
type RateWriter interface {
	// SaveRateRow persists a new rate row.
	SaveRateRow(ctx context.Context, row domain.RateRow) error

	// UpdateRatePair sets base→counter to rate and counter→base to its
	// reciprocal, updating both rows in a single database transaction. Both
	// rows must already exist; it fails with apperrors.ErrCurrencyUnknown
	// otherwise. Returns the two updated rows, base first.
	UpdateRatePair(ctx context.Context, baseCurrency, counterCurrency string, rate, reciprocal decimal.Decimal, now time.Time) (*domain.RateRow, *domain.RateRow, error)
}

// RateRepositoryFacade combines all rate-related repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
