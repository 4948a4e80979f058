package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arvault/exchange-service/internal/adapters/cache"
	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	portssvc "github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/dto"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	cacheKeyRatesAll  = "rates:all"
	cacheKeyRatesBase = "rates:base:"
)

// RateService exposes the rate store with cache-aside reads and enforces the
// reciprocal invariant on writes: setting base→counter always derives and
// stores counter→base = round(1/rate, 5) in the same logical update.
type RateService struct {
	repo  portsrepo.RateRepositoryFacade
	cache *cache.Layer
}

// NewRateService creates a new RateService.
func NewRateService(repo portsrepo.RateRepositoryFacade, cacheLayer *cache.Layer) *RateService {
	return &RateService{repo: repo, cache: cacheLayer}
}

// Ensure RateService implements the service facade
var _ portssvc.RateSvcFacade = (*RateService)(nil)

// GetRate retrieves the quote row for a base currency.
func (s *RateService) GetRate(ctx context.Context, baseCurrency string) (*domain.RateRow, error) {
	baseCurrency = strings.ToUpper(baseCurrency)

	row, err := cache.ReadThrough(ctx, s.cache, cacheKeyRatesBase+baseCurrency, func(ctx context.Context) (domain.RateRow, error) {
		found, err := s.repo.FindRateRow(ctx, baseCurrency)
		if err != nil {
			return domain.RateRow{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListRates retrieves the full rate table.
func (s *RateService) ListRates(ctx context.Context) ([]domain.RateRow, error) {
	return cache.ReadThrough(ctx, s.cache, cacheKeyRatesAll, func(ctx context.Context) ([]domain.RateRow, error) {
		return s.repo.ListRateRows(ctx)
	})
}

// SetRate updates both directions of a currency pair as one logical unit and
// invalidates every cache key that could serve either row.
func (s *RateService) SetRate(ctx context.Context, req dto.SetRateRequest) (*domain.RateRow, *domain.RateRow, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	baseCurrency := strings.ToUpper(req.BaseCurrency)
	counterCurrency := strings.ToUpper(req.CounterCurrency)

	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if baseCurrency == counterCurrency {
		return nil, nil, fmt.Errorf("%w: base and counter currency cannot be the same", apperrors.ErrValidation)
	}

	reciprocal := domain.Reciprocal(req.Rate)

	baseRow, counterRow, err := s.repo.UpdateRatePair(ctx, baseCurrency, counterCurrency, req.Rate, reciprocal, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrCurrencyUnknown) {
			logger.Error("Failed to update rate pair", slog.String("error", err.Error()), slog.String("base", baseCurrency), slog.String("counter", counterCurrency))
		}
		return nil, nil, err
	}

	err = s.cache.Invalidate(ctx, cacheKeyRatesAll, cacheKeyRatesBase+baseCurrency, cacheKeyRatesBase+counterCurrency)
	if err != nil {
		logger.Error("Failed to invalidate rate cache after update", slog.String("error", err.Error()), slog.String("base", baseCurrency), slog.String("counter", counterCurrency))
		return nil, nil, err
	}

	logger.Info("Rate pair updated",
		slog.String("base", baseCurrency),
		slog.String("counter", counterCurrency),
		slog.String("rate", req.Rate.String()),
		slog.String("reciprocal", reciprocal.String()),
	)
	return baseRow, counterRow, nil
}
