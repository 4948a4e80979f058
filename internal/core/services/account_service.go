package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/arvault/exchange-service/internal/adapters/cache"
	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	portssvc "github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/shopspring/decimal"
)

// Cache keys for account reads. Writes must invalidate every key that could
// serve the written account.
const (
	cacheKeyAccountsAll     = "accounts:all"
	cacheKeyAccountID       = "accounts:id:"
	cacheKeyAccountCurrency = "accounts:currency:"
)

func accountCacheKeys(acc *domain.Account) []string {
	return []string{
		cacheKeyAccountsAll,
		cacheKeyAccountID + acc.AccountID,
		cacheKeyAccountCurrency + acc.CurrencyCode,
	}
}

// AccountService exposes the internal account store with cache-aside reads
// and write-through-plus-invalidate balance updates.
type AccountService struct {
	repo  portsrepo.AccountRepositoryFacade
	cache *cache.Layer
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, cacheLayer *cache.Layer) *AccountService {
	return &AccountService{repo: repo, cache: cacheLayer}
}

// Ensure AccountService implements the service facade
var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

// ListAccounts retrieves every internal account.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return cache.ReadThrough(ctx, s.cache, cacheKeyAccountsAll, func(ctx context.Context) ([]domain.Account, error) {
		return s.repo.ListAccounts(ctx)
	})
}

// GetAccountByID retrieves a specific account by its ID.
func (s *AccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	acc, err := cache.ReadThrough(ctx, s.cache, cacheKeyAccountID+accountID, func(ctx context.Context) (domain.Account, error) {
		found, err := s.repo.FindAccountByID(ctx, accountID)
		if err != nil {
			return domain.Account{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// GetAccountByCurrency retrieves the internal account for a currency.
func (s *AccountService) GetAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	currencyCode = strings.ToUpper(currencyCode)

	acc, err := cache.ReadThrough(ctx, s.cache, cacheKeyAccountCurrency+currencyCode, func(ctx context.Context) (domain.Account, error) {
		found, err := s.repo.FindAccountByCurrency(ctx, currencyCode)
		if err != nil {
			return domain.Account{}, err
		}
		return *found, nil
	})
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// SetBalance overwrites an account's balance. The store write happens first;
// the cache entries are invalidated afterwards so the next read observes the
// new balance.
func (s *AccountService) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.repo.UpdateBalance(ctx, accountID, balance, time.Now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			logger.Error("Failed to update account balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, accountCacheKeys(account)...); err != nil {
		logger.Error("Failed to invalidate account cache after balance update", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account balance updated", slog.String("account_id", accountID), slog.String("balance", balance.String()))
	return account, nil
}

// InvalidateAccounts drops the cache entries for the given accounts. The
// exchange settlement path mutates balances directly inside a database
// transaction and uses this to keep the cache coherent.
func (s *AccountService) InvalidateAccounts(ctx context.Context, accounts ...*domain.Account) error {
	keys := make([]string, 0, len(accounts)*3)
	for _, acc := range accounts {
		keys = append(keys, accountCacheKeys(acc)...)
	}
	return s.cache.Invalidate(ctx, keys...)
}
