package services

import (
	"context"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// ListAccounts retrieves every internal account.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCurrency retrieves the internal account for a currency.
	GetAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// SetBalance overwrites an account's balance. This is the administrative
	// override path; it is the only way a balance may go negative.
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) (*domain.Account, error)
}

// AccountCacheSvc exposes cache maintenance for account entries. The
// exchange settlement path mutates balances inside a database transaction and
// needs to drop the affected cache entries afterwards.
type AccountCacheSvc interface {
	InvalidateAccounts(ctx context.Context, accounts ...*domain.Account) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountCacheSvc
}
