package repositories

import (
	"context"
	"time"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCurrency retrieves the single internal account held for a
	// currency. It fails with apperrors.ErrDuplicateCurrency when more than
	// one account exists for the code.
	FindAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error)

	// ListAccounts retrieves every internal account, ordered by account ID.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateBalance unconditionally overwrites the balance of an account.
	UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) (*domain.Account, error)
}

// AccountTransactionSupport defines operations that support balance settlement
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks them for update
	// within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltasInTx adjusts balances for multiple accounts within a
	// given transaction. Deltas map account ID to a signed amount.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
