package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	"github.com/arvault/exchange-service/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		CurrencyCode: m.CurrencyCode,
		Balance:      m.Balance,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

const accountColumns = `account_id, currency_code, balance, created_at, last_updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.CurrencyCode, &m.Balance, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAccount inserts a new account. Used only by the seed loader; accounts
// are never created through the API.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, currency_code, balance, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.CurrencyCode,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrValidation, account.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	acc := toDomainAccount(*m)
	return &acc, nil
}

// FindAccountByCurrency retrieves the single internal account for a currency.
// The ledger assumes one account per currency; a second matching row is a
// configuration error and is reported, not resolved by picking arbitrarily.
func (r *PgxAccountRepository) FindAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE currency_code = $1;`

	rows, err := r.Pool.Query(ctx, query, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query account by currency %s: %w", currencyCode, err)
	}
	defer rows.Close()

	var found *models.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.CurrencyCode, &m.Balance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		if found != nil {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrDuplicateCurrency, currencyCode)
		}
		found = &m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no account for currency %s", apperrors.ErrAccountNotFound, currencyCode)
	}

	acc := toDomainAccount(*found)
	return &acc, nil
}

// ListAccounts retrieves every internal account, ordered by account ID.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_id;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.CurrencyCode, &m.Balance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}

// UpdateBalance unconditionally overwrites the balance of an account.
func (r *PgxAccountRepository) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET balance = $2, last_updated_at = $3
		WHERE account_id = $1
		RETURNING ` + accountColumns + `;
	`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, balance, now))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to update balance of account %s: %w", accountID, err)
	}

	acc := toDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDsForUpdate selects accounts and locks them for update within
// a transaction. Rows are locked in account-ID order to avoid lock cycles
// between concurrent settlements touching the same pair.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for update: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var m models.Account
		if err := rows.Scan(&m.AccountID, &m.CurrencyCode, &m.Balance, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[m.AccountID] = toDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read locked account rows: %w", err)
	}

	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrAccountNotFound, id)
		}
	}
	return accounts, nil
}

// ApplyBalanceDeltasInTx adjusts balances for multiple accounts within a given
// transaction. The callers lock the rows first via FindAccountsByIDsForUpdate.
func (r *PgxAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	for accountID, delta := range deltas {
		batch.Queue(query, accountID, delta, now)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for range deltas {
		tag, err := results.Exec()
		if err != nil {
			return fmt.Errorf("failed to apply balance delta: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: balance delta matched no account", apperrors.ErrAccountNotFound)
		}
	}
	return nil
}
