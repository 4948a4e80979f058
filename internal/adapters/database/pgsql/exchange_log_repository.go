package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	"github.com/arvault/exchange-service/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExchangeLogRepository struct {
	BaseRepository
}

// NewExchangeLogRepository creates a new repository for the transaction log.
func NewExchangeLogRepository(pool *pgxpool.Pool) portsrepo.ExchangeLogRepositoryFacade {
	return &PgxExchangeLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxExchangeLogRepository implements the facade
var _ portsrepo.ExchangeLogRepositoryFacade = (*PgxExchangeLogRepository)(nil)

func toDomainExchangeResult(m models.ExchangeLogEntry) domain.ExchangeResult {
	res := domain.ExchangeResult{
		ID:        m.EntryID,
		Timestamp: m.Timestamp,
		Ok:        m.Ok,
		Request: domain.ExchangeRequest{
			BaseCurrency:     m.BaseCurrency,
			CounterCurrency:  m.CounterCurrency,
			BaseAccountID:    m.BaseAccountID,
			CounterAccountID: m.CounterAccountID,
			BaseAmount:       m.BaseAmount,
		},
		ExchangeRate:  m.ExchangeRate,
		CounterAmount: m.CounterAmount,
	}
	if m.Obs.Valid {
		res.Obs = m.Obs.String
	}
	return res
}

// AppendResult persists one exchange attempt. The entry ID carries a unique
// constraint, so a retried append of the same result cannot double-log.
func (r *PgxExchangeLogRepository) AppendResult(ctx context.Context, result domain.ExchangeResult) error {
	query := `
		INSERT INTO exchange_log (
			entry_id, ts, ok, base_currency, counter_currency,
			base_account_id, counter_account_id, base_amount,
			exchange_rate, counter_amount, obs
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	var obs sql.NullString
	if result.Obs != "" {
		obs = sql.NullString{String: result.Obs, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		result.ID,
		result.Timestamp,
		result.Ok,
		result.Request.BaseCurrency,
		result.Request.CounterCurrency,
		result.Request.BaseAccountID,
		result.Request.CounterAccountID,
		result.Request.BaseAmount,
		result.ExchangeRate,
		result.CounterAmount,
		obs,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: log entry %s already exists", apperrors.ErrValidation, result.ID)
		}
		return fmt.Errorf("failed to append exchange log entry %s: %w", result.ID, err)
	}
	return nil
}

// ListResults retrieves every logged exchange attempt in insertion order.
func (r *PgxExchangeLogRepository) ListResults(ctx context.Context) ([]domain.ExchangeResult, error) {
	query := `
		SELECT entry_id, ts, ok, base_currency, counter_currency,
		       base_account_id, counter_account_id, base_amount,
		       exchange_rate, counter_amount, obs, seq
		FROM exchange_log
		ORDER BY seq;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list exchange log: %w", err)
	}
	defer rows.Close()

	var results []domain.ExchangeResult
	for rows.Next() {
		var m models.ExchangeLogEntry
		err := rows.Scan(
			&m.EntryID, &m.Timestamp, &m.Ok, &m.BaseCurrency, &m.CounterCurrency,
			&m.BaseAccountID, &m.CounterAccountID, &m.BaseAmount,
			&m.ExchangeRate, &m.CounterAmount, &m.Obs, &m.Seq,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exchange log row: %w", err)
		}
		results = append(results, toDomainExchangeResult(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read exchange log rows: %w", err)
	}
	return results, nil
}
