package pgsql

import (
	"context"
	"encoding/json"
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

type PgxRateRepository struct {
	BaseRepository
}

// NewRateRepository creates a new repository for rate data.
func NewRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxRateRepository implements portsrepo.RateRepositoryFacade
var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

func toDomainRateRow(m models.RateRow) domain.RateRow {
	return domain.RateRow{
		BaseCurrency: m.BaseCurrency,
		Rates:        m.Rates,
		UpdatedAt:    m.UpdatedAt,
	}
}

// The quote map travels as a JSONB document; decoding happens only here, at
// the store boundary.
func scanRateRow(row pgx.Row) (*models.RateRow, error) {
	var m models.RateRow
	var raw []byte
	if err := row.Scan(&m.BaseCurrency, &raw, &m.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &m.Rates); err != nil {
		return nil, fmt.Errorf("failed to decode rates document for %s: %w", m.BaseCurrency, err)
	}
	return &m, nil
}

func encodeRates(rates map[string]decimal.Decimal) ([]byte, error) {
	raw, err := json.Marshal(rates)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rates document: %w", err)
	}
	return raw, nil
}

// SaveRateRow persists a new rate row. Used only by the seed loader.
func (r *PgxRateRepository) SaveRateRow(ctx context.Context, row domain.RateRow) error {
	raw, err := encodeRates(row.Rates)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rates (base_currency, rates, last_updated_at)
		VALUES ($1, $2, $3);
	`
	_, err = r.Pool.Exec(ctx, query, row.BaseCurrency, raw, row.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: rate row for %s already exists", apperrors.ErrValidation, row.BaseCurrency)
		}
		return fmt.Errorf("failed to save rate row %s: %w", row.BaseCurrency, err)
	}
	return nil
}

// FindRateRow retrieves the quote row for a base currency.
func (r *PgxRateRepository) FindRateRow(ctx context.Context, baseCurrency string) (*domain.RateRow, error) {
	query := `SELECT base_currency, rates, last_updated_at FROM rates WHERE base_currency = $1;`

	m, err := scanRateRow(r.Pool.QueryRow(ctx, query, baseCurrency))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no rates for %s", apperrors.ErrRateNotFound, baseCurrency)
		}
		return nil, fmt.Errorf("failed to find rate row %s: %w", baseCurrency, err)
	}

	row := toDomainRateRow(*m)
	return &row, nil
}

// ListRateRows retrieves every rate row, ordered by base currency.
func (r *PgxRateRepository) ListRateRows(ctx context.Context) ([]domain.RateRow, error) {
	query := `SELECT base_currency, rates, last_updated_at FROM rates ORDER BY base_currency;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rate rows: %w", err)
	}
	defer rows.Close()

	var result []domain.RateRow
	for rows.Next() {
		m, err := scanRateRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate row: %w", err)
		}
		result = append(result, toDomainRateRow(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rate rows: %w", err)
	}
	return result, nil
}

// UpdateRatePair sets base→counter and counter→base inside one database
// transaction so the reciprocal invariant is never observable half-applied.
// Rows are locked in base-currency order to avoid lock cycles with concurrent
// updates of the inverse pair.
func (r *PgxRateRepository) UpdateRatePair(ctx context.Context, baseCurrency, counterCurrency string, rate, reciprocal decimal.Decimal, now time.Time) (*domain.RateRow, *domain.RateRow, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT base_currency, rates, last_updated_at
		FROM rates
		WHERE base_currency = ANY($1)
		ORDER BY base_currency
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, lockQuery, []string{baseCurrency, counterCurrency})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock rate rows: %w", err)
	}

	locked := make(map[string]*models.RateRow, 2)
	for rows.Next() {
		m, err := scanRateRow(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan locked rate row: %w", err)
		}
		locked[m.BaseCurrency] = m
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read locked rate rows: %w", err)
	}

	baseRow, ok := locked[baseCurrency]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyUnknown, baseCurrency)
	}
	counterRow, ok := locked[counterCurrency]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrCurrencyUnknown, counterCurrency)
	}

	baseRow.Rates[counterCurrency] = rate
	baseRow.UpdatedAt = now
	counterRow.Rates[baseCurrency] = reciprocal
	counterRow.UpdatedAt = now

	updateQuery := `UPDATE rates SET rates = $2, last_updated_at = $3 WHERE base_currency = $1;`
	for _, row := range []*models.RateRow{baseRow, counterRow} {
		raw, err := encodeRates(row.Rates)
		if err != nil {
			return nil, nil, err
		}
		if _, err := tx.Exec(ctx, updateQuery, row.BaseCurrency, raw, row.UpdatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to update rate row %s: %w", row.BaseCurrency, err)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	updatedBase := toDomainRateRow(*baseRow)
	updatedCounter := toDomainRateRow(*counterRow)
	return &updatedBase, &updatedCounter, nil
}
