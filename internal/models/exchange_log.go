package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeLogEntry mirrors a row of the exchange_log table. The embedded
// request is flattened into columns; seq orders entries by insertion.
type ExchangeLogEntry struct {
	EntryID          string          `db:"entry_id"`
	Timestamp        time.Time       `db:"ts"`
	Ok               bool            `db:"ok"`
	BaseCurrency     string          `db:"base_currency"`
	CounterCurrency  string          `db:"counter_currency"`
	BaseAccountID    string          `db:"base_account_id"`
	CounterAccountID string          `db:"counter_account_id"`
	BaseAmount       decimal.Decimal `db:"base_amount"`
	ExchangeRate     decimal.Decimal `db:"exchange_rate"`
	CounterAmount    decimal.Decimal `db:"counter_amount"`
	Obs              sql.NullString  `db:"obs"`
	Seq              int64           `db:"seq"`
}
