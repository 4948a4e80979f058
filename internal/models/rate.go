package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateRow mirrors a row of the rates table. The quote map is persisted as a
// single JSONB document per base currency; it is encoded and decoded only
// inside the pgsql adapter.
type RateRow struct {
	BaseCurrency string                     `db:"base_currency"`
	Rates        map[string]decimal.Decimal `db:"rates"`
	UpdatedAt    time.Time                  `db:"last_updated_at"`
}
