package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors a row of the accounts table.
type Account struct {
	AccountID    string          `db:"account_id"`
	CurrencyCode string          `db:"currency_code"`
	Balance      decimal.Decimal `db:"balance"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"last_updated_at"`
}
