package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents one of the service's internal ledger accounts. The
// service holds exactly one account per currency; client accounts live on the
// external transfer rail and are referenced only by ID.
type Account struct {
	AccountID    string          `json:"accountID"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
