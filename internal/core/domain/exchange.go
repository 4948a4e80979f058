package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Failure observations recorded on declined exchanges. These strings are part
// of the log format and are matched by downstream tooling; do not reword.
const (
	ObsInsufficientFunds = "Not enough funds on counter currency account"
	ObsDebitFailed       = "Could not withdraw from clients' account"
	ObsCreditFailed      = "Could not transfer to clients' account"
)

// ExchangeRequest describes a single exchange: the client sells BaseAmount of
// BaseCurrency from their base account and receives the counter amount on
// their counter account.
type ExchangeRequest struct {
	BaseCurrency     string          `json:"baseCurrency"`
	CounterCurrency  string          `json:"counterCurrency"`
	BaseAccountID    string          `json:"baseAccountId"`
	CounterAccountID string          `json:"counterAccountId"`
	BaseAmount       decimal.Decimal `json:"baseAmount"`
}

// ExchangeResult is the immutable record of one exchange attempt, successful
// or not. Declined exchanges carry Ok=false and a human-readable Obs; the
// request is embedded so the log is self-contained.
type ExchangeResult struct {
	ID            string          `json:"id"`
	Timestamp     time.Time       `json:"ts"`
	Ok            bool            `json:"ok"`
	Request       ExchangeRequest `json:"request"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	CounterAmount decimal.Decimal `json:"counterAmount"`
	Obs           string          `json:"obs,omitempty"`
}
