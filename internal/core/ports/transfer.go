package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferExecutor moves value between two accounts on the external payment
// rail. Implementations may be slow; callers bound each call with a context
// deadline and treat a deadline hit as a failed transfer. The executor gives
// no exactly-once guarantee: a leg can succeed on the rail after the caller
// saw an error. Reconciliation of that window is out of scope here.
type TransferExecutor interface {
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error
}
