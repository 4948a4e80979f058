package transfer

import (
	"context"
	"math/rand"
	"time"

	"github.com/arvault/exchange-service/internal/core/ports"
	"github.com/shopspring/decimal"
)

// SimulatedExecutor stands in for the external payment rail. Each transfer
// sleeps for a random duration inside [MinDelay, MaxDelay] and then succeeds,
// unless the context expires first, which is reported as a failed transfer.
// A real rail adapter replaces this type without touching the coordinator.
type SimulatedExecutor struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// NewSimulatedExecutor creates an executor with the default latency window
// of 200-400ms.
func NewSimulatedExecutor() *SimulatedExecutor {
	return &SimulatedExecutor{MinDelay: 200 * time.Millisecond, MaxDelay: 400 * time.Millisecond}
}

// Ensure SimulatedExecutor implements ports.TransferExecutor
var _ ports.TransferExecutor = (*SimulatedExecutor)(nil)

func (e *SimulatedExecutor) delay() time.Duration {
	if e.MaxDelay <= e.MinDelay {
		return e.MinDelay
	}
	return e.MinDelay + time.Duration(rand.Int63n(int64(e.MaxDelay-e.MinDelay)))
}

// Transfer simulates moving amount between two rail accounts.
func (e *SimulatedExecutor) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
	timer := time.NewTimer(e.delay())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
