package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/arvault/exchange-service/internal/adapters/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransfer_CompletesWithinDelayWindow(t *testing.T) {
	exec := &transfer.SimulatedExecutor{MinDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}

	err := exec.Transfer(context.Background(), "a", "b", decimal.NewFromInt(10))
	require.NoError(t, err)
}

func TestTransfer_ContextDeadlineFailsTheLeg(t *testing.T) {
	exec := &transfer.SimulatedExecutor{MinDelay: time.Second, MaxDelay: 2 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	err := exec.Transfer(ctx, "a", "b", decimal.NewFromInt(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewSimulatedExecutor_DefaultWindow(t *testing.T) {
	exec := transfer.NewSimulatedExecutor()
	assert.Equal(t, 200*time.Millisecond, exec.MinDelay)
	assert.Equal(t, 400*time.Millisecond, exec.MaxDelay)
}
