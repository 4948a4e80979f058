package repositories

import (
	"context"

	"github.com/arvault/exchange-service/internal/core/domain"
)

// ExchangeLogReader defines read operations for the transaction log
type ExchangeLogReader interface {
	// ListResults retrieves every logged exchange attempt in insertion order.
	ListResults(ctx context.Context) ([]domain.ExchangeResult, error)
}

// ExchangeLogWriter defines write operations for the transaction log
type ExchangeLogWriter interface {
	// AppendResult persists one exchange attempt. The log is append-only;
	// there are no update or delete operations.
	AppendResult(ctx context.Context, result domain.ExchangeResult) error
}

// ExchangeLogRepositoryFacade combines the transaction log interfaces
type ExchangeLogRepositoryFacade interface {
	ExchangeLogReader
	ExchangeLogWriter
}
