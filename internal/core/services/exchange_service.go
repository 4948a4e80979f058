package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/arvault/exchange-service/internal/core/ports"
	portsrepo "github.com/arvault/exchange-service/internal/core/ports/repositories"
	portssvc "github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/arvault/exchange-service/internal/platform/metrics"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

const resultIDLength = 21

// ExchangeService coordinates a single exchange: rate lookup, funds check,
// the two transfer legs against the external rail with compensation on a
// partial failure, internal settlement, and the log append. Reads go through
// the cache-mediated rate and account services; settlement goes straight to
// the store inside one transaction and invalidates the touched cache entries.
type ExchangeService struct {
	rates           portssvc.RateReaderSvc
	accounts        portssvc.AccountSvcFacade
	accountRepo     portsrepo.AccountRepositoryWithTx
	logRepo         portsrepo.ExchangeLogRepositoryFacade
	transfer        ports.TransferExecutor
	transferTimeout time.Duration
	metrics         *metrics.Metrics
	newID           func() string
}

// NewExchangeService creates a new ExchangeService. transferTimeout bounds
// each rail call; a timeout counts as a failed leg.
func NewExchangeService(
	rates portssvc.RateReaderSvc,
	accounts portssvc.AccountSvcFacade,
	accountRepo portsrepo.AccountRepositoryWithTx,
	logRepo portsrepo.ExchangeLogRepositoryFacade,
	transfer ports.TransferExecutor,
	transferTimeout time.Duration,
	m *metrics.Metrics,
) (*ExchangeService, error) {
	newID, err := nanoid.Standard(resultIDLength)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise result ID generator: %w", err)
	}
	return &ExchangeService{
		rates:           rates,
		accounts:        accounts,
		accountRepo:     accountRepo,
		logRepo:         logRepo,
		transfer:        transfer,
		transferTimeout: transferTimeout,
		metrics:         m,
		newID:           newID,
	}, nil
}

// Ensure ExchangeService implements the service facade
var _ portssvc.ExchangeSvcFacade = (*ExchangeService)(nil)

// Exchange runs one exchange attempt end to end. Business declines come back
// inside the result with Ok=false and a populated Obs; an error return means
// an infrastructure failure (or a failed compensation, which is escalated as
// apperrors.ErrCompensationFailed).
func (s *ExchangeService) Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(
		slog.String("base_currency", req.BaseCurrency),
		slog.String("counter_currency", req.CounterCurrency),
		slog.String("base_amount", req.BaseAmount.String()),
	)
	start := time.Now()

	if req.BaseAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: base amount must be positive", apperrors.ErrValidation)
	}

	result := &domain.ExchangeResult{
		ID:            s.newID(),
		Timestamp:     time.Now().UTC(),
		Request:       req,
		CounterAmount: decimal.Zero,
	}

	// RATE_LOOKUP
	row, err := s.rates.GetRate(ctx, req.BaseCurrency)
	if err != nil {
		return nil, err
	}
	rate, quoted := row.Quote(req.CounterCurrency)
	if !quoted {
		return nil, fmt.Errorf("%w: %s→%s", apperrors.ErrPairNotQuoted, req.BaseCurrency, req.CounterCurrency)
	}
	result.ExchangeRate = rate
	counterAmount := req.BaseAmount.Mul(rate)

	// FUNDS_CHECK
	baseAccount, err := s.accounts.GetAccountByCurrency(ctx, req.BaseCurrency)
	if err != nil {
		return nil, err
	}
	counterAccount, err := s.accounts.GetAccountByCurrency(ctx, req.CounterCurrency)
	if err != nil {
		return nil, err
	}
	if counterAccount.Balance.LessThan(counterAmount) {
		logger.Warn("Exchange declined: insufficient counter funds",
			slog.String("counter_balance", counterAccount.Balance.String()),
			slog.String("counter_amount", counterAmount.String()),
		)
		result.Obs = domain.ObsInsufficientFunds
		return s.logged(ctx, result, start)
	}

	// DEBIT_CLIENT: move the base amount from the client onto our base
	// account. Nothing has moved yet, so a failure here needs no compensation.
	if err := s.transferLeg(ctx, req.BaseAccountID, baseAccount.AccountID, req.BaseAmount); err != nil {
		logger.Warn("Exchange declined: debit leg failed", slog.String("error", err.Error()))
		result.Obs = domain.ObsDebitFailed
		return s.logged(ctx, result, start)
	}

	// CREDIT_CLIENT: move the counter amount from our counter account to the
	// client. On failure the client has already been debited, so the base
	// amount is transferred back before the decline is recorded.
	if err := s.transferLeg(ctx, counterAccount.AccountID, req.CounterAccountID, counterAmount); err != nil {
		logger.Warn("Exchange declined: credit leg failed, compensating", slog.String("error", err.Error()))
		result.Obs = domain.ObsCreditFailed

		// A caller gone mid-flight is a likely cause of the failed credit
		// leg; the compensating transfer must not inherit the dead request
		// context. It stays bounded by the per-leg timeout.
		compCtx := context.WithoutCancel(ctx)
		if cerr := s.transferLeg(compCtx, baseAccount.AccountID, req.BaseAccountID, req.BaseAmount); cerr != nil {
			// The client is left debited with no credit. This must reach an
			// operator; it is never folded into a plain decline.
			s.metrics.RecordCompensationFailure()
			logger.Error("Compensating transfer failed, client funds not restored",
				slog.String("error", cerr.Error()),
				slog.String("client_account", req.BaseAccountID),
			)
			if _, lerr := s.logged(ctx, result, start); lerr != nil {
				logger.Error("Failed to log exchange after compensation failure", slog.String("error", lerr.Error()))
			}
			return nil, fmt.Errorf("%w: could not return %s %s to account %s: %v",
				apperrors.ErrCompensationFailed, req.BaseAmount, req.BaseCurrency, req.BaseAccountID, cerr)
		}
		return s.logged(ctx, result, start)
	}

	// SETTLE_INTERNAL: both legs succeeded; apply both internal balance
	// changes atomically.
	if err := s.settle(ctx, baseAccount, counterAccount, req.BaseAmount, counterAmount); err != nil {
		logger.Error("Failed to settle internal balances", slog.String("error", err.Error()))
		return nil, err
	}

	result.Ok = true
	result.CounterAmount = counterAmount
	logger.Info("Exchange completed",
		slog.String("exchange_rate", rate.String()),
		slog.String("counter_amount", counterAmount.String()),
	)
	return s.logged(ctx, result, start)
}

// GetLog returns every logged exchange attempt in insertion order.
func (s *ExchangeService) GetLog(ctx context.Context) ([]domain.ExchangeResult, error) {
	return s.logRepo.ListResults(ctx)
}

// transferLeg runs one rail call bounded by the configured timeout.
func (s *ExchangeService) transferLeg(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) error {
	legCtx := ctx
	if s.transferTimeout > 0 {
		var cancel context.CancelFunc
		legCtx, cancel = context.WithTimeout(ctx, s.transferTimeout)
		defer cancel()
	}
	return s.transfer.Transfer(legCtx, fromAccountID, toAccountID, amount)
}

// settle increases the internal base account by baseAmount and decreases the
// internal counter account by counterAmount in one database transaction, then
// drops the cache entries for both accounts.
func (s *ExchangeService) settle(ctx context.Context, baseAccount, counterAccount *domain.Account, baseAmount, counterAmount decimal.Decimal) error {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return err
	}
	defer s.accountRepo.Rollback(ctx, tx)

	ids := []string{baseAccount.AccountID, counterAccount.AccountID}
	if _, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, ids); err != nil {
		return err
	}

	deltas := map[string]decimal.Decimal{
		baseAccount.AccountID:    baseAmount,
		counterAccount.AccountID: counterAmount.Neg(),
	}
	if err := s.accountRepo.ApplyBalanceDeltasInTx(ctx, tx, deltas, time.Now().UTC()); err != nil {
		return err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return err
	}

	return s.accounts.InvalidateAccounts(ctx, baseAccount, counterAccount)
}

// logged appends the result to the transaction log, records metrics and
// returns the result. Every business-terminal exchange attempt passes through
// here exactly once; the append runs detached from the request context so a
// canceled caller cannot leave the attempt unrecorded.
func (s *ExchangeService) logged(ctx context.Context, result *domain.ExchangeResult, start time.Time) (*domain.ExchangeResult, error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.logRepo.AppendResult(ctx, *result); err != nil {
		return nil, err
	}

	outcome := metrics.OutcomeDeclined
	if result.Ok {
		outcome = metrics.OutcomeOK
	}
	amount, _ := result.Request.BaseAmount.Float64()
	s.metrics.RecordExchange(outcome, result.Request.BaseCurrency, result.Request.CounterCurrency, amount, time.Since(start).Seconds())

	return result, nil
}
