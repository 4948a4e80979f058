package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arvault/exchange-service/internal/bootstrap"
	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockSeedAccountRepo struct {
	mock.Mock
}

func (m *MockSeedAccountRepo) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockSeedAccountRepo) FindAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockSeedAccountRepo) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockSeedAccountRepo) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockSeedAccountRepo) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, accountID, balance, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockSeedAccountRepo) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockSeedAccountRepo) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, deltas, now)
	return args.Error(0)
}

type MockSeedRateRepo struct {
	mock.Mock
}

func (m *MockSeedRateRepo) FindRateRow(ctx context.Context, baseCurrency string) (*domain.RateRow, error) {
	args := m.Called(ctx, baseCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateRow), args.Error(1)
}

func (m *MockSeedRateRepo) ListRateRows(ctx context.Context) ([]domain.RateRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateRow), args.Error(1)
}

func (m *MockSeedRateRepo) SaveRateRow(ctx context.Context, row domain.RateRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockSeedRateRepo) UpdateRatePair(ctx context.Context, baseCurrency, counterCurrency string, rate, reciprocal decimal.Decimal, now time.Time) (*domain.RateRow, *domain.RateRow, error) {
	args := m.Called(ctx, baseCurrency, counterCurrency, rate, reciprocal, now)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.RateRow), args.Get(1).(*domain.RateRow), args.Error(2)
}

type MockSeedLogRepo struct {
	mock.Mock
}

func (m *MockSeedLogRepo) ListResults(ctx context.Context) ([]domain.ExchangeResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeResult), args.Error(1)
}

func (m *MockSeedLogRepo) AppendResult(ctx context.Context, result domain.ExchangeResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

type SeederTestSuite struct {
	suite.Suite
	mockAccounts *MockSeedAccountRepo
	mockRates    *MockSeedRateRepo
	mockLog      *MockSeedLogRepo
	dir          string
}

func (suite *SeederTestSuite) SetupTest() {
	suite.mockAccounts = new(MockSeedAccountRepo)
	suite.mockRates = new(MockSeedRateRepo)
	suite.mockLog = new(MockSeedLogRepo)
	suite.dir = suite.T().TempDir()
}

func (suite *SeederTestSuite) newSeeder() *bootstrap.Seeder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return bootstrap.NewSeeder(suite.mockAccounts, suite.mockRates, suite.mockLog, suite.dir, logger)
}

func (suite *SeederTestSuite) writeFile(name, content string) {
	err := os.WriteFile(filepath.Join(suite.dir, name), []byte(content), 0o644)
	require.NoError(suite.T(), err)
}

func (suite *SeederTestSuite) expectEmptyStore() {
	suite.mockAccounts.On("ListAccounts", mock.Anything).Return([]domain.Account{}, nil).Once()
	suite.mockRates.On("ListRateRows", mock.Anything).Return([]domain.RateRow{}, nil).Once()
	suite.mockLog.On("ListResults", mock.Anything).Return([]domain.ExchangeResult{}, nil).Once()
}

func (suite *SeederTestSuite) TestRun_SeedsEmptyStore() {
	suite.writeFile("accounts.json", `[
		{"id": "1", "currency": "ARS", "balance": 120000000},
		{"id": "3", "currency": "EUR", "balance": 75000}
	]`)
	suite.writeFile("rates.json", `{
		"ARS": {"EUR": 0.00091},
		"EUR": {"ARS": 1104}
	}`)
	suite.writeFile("log.json", `[]`)

	suite.expectEmptyStore()
	suite.mockAccounts.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Twice()
	suite.mockRates.On("SaveRateRow", mock.Anything, mock.AnythingOfType("domain.RateRow")).Return(nil).Twice()

	err := suite.newSeeder().Run(context.Background())

	suite.Require().NoError(err)
	suite.mockAccounts.AssertExpectations(suite.T())
	suite.mockRates.AssertExpectations(suite.T())
	suite.mockLog.AssertNotCalled(suite.T(), "AppendResult")
}

func (suite *SeederTestSuite) TestRun_SkipsPopulatedStore() {
	suite.mockAccounts.On("ListAccounts", mock.Anything).
		Return([]domain.Account{{AccountID: "1", CurrencyCode: "ARS"}}, nil).Once()
	suite.mockRates.On("ListRateRows", mock.Anything).Return([]domain.RateRow{}, nil).Once()
	suite.mockLog.On("ListResults", mock.Anything).Return([]domain.ExchangeResult{}, nil).Once()

	err := suite.newSeeder().Run(context.Background())

	suite.Require().NoError(err)
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount")
	suite.mockRates.AssertNotCalled(suite.T(), "SaveRateRow")
}

func (suite *SeederTestSuite) TestRun_RejectsDuplicateCurrency() {
	suite.writeFile("accounts.json", `[
		{"id": "1", "currency": "ARS", "balance": 100},
		{"id": "9", "currency": "ARS", "balance": 200}
	]`)

	suite.expectEmptyStore()
	// The first ARS account is saved before the duplicate is detected.
	suite.mockAccounts.On("SaveAccount", mock.Anything, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	err := suite.newSeeder().Run(context.Background())

	suite.Require().Error(err)
	suite.Contains(err.Error(), "ARS")
	suite.mockAccounts.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything,
		mock.MatchedBy(func(acc domain.Account) bool { return acc.AccountID == "9" }))
}

func (suite *SeederTestSuite) TestRun_RejectsNonReciprocalRates() {
	suite.writeFile("accounts.json", `[]`)
	suite.writeFile("rates.json", `{
		"ARS": {"EUR": 0.5},
		"EUR": {"ARS": 1104}
	}`)

	suite.expectEmptyStore()

	err := suite.newSeeder().Run(context.Background())

	suite.Require().Error(err)
	suite.Contains(err.Error(), "not reciprocal")
	suite.mockRates.AssertNotCalled(suite.T(), "SaveRateRow")
}

func TestSeederTestSuite(t *testing.T) {
	suite.Run(t, new(SeederTestSuite))
}
