package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/arvault/exchange-service/internal/core/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCurrency(ctx context.Context, currencyCode string) (*domain.Account, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, accountID string, balance decimal.Decimal, now time.Time) (*domain.Account, error) {
	args := m.Called(ctx, accountID, balance, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, deltas, now)
	return args.Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, newTestCacheLayer())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_SecondReadServedFromCache() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "1", CurrencyCode: "ARS", Balance: decimal.NewFromInt(120000000)}

	suite.mockRepo.On("FindAccountByID", ctx, "1").Return(account, nil).Once()

	first, err := suite.service.GetAccountByID(ctx, "1")
	suite.Require().NoError(err)
	suite.Equal("ARS", first.CurrencyCode)

	second, err := suite.service.GetAccountByID(ctx, "1")
	suite.Require().NoError(err)
	suite.True(first.Balance.Equal(second.Balance))

	suite.mockRepo.AssertNumberOfCalls(suite.T(), "FindAccountByID", 1)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByID", ctx, "missing").Return(nil, apperrors.ErrAccountNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, "missing")
	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *AccountServiceTestSuite) TestGetAccountByCurrency_Uppercases() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "3", CurrencyCode: "EUR", Balance: decimal.NewFromInt(75000)}

	suite.mockRepo.On("FindAccountByCurrency", ctx, "EUR").Return(account, nil).Once()

	got, err := suite.service.GetAccountByCurrency(ctx, "eur")
	suite.Require().NoError(err)
	suite.Equal("3", got.AccountID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByCurrency_Duplicate() {
	ctx := context.Background()

	suite.mockRepo.On("FindAccountByCurrency", ctx, "USD").Return(nil, apperrors.ErrDuplicateCurrency).Once()

	got, err := suite.service.GetAccountByCurrency(ctx, "USD")
	suite.Require().Error(err)
	suite.Nil(got)
	suite.ErrorIs(err, apperrors.ErrDuplicateCurrency)
}

func (suite *AccountServiceTestSuite) TestSetBalance_ReadYourWrite() {
	ctx := context.Background()
	before := &domain.Account{AccountID: "1", CurrencyCode: "ARS", Balance: decimal.NewFromInt(100)}
	after := &domain.Account{AccountID: "1", CurrencyCode: "ARS", Balance: decimal.NewFromInt(999)}

	// Prime the cache with the old balance.
	suite.mockRepo.On("FindAccountByID", ctx, "1").Return(before, nil).Once()
	_, err := suite.service.GetAccountByID(ctx, "1")
	suite.Require().NoError(err)

	suite.mockRepo.On("UpdateBalance", ctx, "1",
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(999)) }),
		mock.AnythingOfType("time.Time"),
	).Return(after, nil).Once()

	updated, err := suite.service.SetBalance(ctx, "1", decimal.NewFromInt(999))
	suite.Require().NoError(err)
	suite.True(updated.Balance.Equal(decimal.NewFromInt(999)))

	// The stale cache entry was invalidated; the next read hits the store
	// and observes the overwritten balance.
	suite.mockRepo.On("FindAccountByID", ctx, "1").Return(after, nil).Once()
	got, err := suite.service.GetAccountByID(ctx, "1")
	suite.Require().NoError(err)
	suite.True(got.Balance.Equal(decimal.NewFromInt(999)))

	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "FindAccountByID", 2)
}

func (suite *AccountServiceTestSuite) TestSetBalance_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("UpdateBalance", ctx, "missing", mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrAccountNotFound).Once()

	account, err := suite.service.SetBalance(ctx, "missing", decimal.NewFromInt(1))
	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	accounts := []domain.Account{
		{AccountID: "1", CurrencyCode: "ARS", Balance: decimal.NewFromInt(120000000)},
		{AccountID: "2", CurrencyCode: "BRL", Balance: decimal.NewFromInt(500000)},
	}

	suite.mockRepo.On("ListAccounts", ctx).Return(accounts, nil).Once()

	got, err := suite.service.ListAccounts(ctx)
	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
