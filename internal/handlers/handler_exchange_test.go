package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arvault/exchange-service/internal/core/domain"
	"github.com/arvault/exchange-service/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExchangeSvc struct {
	mock.Mock
}

func (m *MockExchangeSvc) Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeResult), args.Error(1)
}

func (m *MockExchangeSvc) GetLog(ctx context.Context) ([]domain.ExchangeResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExchangeResult), args.Error(1)
}

func newExchangeRouter(svc *MockExchangeSvc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewExchangeHandler(svc)
	r.POST("/exchange", h.Exchange)
	r.GET("/log", h.GetLog)
	return r
}

const exchangeBody = `{
	"baseCurrency": "EUR",
	"counterCurrency": "ARS",
	"baseAccountId": "client-eur",
	"counterAccountId": "client-ars",
	"baseAmount": 10
}`

func TestExchangeHandler_Success(t *testing.T) {
	svc := new(MockExchangeSvc)
	router := newExchangeRouter(svc)

	result := &domain.ExchangeResult{
		ID:            "abc123",
		Ok:            true,
		ExchangeRate:  decimal.NewFromInt(1104),
		CounterAmount: decimal.NewFromInt(11040),
	}
	svc.On("Exchange", mock.Anything, mock.AnythingOfType("domain.ExchangeRequest")).Return(result, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exchange", strings.NewReader(exchangeBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "abc123", body["id"])
	svc.AssertExpectations(t)
}

func TestExchangeHandler_DeclinedReturns500WithResult(t *testing.T) {
	svc := new(MockExchangeSvc)
	router := newExchangeRouter(svc)

	result := &domain.ExchangeResult{
		ID:           "abc123",
		Ok:           false,
		Obs:          domain.ObsInsufficientFunds,
		ExchangeRate: decimal.NewFromInt(1104),
	}
	svc.On("Exchange", mock.Anything, mock.AnythingOfType("domain.ExchangeRequest")).Return(result, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exchange", strings.NewReader(exchangeBody))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, domain.ObsInsufficientFunds, body["obs"])
	svc.AssertExpectations(t)
}

func TestExchangeHandler_MissingFieldsRejected(t *testing.T) {
	svc := new(MockExchangeSvc)
	router := newExchangeRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exchange", strings.NewReader(`{"baseCurrency":"EUR"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Exchange")
}

func TestGetLogHandler(t *testing.T) {
	svc := new(MockExchangeSvc)
	router := newExchangeRouter(svc)

	results := []domain.ExchangeResult{
		{ID: "r1", Ok: true},
		{ID: "r2", Ok: false, Obs: domain.ObsCreditFailed},
	}
	svc.On("GetLog", mock.Anything).Return(results, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/log", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "r1", body[0]["id"])
	svc.AssertExpectations(t)
}
