package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/store"
	"github.com/treasury-dashboard/internal/treasury_api/middleware"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

type MockStateService struct {
	mock.Mock
}

func (m *MockStateService) Version() uint64 {
	return m.Called().Get(0).(uint64)
}

func (m *MockStateService) Snapshot() store.Snapshot {
	return m.Called().Get(0).(store.Snapshot)
}

func (m *MockStateService) Collection(name treasury.Collection) (any, error) {
	args := m.Called(name)
	return args.Get(0), args.Error(1)
}

func (m *MockStateService) ReplaceCollection(ctx context.Context, name treasury.Collection, raw json.RawMessage) error {
	return m.Called(ctx, name, raw).Error(0)
}

func (m *MockStateService) SelectAccount(ctx context.Context, id string) (*treasury.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.BankAccount), args.Error(1)
}

func (m *MockStateService) SelectPayment(ctx context.Context, id string) (*treasury.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*treasury.Payment), args.Error(1)
}

func (m *MockStateService) ToggleSidebar() bool {
	return m.Called().Bool(0)
}

func (m *MockStateService) Subscribe(buffer int) *store.Subscription {
	return m.Called(buffer).Get(0).(*store.Subscription)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) ListAccounts(currency, bankName string) []treasury.BankAccount {
	return m.Called(currency, bankName).Get(0).([]treasury.BankAccount)
}

func (m *MockAccountService) AccountTransactions(accountID string) ([]treasury.Transaction, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]treasury.Transaction), args.Error(1)
}

func (m *MockAccountService) UpdateBalance(ctx context.Context, accountID string, ledgerBalance decimal.Decimal) (treasury.BankAccount, error) {
	args := m.Called(ctx, accountID, ledgerBalance)
	return args.Get(0).(treasury.BankAccount), args.Error(1)
}

func (m *MockAccountService) CashPosition() treasury.CashPosition {
	return m.Called().Get(0).(treasury.CashPosition)
}

func (m *MockAccountService) BalanceDistribution() []treasury.BalanceShare {
	return m.Called().Get(0).([]treasury.BalanceShare)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ListPayments(status string) ([]treasury.Payment, map[string]int, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]treasury.Payment), args.Get(1).(map[string]int), args.Error(2)
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, in treasury.PaymentInput) (treasury.Payment, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(treasury.Payment), args.Error(1)
}

func (m *MockPaymentService) TransitionPayment(ctx context.Context, paymentID string, action service.PaymentAction) (treasury.Payment, error) {
	args := m.Called(ctx, paymentID, action)
	return args.Get(0).(treasury.Payment), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers() []treasury.TreasuryUser {
	return m.Called().Get(0).([]treasury.TreasuryUser)
}

func (m *MockUserService) GetUser(id string) (treasury.TreasuryUser, error) {
	args := m.Called(id)
	return args.Get(0).(treasury.TreasuryUser), args.Error(1)
}

func (m *MockUserService) CreateUser(ctx context.Context, in treasury.UserInput) (treasury.TreasuryUser, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(treasury.TreasuryUser), args.Error(1)
}

type MockForecastService struct {
	mock.Mock
}

func (m *MockForecastService) ListScenarios() []treasury.ForecastScenario {
	return m.Called().Get(0).([]treasury.ForecastScenario)
}

func (m *MockForecastService) CreateScenario(ctx context.Context, in treasury.ScenarioInput) (treasury.ForecastScenario, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(treasury.ForecastScenario), args.Error(1)
}

func (m *MockForecastService) ScenarioVariants(scenarioID string) ([]treasury.VariantPoint, error) {
	args := m.Called(scenarioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]treasury.VariantPoint), args.Error(1)
}

func (m *MockForecastService) Impact(in treasury.ImpactInput) treasury.Impact {
	return m.Called(in).Get(0).(treasury.Impact)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

func performRequest(r http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req, _ := http.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals the envelope and decodes its data field into out when out is non-nil
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) Response {
	t.Helper()
	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "Failed to unmarshal response")
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out), "Failed to unmarshal data field")
	}
	return envelope.Response
}
