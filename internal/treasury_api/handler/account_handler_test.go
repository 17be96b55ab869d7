package handler

import (
	"log/slog"
	"net/http"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

func TestAccountHandler_UpdateBalance(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	tests := []struct {
		name           string
		body           interface{}
		setupMocks     func(*MockAccountService)
		expectedStatus int
	}{
		{
			name: "Success",
			body: `{"ledger_balance":"3000000"}`,
			setupMocks: func(m *MockAccountService) {
				m.On("UpdateBalance", mock.Anything, "1", mock.MatchedBy(func(d decimal.Decimal) bool {
					return d.Equal(decimal.NewFromInt(3_000_000))
				})).Return(treasury.BankAccount{
					ID:               "1",
					LedgerBalance:    decimal.NewFromInt(3_000_000),
					AvailableBalance: decimal.NewFromInt(2_900_000),
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "MissingBalance",
			body:           `{}`,
			setupMocks:     func(*MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "NotANumber",
			body:           `{"ledger_balance":"lots"}`,
			setupMocks:     func(*MockAccountService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "UnknownAccount",
			body: `{"ledger_balance":1}`,
			setupMocks: func(m *MockAccountService) {
				m.On("UpdateBalance", mock.Anything, "1", mock.Anything).
					Return(treasury.BankAccount{}, treasury.ErrAccountNotFound{AccountID: "1"})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAccountService)
			tt.setupMocks(mockService)
			handler := NewAccountHandler(logger, mockService)

			router := setupTestRouter()
			router.PUT("/accounts/:id/balance", handler.UpdateBalance)

			rr := performRequest(router, http.MethodPut, "/accounts/1/balance", tt.body)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				var account treasury.BankAccount
				decodeResponse(t, rr, &account)
				assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(2_900_000)))
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAccountHandler_Reads(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("ListPassesFilters", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("ListAccounts", "EUR", "HSBC Bank").Return([]treasury.BankAccount{{ID: "4", Currency: "EUR"}})
		router := setupTestRouter()
		router.GET("/accounts", NewAccountHandler(logger, mockService).List)

		rr := performRequest(router, http.MethodGet, "/accounts?currency=EUR&bank=HSBC%20Bank", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var accounts []treasury.BankAccount
		resp := decodeResponse(t, rr, &accounts)
		require.Len(t, accounts, 1)
		assert.Equal(t, 1, resp.Meta.TotalItems)
	})

	t.Run("TransactionsOfUnknownAccount", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("AccountTransactions", "99").Return(nil, treasury.ErrAccountNotFound{AccountID: "99"})
		router := setupTestRouter()
		router.GET("/accounts/:id/transactions", NewAccountHandler(logger, mockService).Transactions)

		rr := performRequest(router, http.MethodGet, "/accounts/99/transactions", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("CashPositionFormatted", func(t *testing.T) {
		mockService := new(MockAccountService)
		mockService.On("CashPosition").Return(treasury.CashPosition{
			Currency: "USD",
			Total:    decimal.RequireFromString("6596243.86"),
			Accounts: 4,
		})
		router := setupTestRouter()
		router.GET("/cash-position", NewAccountHandler(logger, mockService).CashPosition)

		rr := performRequest(router, http.MethodGet, "/cash-position", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var position CashPositionResponse
		decodeResponse(t, rr, &position)
		assert.Equal(t, "$6,596,243.86", position.Formatted)
		assert.Equal(t, "USD", position.Currency)
	})
}
