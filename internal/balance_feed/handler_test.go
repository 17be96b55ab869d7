package balance_feed

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/data/fixtures"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/store"
)

// MockBalanceUpdater for testing
type MockBalanceUpdater struct {
	mock.Mock
}

func (m *MockBalanceUpdater) UpdateBankBalance(ctx context.Context, accountID string, newBalance decimal.Decimal) (treasury.BankAccount, error) {
	args := m.Called(ctx, accountID, newBalance)
	return args.Get(0).(treasury.BankAccount), args.Error(1)
}

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type countingMetrics map[string]int

func (c countingMetrics) RecordBalanceFeed(result string) { c[result]++ }

func TestHandleMessage(t *testing.T) {
	logger := slog.Default()
	valid := []byte(`{"account_id":"1","ledger_balance":"2500000.00","correlation_id":"corr-1"}`)

	tests := []struct {
		name          string
		value         []byte
		setupMocks    func(*MockBalanceUpdater, *MockDeadLetterPublisher)
		expectedError string
		expectedCount string
	}{
		{
			name:  "successful update",
			value: valid,
			setupMocks: func(u *MockBalanceUpdater, _ *MockDeadLetterPublisher) {
				u.On("UpdateBankBalance", mock.Anything, "1", mock.MatchedBy(func(d decimal.Decimal) bool {
					return d.Equal(decimal.NewFromInt(2_500_000))
				})).Return(treasury.BankAccount{ID: "1"}, nil)
			},
			expectedCount: ResultApplied,
		},
		{
			name:  "numeric balance",
			value: []byte(`{"account_id":"2","ledger_balance":875000.5}`),
			setupMocks: func(u *MockBalanceUpdater, _ *MockDeadLetterPublisher) {
				u.On("UpdateBankBalance", mock.Anything, "2", mock.MatchedBy(func(d decimal.Decimal) bool {
					return d.Equal(decimal.RequireFromString("875000.5"))
				})).Return(treasury.BankAccount{ID: "2"}, nil)
			},
			expectedCount: ResultApplied,
		},
		{
			name:  "unknown account is skipped",
			value: []byte(`{"account_id":"99","ledger_balance":"1"}`),
			setupMocks: func(u *MockBalanceUpdater, _ *MockDeadLetterPublisher) {
				u.On("UpdateBankBalance", mock.Anything, "99", mock.Anything).
					Return(treasury.BankAccount{}, treasury.ErrAccountNotFound{AccountID: "99"})
			},
			expectedCount: ResultUnknownAccount,
		},
		{
			name:  "store error is retried",
			value: valid,
			setupMocks: func(u *MockBalanceUpdater, _ *MockDeadLetterPublisher) {
				u.On("UpdateBankBalance", mock.Anything, "1", mock.Anything).
					Return(treasury.BankAccount{}, context.Canceled)
			},
			expectedError: "applying balance update for account 1 failed",
			expectedCount: ResultFailed,
		},
		{
			name:  "malformed json goes to DLQ",
			value: []byte("invalid json"),
			setupMocks: func(_ *MockBalanceUpdater, d *MockDeadLetterPublisher) {
				d.On("PublishToDLQ", mock.Anything, "feed-key", []byte("invalid json"),
					mock.MatchedBy(func(reason string) bool {
						return strings.HasPrefix(reason, "Failed to unmarshal balance update: ")
					})).Return(nil)
			},
			expectedCount: ResultDeadLettered,
		},
		{
			name:  "missing balance goes to DLQ",
			value: []byte(`{"account_id":"1"}`),
			setupMocks: func(_ *MockBalanceUpdater, d *MockDeadLetterPublisher) {
				d.On("PublishToDLQ", mock.Anything, "feed-key", mock.Anything,
					"Invalid balance update: ledger_balance: is required").Return(nil)
			},
			expectedCount: ResultDeadLettered,
		},
		{
			name:  "DLQ failure leaves message uncommitted",
			value: []byte(`{"ledger_balance":"10"}`),
			setupMocks: func(_ *MockBalanceUpdater, d *MockDeadLetterPublisher) {
				d.On("PublishToDLQ", mock.Anything, "feed-key", mock.Anything, mock.Anything).Return(errors.New("dlq error"))
			},
			expectedError: "unprocessable balance update",
			expectedCount: ResultFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updater := &MockBalanceUpdater{}
			dlq := &MockDeadLetterPublisher{}
			metrics := countingMetrics{}
			tt.setupMocks(updater, dlq)

			handler := NewHandler(logger, updater, dlq, metrics)

			err := handler.HandleMessage(context.Background(), []byte("feed-key"), tt.value)

			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, metrics[tt.expectedCount])
			updater.AssertExpectations(t)
			dlq.AssertExpectations(t)
		})
	}
}

func TestHandleMessage_WithoutDLQ(t *testing.T) {
	handler := NewHandler(slog.Default(), &MockBalanceUpdater{}, nil, nil)

	err := handler.HandleMessage(context.Background(), nil, []byte("{"))

	assert.ErrorContains(t, err, "unprocessable balance update")
}

func TestHandleMessage_AppliesToStore(t *testing.T) {
	state := store.New(fixtures.Seed())
	handler := NewHandler(slog.Default(), state, nil, nil)

	err := handler.HandleMessage(context.Background(), []byte("1"), []byte(`{"account_id":"1","ledger_balance":"3000000"}`))
	require.NoError(t, err)

	account, err := state.BankAccount("1")
	require.NoError(t, err)
	assert.True(t, account.LedgerBalance.Equal(decimal.NewFromInt(3_000_000)))
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(2_900_000)))
}
