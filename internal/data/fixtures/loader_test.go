package fixtures

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

func TestLoader_Load(t *testing.T) {
	seed, err := NewLoader().Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, seed.BankAccounts, 4)
	assert.Len(t, seed.Transactions, 3)
	assert.Len(t, seed.Payments, 2)
	assert.Len(t, seed.FXExposures, 2)
	assert.Len(t, seed.Connectors, 2)
	assert.Len(t, seed.Users, 2)
	assert.Len(t, seed.Activities, 4)
	require.Len(t, seed.ForecastScenarios, 1)
	assert.Len(t, seed.ForecastScenarios[0].Data, 12)

	pending := seed.Payments[0]
	assert.Equal(t, "PAY-001234", pending.ID)
	assert.Equal(t, treasury.PaymentStatusPendingApproval, pending.Status)
	assert.True(t, pending.FraudAlert)
	require.NotNil(t, pending.FraudScore)
	assert.Equal(t, 75, *pending.FraudScore)
}

func TestLoader_LoadReturnsIndependentCopies(t *testing.T) {
	first, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	first.Payments[0].Status = treasury.PaymentStatusBlocked
	*first.Payments[0].FraudScore = 1

	second, err := NewLoader().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, treasury.PaymentStatusPendingApproval, second.Payments[0].Status)
	assert.Equal(t, 75, *second.Payments[0].FraudScore)
}

func TestLoader_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seed, err := NewLoader().Load(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, seed)
}

func TestSeed_AvailableBalancesWithholdHold(t *testing.T) {
	for _, account := range Seed().BankAccounts {
		hold := account.LedgerBalance.Sub(account.AvailableBalance)
		assert.True(t, hold.Equal(decimal.NewFromInt(100_000)), account.BankName)
	}
}
