package treasury

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func account(id, bank, currency, ledger, color string) BankAccount {
	return BankAccount{
		ID:            id,
		BankName:      bank,
		Currency:      currency,
		LedgerBalance: decimal.RequireFromString(ledger),
		LastUpdated:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Status:        RecordStatusActive,
		Color:         color,
	}
}

func TestTotalCashPosition(t *testing.T) {
	t.Run("ConvertsEURWithStaticMultiplier", func(t *testing.T) {
		accounts := []BankAccount{
			account("1", "Chase Bank", "USD", "1000000", ""),
			account("2", "HSBC Bank", "EUR", "1000000", ""),
		}

		position := TotalCashPosition(accounts, DefaultRates())

		assertDecimal(t, "2080000", position.Total)
		assert.Equal(t, "USD", position.Currency)
		assert.Equal(t, 2, position.Accounts)
		assert.Empty(t, position.Unconverted)
	})

	t.Run("ReportsCurrenciesWithoutRate", func(t *testing.T) {
		accounts := []BankAccount{
			account("1", "Chase Bank", "USD", "500", ""),
			account("2", "Barclays", "GBP", "700", ""),
			account("3", "Lloyds", "gbp", "900", ""),
		}

		position := TotalCashPosition(accounts, DefaultRates())

		assertDecimal(t, "500", position.Total)
		assert.Equal(t, 1, position.Accounts)
		assert.Equal(t, []string{"GBP"}, position.Unconverted)
	})

	t.Run("EmptyAccounts", func(t *testing.T) {
		position := TotalCashPosition(nil, DefaultRates())
		assertDecimal(t, "0", position.Total)
	})
}

func TestBalanceDistribution(t *testing.T) {
	accounts := []BankAccount{
		account("1", "Chase Bank", "USD", "1000000", "#1f5582"),
		account("2", "HSBC Bank", "EUR", "1000000", ""),
		account("3", "Barclays", "GBP", "1000000", ""),
	}

	shares := BalanceDistribution(accounts, DefaultRates())

	require.Len(t, shares, 2)
	assert.Equal(t, "Chase Bank", shares[0].Name)
	assert.Equal(t, "#1f5582", shares[0].Color)
	assertDecimal(t, "1000000", shares[0].Value)
	assertDecimal(t, "48.08", shares[0].Percent)

	assert.Equal(t, "HSBC Bank", shares[1].Name)
	assert.Equal(t, DefaultDistributionColor, shares[1].Color)
	assertDecimal(t, "1080000", shares[1].Value)
	assertDecimal(t, "51.92", shares[1].Percent)

	t.Run("ZeroTotal", func(t *testing.T) {
		zeroShares := BalanceDistribution([]BankAccount{account("1", "Chase Bank", "USD", "0", "")}, DefaultRates())
		require.Len(t, zeroShares, 1)
		assertDecimal(t, "0", zeroShares[0].Percent)
	})
}

func TestStaticRates(t *testing.T) {
	rates := NewStaticRates("usd", map[string]decimal.Decimal{"eur": decimal.RequireFromString("1.1")})

	rate, ok := rates.Rate("USD")
	assert.True(t, ok)
	assertDecimal(t, "1", rate)

	rate, ok = rates.Rate("Eur")
	assert.True(t, ok)
	assertDecimal(t, "1.1", rate)

	_, ok = rates.Rate("JPY")
	assert.False(t, ok)
	assert.Equal(t, "USD", rates.Base())
}

func TestFilterAccounts(t *testing.T) {
	accounts := []BankAccount{
		account("1", "Chase Bank", "USD", "1", ""),
		account("2", "Bank of America", "USD", "1", ""),
		account("4", "HSBC Bank", "EUR", "1", ""),
	}

	assert.Len(t, FilterAccounts(accounts, "all", "all"), 3)
	assert.Len(t, FilterAccounts(accounts, "", ""), 3)
	assert.Len(t, FilterAccounts(accounts, "USD", "all"), 2)

	filtered := FilterAccounts(accounts, "usd", "Chase Bank")
	require.Len(t, filtered, 1)
	assert.Equal(t, "1", filtered[0].ID)

	assert.Empty(t, FilterAccounts(accounts, "EUR", "Chase Bank"))
}

func TestTransactionsForAccount(t *testing.T) {
	transactions := []Transaction{
		{ID: "1", AccountID: "1"},
		{ID: "2", AccountID: "1"},
		{ID: "3", AccountID: "2"},
	}

	forFirst := TransactionsForAccount(transactions, "1")
	require.Len(t, forFirst, 2)
	assert.Equal(t, "1", forFirst[0].ID)
	assert.Equal(t, "2", forFirst[1].ID)

	assert.NotNil(t, TransactionsForAccount(transactions, "missing"))
	assert.Empty(t, TransactionsForAccount(transactions, "missing"))
}
