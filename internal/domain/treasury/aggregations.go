package treasury

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDistributionColor is used for accounts without a display color
const DefaultDistributionColor = "#8884d8"

// CashPosition is the converted sum of all account ledger balances
type CashPosition struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Accounts int             `json:"accounts"` // Accounts included in Total
	// Unconverted lists currencies without a rate; their accounts are left out of Total
	Unconverted []string `json:"unconverted,omitempty"`
}

// BalanceShare is one account's slice of the converted total
type BalanceShare struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Percent   decimal.Decimal `json:"percent"` // 0-100, two decimals
	Color     string          `json:"color"`
}

// TotalCashPosition sums ledger balances converted into the provider's base currency
func TotalCashPosition(accounts []BankAccount, rates RateProvider) CashPosition {
	position := CashPosition{Currency: rates.Base(), Total: decimal.Zero}
	for _, account := range accounts {
		rate, ok := rates.Rate(account.Currency)
		if !ok {
			currency := strings.ToUpper(account.Currency)
			if !slices.Contains(position.Unconverted, currency) {
				position.Unconverted = append(position.Unconverted, currency)
			}
			continue
		}
		position.Total = position.Total.Add(account.LedgerBalance.Mul(rate))
		position.Accounts++
	}
	return position
}

// BalanceDistribution returns every convertible account's converted balance and its
// share of the converted total, in account order. Shares are zero when the total is zero.
func BalanceDistribution(accounts []BankAccount, rates RateProvider) []BalanceShare {
	shares := make([]BalanceShare, 0, len(accounts))
	total := decimal.Zero
	for _, account := range accounts {
		rate, ok := rates.Rate(account.Currency)
		if !ok {
			continue
		}
		value := account.LedgerBalance.Mul(rate)
		total = total.Add(value)

		color := account.Color
		if color == "" {
			color = DefaultDistributionColor
		}
		shares = append(shares, BalanceShare{
			AccountID: account.ID,
			Name:      account.BankName,
			Value:     value,
			Color:     color,
		})
	}

	hundred := decimal.NewFromInt(100)
	for i := range shares {
		if total.IsZero() {
			shares[i].Percent = decimal.Zero
			continue
		}
		shares[i].Percent = shares[i].Value.Div(total).Mul(hundred).Round(2)
	}
	return shares
}

// FilterAccounts keeps accounts matching the currency and bank name.
// An empty or "all" filter matches everything.
func FilterAccounts(accounts []BankAccount, currency, bankName string) []BankAccount {
	out := make([]BankAccount, 0, len(accounts))
	for _, account := range accounts {
		if !matchesFilter(currency, account.Currency) || !matchesFilter(bankName, account.BankName) {
			continue
		}
		out = append(out, account)
	}
	return out
}

// TransactionsForAccount returns the transactions referencing accountID, in collection order
func TransactionsForAccount(transactions []Transaction, accountID string) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

func matchesFilter(filter, value string) bool {
	if filter == "" || strings.EqualFold(filter, "all") {
		return true
	}
	return strings.EqualFold(filter, value)
}
