package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// UpdateBankBalance sets an account's ledger balance and derives the available balance
// by withholding the configured hold. The available balance is not clamped at zero.
func (s *TreasuryState) UpdateBankBalance(ctx context.Context, accountID string, newBalance decimal.Decimal) (treasury.BankAccount, error) {
	if err := ctx.Err(); err != nil {
		return treasury.BankAccount{}, err
	}

	var updated treasury.BankAccount
	err := s.mutate("update_bank_balance", func(now time.Time) (Change, error) {
		i := s.accountIndex(accountID)
		if i < 0 {
			return Change{}, treasury.ErrAccountNotFound{AccountID: accountID}
		}
		account := &s.data.BankAccounts[i]
		account.LedgerBalance = newBalance
		account.AvailableBalance = newBalance.Sub(s.holdAmount)
		account.LastUpdated = now
		updated = *account
		return Change{Kind: ChangeBalanceUpdated, Collection: treasury.CollectionBankAccounts, EntityID: accountID}, nil
	})
	if err != nil {
		return treasury.BankAccount{}, err
	}
	return updated, nil
}

// SelectBankAccount sets the account shown in detail views. Nil clears the selection.
func (s *TreasuryState) SelectBankAccount(account *treasury.BankAccount) {
	_ = s.mutate("select_bank_account", func(time.Time) (Change, error) {
		s.selectedAccountID = ""
		if account != nil {
			s.selectedAccountID = account.ID
		}
		return Change{Kind: ChangeSelection, Collection: treasury.CollectionBankAccounts, EntityID: s.selectedAccountID}, nil
	})
}

// ToggleSidebar flips the sidebar flag and returns the new value
func (s *TreasuryState) ToggleSidebar() bool {
	var collapsed bool
	_ = s.mutate("toggle_sidebar", func(time.Time) (Change, error) {
		s.sidebarCollapsed = !s.sidebarCollapsed
		collapsed = s.sidebarCollapsed
		return Change{Kind: ChangeSidebarToggled}, nil
	})
	return collapsed
}

// TransactionsForAccount returns copies of the transactions referencing an account
func (s *TreasuryState) TransactionsForAccount(accountID string) []treasury.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return treasury.TransactionsForAccount(s.data.Transactions, accountID)
}

// BankAccount returns a copy of one account
func (s *TreasuryState) BankAccount(accountID string) (treasury.BankAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.accountIndex(accountID)
	if i < 0 {
		return treasury.BankAccount{}, treasury.ErrAccountNotFound{AccountID: accountID}
	}
	return s.data.BankAccounts[i], nil
}

// Payment returns a copy of one payment
func (s *TreasuryState) Payment(paymentID string) (treasury.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.paymentIndex(paymentID)
	if i < 0 {
		return treasury.Payment{}, treasury.ErrPaymentNotFound{PaymentID: paymentID}
	}
	return s.data.Payments[i].Clone(), nil
}
