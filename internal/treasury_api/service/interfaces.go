package service

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/store"
)

// PaymentAction names a payment lifecycle operation
type PaymentAction string

const (
	PaymentActionSubmit  PaymentAction = "submit"
	PaymentActionApprove PaymentAction = "approve"
	PaymentActionReject  PaymentAction = "reject"
	PaymentActionSend    PaymentAction = "send"
)

// StateService exposes whole-state reads, collections, selection and change subscriptions
type StateService interface {
	Version() uint64
	Snapshot() store.Snapshot

	// Collection returns a copy of the named collection.
	// Returns ErrUnknownCollection for a name the store does not hold
	Collection(name treasury.Collection) (any, error)

	// ReplaceCollection decodes raw as the collection's record type and swaps it in.
	// Returns a ValidationError when raw does not decode
	ReplaceCollection(ctx context.Context, name treasury.Collection, raw json.RawMessage) error

	// SelectAccount selects the account with the given id, or clears the selection when id is empty
	SelectAccount(ctx context.Context, id string) (*treasury.BankAccount, error)

	// SelectPayment selects the payment with the given id, or clears the selection when id is empty
	SelectPayment(ctx context.Context, id string) (*treasury.Payment, error)

	ToggleSidebar() bool
	Subscribe(buffer int) *store.Subscription
}

// AccountService defines bank account reads, balance updates and cash position aggregations
type AccountService interface {
	ListAccounts(currency, bankName string) []treasury.BankAccount

	// AccountTransactions returns ErrAccountNotFound if the account doesn't exist
	AccountTransactions(accountID string) ([]treasury.Transaction, error)

	UpdateBalance(ctx context.Context, accountID string, ledgerBalance decimal.Decimal) (treasury.BankAccount, error)
	CashPosition() treasury.CashPosition
	BalanceDistribution() []treasury.BalanceShare
}

// PaymentService defines payment listing, creation and lifecycle operations
type PaymentService interface {
	// ListPayments filters by status ("" or "all" for every payment) and returns counts over all payments
	ListPayments(status string) ([]treasury.Payment, map[string]int, error)
	CreatePayment(ctx context.Context, in treasury.PaymentInput) (treasury.Payment, error)

	// TransitionPayment applies a lifecycle action.
	// Returns ErrPaymentNotFound or ErrInvalidTransition without changing state
	TransitionPayment(ctx context.Context, paymentID string, action PaymentAction) (treasury.Payment, error)
}

// ActivityService defines activity log operations
type ActivityService interface {
	ListActivities() []treasury.Activity
	AddActivity(ctx context.Context, in treasury.ActivityInput) (treasury.Activity, error)
}

// ForecastService defines forecast scenario operations
type ForecastService interface {
	ListScenarios() []treasury.ForecastScenario
	CreateScenario(ctx context.Context, in treasury.ScenarioInput) (treasury.ForecastScenario, error)
	ScenarioVariants(scenarioID string) ([]treasury.VariantPoint, error)
	Impact(in treasury.ImpactInput) treasury.Impact
}

// SummaryService defines FX and connector summaries
type SummaryService interface {
	FXSummary() treasury.FXSummary
	ConnectorSummary() treasury.ConnectorSummary
}

// UserService defines user operations
type UserService interface {
	ListUsers() []treasury.TreasuryUser

	// GetUser returns ErrUserNotFound if no user has the id
	GetUser(id string) (treasury.TreasuryUser, error)

	// CreateUser returns ErrDuplicateEmail if the email is taken
	CreateUser(ctx context.Context, in treasury.UserInput) (treasury.TreasuryUser, error)
}

// API is everything the HTTP layer needs
type API interface {
	StateService
	AccountService
	PaymentService
	ActivityService
	ForecastService
	SummaryService
	UserService
}
