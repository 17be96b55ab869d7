package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/store"
)

// TreasuryService implements API on top of the treasury state store
type TreasuryService struct {
	state  *store.TreasuryState
	rates  treasury.RateProvider
	logger *slog.Logger
}

// NewTreasuryService creates the service. Aggregations convert with rates.
func NewTreasuryService(logger *slog.Logger, state *store.TreasuryState, rates treasury.RateProvider) *TreasuryService {
	return &TreasuryService{
		state:  state,
		rates:  rates,
		logger: logger,
	}
}

func (s *TreasuryService) Version() uint64 {
	return s.state.Version()
}

func (s *TreasuryService) Snapshot() store.Snapshot {
	return s.state.Snapshot()
}

func (s *TreasuryService) Collection(name treasury.Collection) (any, error) {
	snap := s.state.Snapshot()
	switch name {
	case treasury.CollectionBankAccounts:
		return snap.BankAccounts, nil
	case treasury.CollectionTransactions:
		return snap.Transactions, nil
	case treasury.CollectionPayments:
		return snap.Payments, nil
	case treasury.CollectionForecastScenarios:
		return snap.ForecastScenarios, nil
	case treasury.CollectionFXExposures:
		return snap.FXExposures, nil
	case treasury.CollectionConnectors:
		return snap.Connectors, nil
	case treasury.CollectionUsers:
		return snap.Users, nil
	case treasury.CollectionActivities:
		return snap.Activities, nil
	}
	return nil, treasury.ErrUnknownCollection{Name: string(name)}
}

func (s *TreasuryService) ReplaceCollection(ctx context.Context, name treasury.Collection, raw json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		items any
		err   error
	)
	switch name {
	case treasury.CollectionBankAccounts:
		items, err = decodeItems[treasury.BankAccount](raw)
	case treasury.CollectionTransactions:
		items, err = decodeItems[treasury.Transaction](raw)
	case treasury.CollectionPayments:
		items, err = decodeItems[treasury.Payment](raw)
	case treasury.CollectionForecastScenarios:
		items, err = decodeItems[treasury.ForecastScenario](raw)
	case treasury.CollectionFXExposures:
		items, err = decodeItems[treasury.FXExposure](raw)
	case treasury.CollectionConnectors:
		items, err = decodeItems[treasury.Connector](raw)
	case treasury.CollectionUsers:
		items, err = decodeItems[treasury.TreasuryUser](raw)
	case treasury.CollectionActivities:
		items, err = decodeItems[treasury.Activity](raw)
	default:
		return treasury.ErrUnknownCollection{Name: string(name)}
	}
	if err != nil {
		return err
	}

	if err := s.state.ReplaceCollection(name, items); err != nil {
		return fmt.Errorf("failed to replace collection %s: %w", name, err)
	}
	s.logger.Info("Collection replaced", "collection", name, "version", s.state.Version())
	return nil
}

// decodeItems decodes a JSON array, treating null as an empty collection
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	items := make([]T, 0)
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, treasury.ValidationError{Field: "items", Message: err.Error()}
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

func (s *TreasuryService) SelectAccount(ctx context.Context, id string) (*treasury.BankAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		s.state.SelectBankAccount(nil)
		return nil, nil
	}
	account, err := s.state.BankAccount(id)
	if err != nil {
		return nil, err
	}
	s.state.SelectBankAccount(&account)
	return &account, nil
}

func (s *TreasuryService) SelectPayment(ctx context.Context, id string) (*treasury.Payment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		s.state.SelectPayment(nil)
		return nil, nil
	}
	payment, err := s.state.Payment(id)
	if err != nil {
		return nil, err
	}
	s.state.SelectPayment(&payment)
	return &payment, nil
}

func (s *TreasuryService) ToggleSidebar() bool {
	return s.state.ToggleSidebar()
}

func (s *TreasuryService) Subscribe(buffer int) *store.Subscription {
	return s.state.Subscribe(buffer)
}

func (s *TreasuryService) ListAccounts(currency, bankName string) []treasury.BankAccount {
	return treasury.FilterAccounts(s.state.Snapshot().BankAccounts, currency, bankName)
}

func (s *TreasuryService) AccountTransactions(accountID string) ([]treasury.Transaction, error) {
	if _, err := s.state.BankAccount(accountID); err != nil {
		return nil, err
	}
	return s.state.TransactionsForAccount(accountID), nil
}

func (s *TreasuryService) UpdateBalance(ctx context.Context, accountID string, ledgerBalance decimal.Decimal) (treasury.BankAccount, error) {
	return s.state.UpdateBankBalance(ctx, accountID, ledgerBalance)
}

func (s *TreasuryService) CashPosition() treasury.CashPosition {
	return treasury.TotalCashPosition(s.state.Snapshot().BankAccounts, s.rates)
}

func (s *TreasuryService) BalanceDistribution() []treasury.BalanceShare {
	return treasury.BalanceDistribution(s.state.Snapshot().BankAccounts, s.rates)
}

func (s *TreasuryService) ListPayments(status string) ([]treasury.Payment, map[string]int, error) {
	if status != "" && status != "all" && !treasury.PaymentStatus(status).Valid() {
		return nil, nil, treasury.ValidationError{Field: "status", Message: "unknown payment status " + status}
	}
	payments := s.state.Snapshot().Payments
	return treasury.FilterPaymentsByStatus(payments, status), treasury.PaymentStatusCounts(payments), nil
}

func (s *TreasuryService) CreatePayment(ctx context.Context, in treasury.PaymentInput) (treasury.Payment, error) {
	return s.state.CreatePayment(ctx, in)
}

func (s *TreasuryService) TransitionPayment(ctx context.Context, paymentID string, action PaymentAction) (treasury.Payment, error) {
	switch action {
	case PaymentActionSubmit:
		return s.state.SubmitPayment(ctx, paymentID)
	case PaymentActionApprove:
		return s.state.ApprovePayment(ctx, paymentID)
	case PaymentActionReject:
		return s.state.RejectPayment(ctx, paymentID)
	case PaymentActionSend:
		return s.state.MarkPaymentSent(ctx, paymentID)
	}
	return treasury.Payment{}, treasury.ValidationError{Field: "action", Message: "unknown payment action " + string(action)}
}

func (s *TreasuryService) ListActivities() []treasury.Activity {
	return s.state.Activities()
}

func (s *TreasuryService) AddActivity(ctx context.Context, in treasury.ActivityInput) (treasury.Activity, error) {
	if err := ctx.Err(); err != nil {
		return treasury.Activity{}, err
	}
	return s.state.AddActivity(in)
}

func (s *TreasuryService) ListScenarios() []treasury.ForecastScenario {
	return s.state.Snapshot().ForecastScenarios
}

func (s *TreasuryService) CreateScenario(ctx context.Context, in treasury.ScenarioInput) (treasury.ForecastScenario, error) {
	return s.state.CreateForecastScenario(ctx, in)
}

func (s *TreasuryService) ScenarioVariants(scenarioID string) ([]treasury.VariantPoint, error) {
	for _, scenario := range s.state.Snapshot().ForecastScenarios {
		if scenario.ID == scenarioID {
			return treasury.ScenarioVariants(scenario.Data), nil
		}
	}
	return nil, treasury.ErrScenarioNotFound{ScenarioID: scenarioID}
}

func (s *TreasuryService) Impact(in treasury.ImpactInput) treasury.Impact {
	return treasury.ForecastImpact(in)
}

func (s *TreasuryService) FXSummary() treasury.FXSummary {
	return treasury.SummarizeFX(s.state.Snapshot().FXExposures)
}

func (s *TreasuryService) ConnectorSummary() treasury.ConnectorSummary {
	return treasury.SummarizeConnectors(s.state.Snapshot().Connectors)
}

func (s *TreasuryService) ListUsers() []treasury.TreasuryUser {
	return s.state.Snapshot().Users
}

func (s *TreasuryService) GetUser(id string) (treasury.TreasuryUser, error) {
	return s.state.GetUser(id)
}

func (s *TreasuryService) CreateUser(ctx context.Context, in treasury.UserInput) (treasury.TreasuryUser, error) {
	return s.state.CreateUser(ctx, in)
}
