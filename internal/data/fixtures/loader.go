// Package fixtures provides the compiled-in bootstrap records of the treasury store
package fixtures

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// Loader serves the built-in demo records
type Loader struct{}

// NewLoader creates a fixture seed loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load returns a fresh copy of the demo records on every call
func (l *Loader) Load(ctx context.Context) (*treasury.Seed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seed := Seed()
	return &seed, nil
}

// Seed builds the demo records
func Seed() treasury.Seed {
	return treasury.Seed{
		BankAccounts:      bankAccounts(),
		Transactions:      transactions(),
		Payments:          payments(),
		ForecastScenarios: forecastScenarios(),
		FXExposures:       fxExposures(),
		Connectors:        connectors(),
		Users:             users(),
		Activities:        activities(),
	}
}

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

func amount(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func bankAccounts() []treasury.BankAccount {
	return []treasury.BankAccount{
		{
			ID: "1", BankName: "Chase Bank", AccountNumber: "••••5678", AccountType: treasury.AccountTypeOperating,
			Currency: "USD", LedgerBalance: amount("2458920.50"), AvailableBalance: amount("2358920.50"),
			LastUpdated: ts("2024-01-15T10:30:00Z"), Status: treasury.RecordStatusActive, Color: "#1f5582", Icon: "university",
		},
		{
			ID: "2", BankName: "Bank of America", AccountNumber: "••••9012", AccountType: treasury.AccountTypeOperating,
			Currency: "USD", LedgerBalance: amount("1847650.75"), AvailableBalance: amount("1747650.75"),
			LastUpdated: ts("2024-01-15T10:28:00Z"), Status: treasury.RecordStatusActive, Color: "#e31837", Icon: "university",
		},
		{
			ID: "3", BankName: "Wells Fargo", AccountNumber: "••••3456", AccountType: treasury.AccountTypeOperating,
			Currency: "USD", LedgerBalance: amount("956340.25"), AvailableBalance: amount("856340.25"),
			LastUpdated: ts("2024-01-15T10:25:00Z"), Status: treasury.RecordStatusActive, Color: "#d71e2b", Icon: "university",
		},
		{
			ID: "4", BankName: "HSBC Bank", AccountNumber: "••••7890", AccountType: treasury.AccountTypeInvestment,
			Currency: "EUR", LedgerBalance: amount("1234567.00"), AvailableBalance: amount("1134567.00"),
			LastUpdated: ts("2024-01-15T10:20:00Z"), Status: treasury.RecordStatusActive, Color: "#db0011", Icon: "university",
		},
	}
}

func transactions() []treasury.Transaction {
	return []treasury.Transaction{
		{
			ID: "1", AccountID: "1", Date: ts("2024-01-15T09:00:00Z"), Description: "Wire Transfer In - Acme Corp",
			Amount: amount("50000"), Type: treasury.TransactionTypeInflow, Category: treasury.CategoryWireTransfer,
			Status: treasury.TransactionStatusCompleted, Reference: "WT-2024-001",
		},
		{
			ID: "2", AccountID: "1", Date: ts("2024-01-14T14:30:00Z"), Description: "ACH Payment - Supplier Payment",
			Amount: amount("-12500"), Type: treasury.TransactionTypeOutflow, Category: treasury.CategoryACHPayment,
			Status: treasury.TransactionStatusCompleted, Reference: "ACH-2024-087",
		},
		{
			ID: "3", AccountID: "2", Date: ts("2024-01-13T11:15:00Z"), Description: "Deposit - Customer Payment",
			Amount: amount("25000"), Type: treasury.TransactionTypeInflow, Category: treasury.CategoryDeposit,
			Status: treasury.TransactionStatusCompleted, Reference: "DEP-2024-045",
		},
	}
}

func payments() []treasury.Payment {
	return []treasury.Payment{
		{
			ID: "PAY-001234", BeneficiaryName: "Acme Corporation", BeneficiaryAccount: "••••9876",
			Amount: amount("50000"), Currency: "USD", Type: treasury.PaymentTypeWireTransfer,
			Status: treasury.PaymentStatusPendingApproval, CreatedBy: "john.doe@company.com",
			CreatedAt: ts("2024-01-15T09:00:00Z"), FraudAlert: true, FraudScore: ptr(75),
		},
		{
			ID: "PAY-001235", BeneficiaryName: "Global Supplies Ltd", BeneficiaryAccount: "••••5432",
			Amount: amount("25000"), Currency: "USD", Type: treasury.PaymentTypeACH,
			Status: treasury.PaymentStatusApproved, CreatedBy: "jane.smith@company.com",
			CreatedAt: ts("2024-01-14T14:30:00Z"), ApprovedBy: ptr("john.doe@company.com"),
			ApprovedAt: ptr(ts("2024-01-14T16:00:00Z")),
		},
	}
}

func forecastScenarios() []treasury.ForecastScenario {
	points := make([]treasury.ForecastPoint, 12)
	for i := range points {
		points[i] = treasury.ForecastPoint{
			Date:             time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			ProjectedBalance: decimal.NewFromInt(6_500_000 + int64(i)*100_000),
			Inflows:          decimal.NewFromInt(2_400_000),
			Outflows:         decimal.NewFromInt(1_800_000),
		}
	}
	return []treasury.ForecastScenario{
		{
			ID: "1", Name: "Baseline Forecast", StartDate: ts("2024-01-01T00:00:00Z"), EndDate: ts("2024-12-31T00:00:00Z"),
			Assumptions: "Conservative growth, stable operations", Type: treasury.ScenarioTypeBaseline,
			CreatedBy: "john.doe@company.com", CreatedAt: ts("2024-01-10T10:00:00Z"), Data: points,
		},
	}
}

func fxExposures() []treasury.FXExposure {
	return []treasury.FXExposure{
		{ID: "1", CurrencyPair: "USD/EUR", Exposure: amount("1200000"), HedgeRatio: amount("0.75"), RiskLevel: treasury.RiskLevelMedium, LastUpdated: ts("2024-01-15T10:00:00Z")},
		{ID: "2", CurrencyPair: "USD/GBP", Exposure: amount("800000"), HedgeRatio: amount("0.60"), RiskLevel: treasury.RiskLevelLow, LastUpdated: ts("2024-01-15T10:00:00Z")},
	}
}

func connectors() []treasury.Connector {
	return []treasury.Connector{
		{
			ID: "1", Name: "Chase Bank API", Type: treasury.ConnectorTypeBank, Status: treasury.ConnectorStatusConnected,
			LastSync: ptr(ts("2024-01-15T10:30:00Z")), APIKey: "••••••••key123", RateLimit: ptr(1000), RateLimitUsed: ptr(950),
		},
		{ID: "2", Name: "SAP ERP", Type: treasury.ConnectorTypeERP, Status: treasury.ConnectorStatusPending, APIKey: "••••••••sap456"},
	}
}

func users() []treasury.TreasuryUser {
	return []treasury.TreasuryUser{
		{
			ID: "1", Name: "John Doe", Email: "john.doe@company.com", Role: treasury.UserRoleTreasuryManager,
			Status: treasury.RecordStatusActive, Avatar: "JD", LastLogin: ptr(ts("2024-01-15T09:00:00Z")),
		},
		{
			ID: "2", Name: "Jane Smith", Email: "jane.smith@company.com", Role: treasury.UserRoleAnalyst,
			Status: treasury.RecordStatusActive, Avatar: "JS", LastLogin: ptr(ts("2024-01-14T17:30:00Z")),
		},
	}
}

func activities() []treasury.Activity {
	return []treasury.Activity{
		{
			ID: "1", Type: treasury.ActivityPaymentApproved, Title: "Payment Approved", Description: "Wire transfer to Acme Corp - $50,000",
			Timestamp: ts("2024-01-15T10:28:00Z"), UserID: "1", Icon: "check", IconColor: "hsl(160, 82%, 36%)",
		},
		{
			ID: "2", Type: treasury.ActivityStatementProcessed, Title: "Bank Statement Processed", Description: "Chase Bank - 45 new transactions",
			Timestamp: ts("2024-01-15T10:15:00Z"), UserID: "2", Icon: "sync", IconColor: "hsl(214, 84%, 42%)",
		},
		{
			ID: "3", Type: treasury.ActivityFraudAlert, Title: "Fraud Alert", Description: "Suspicious payment flagged for review",
			Timestamp: ts("2024-01-15T09:00:00Z"), UserID: "1", Icon: "exclamation-triangle", IconColor: "hsl(348, 83%, 47%)",
		},
		{
			ID: "4", Type: treasury.ActivityForecastUpdated, Title: "Forecast Updated", Description: "Q4 cash flow projection completed",
			Timestamp: ts("2024-01-15T07:00:00Z"), UserID: "1", Icon: "chart-line", IconColor: "hsl(45, 93%, 47%)",
		},
	}
}
