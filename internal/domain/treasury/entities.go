// Package treasury holds the records managed by the treasury state store, the payment
// status machine, typed errors and the pure aggregations computed over the records.
package treasury

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a bank account
type AccountType string

const (
	AccountTypeOperating  AccountType = "operating"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
)

// RecordStatus is shared by bank accounts and users
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusInactive RecordStatus = "inactive"
	RecordStatusPending  RecordStatus = "pending"
)

// BankAccount is a balance-bearing account held at a bank
type BankAccount struct {
	ID               string          `json:"id"`
	BankName         string          `json:"bank_name"`
	AccountNumber    string          `json:"account_number"` // Masked display string
	AccountType      AccountType     `json:"account_type"`
	Currency         string          `json:"currency"`
	LedgerBalance    decimal.Decimal `json:"ledger_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	LastUpdated      time.Time       `json:"last_updated"`
	Status           RecordStatus    `json:"status"`
	Color            string          `json:"color,omitempty"`
	Icon             string          `json:"icon,omitempty"`
}

// TransactionType is the direction of a bank transaction
type TransactionType string

const (
	TransactionTypeInflow  TransactionType = "inflow"
	TransactionTypeOutflow TransactionType = "outflow"
)

// TransactionCategory is the payment rail a transaction moved on
type TransactionCategory string

const (
	CategoryWireTransfer TransactionCategory = "wire_transfer"
	CategoryACHPayment   TransactionCategory = "ach_payment"
	CategoryDeposit      TransactionCategory = "deposit"
	CategoryWithdrawal   TransactionCategory = "withdrawal"
	CategoryFee          TransactionCategory = "fee"
)

// TransactionStatus is the settlement state of a bank transaction
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is a bank statement line. AccountID is not checked against the accounts collection.
type Transaction struct {
	ID          string              `json:"id"`
	AccountID   string              `json:"account_id"`
	Date        time.Time           `json:"date"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"` // Positive inflow, negative outflow
	Type        TransactionType     `json:"type"`
	Category    TransactionCategory `json:"category"`
	Status      TransactionStatus   `json:"status"`
	Reference   string              `json:"reference,omitempty"`
}

// PaymentType is the rail an outgoing payment uses
type PaymentType string

const (
	PaymentTypeWireTransfer PaymentType = "wire_transfer"
	PaymentTypeACH          PaymentType = "ach"
	PaymentTypeCheck        PaymentType = "check"
)

// Valid reports whether t is a known payment type
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentTypeWireTransfer, PaymentTypeACH, PaymentTypeCheck:
		return true
	}
	return false
}

// Payment is an outgoing payment moving through the approval lifecycle
type Payment struct {
	ID                 string          `json:"id"`
	BeneficiaryName    string          `json:"beneficiary_name"`
	BeneficiaryAccount string          `json:"beneficiary_account"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	Type               PaymentType     `json:"type"`
	Status             PaymentStatus   `json:"status"`
	CreatedBy          string          `json:"created_by"`
	CreatedAt          time.Time       `json:"created_at"`
	FraudAlert         bool            `json:"fraud_alert"`
	FraudScore         *int            `json:"fraud_score,omitempty"` // 0-100
	ApprovedBy         *string         `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time      `json:"approved_at,omitempty"`
}

// Clone returns a copy that shares no pointers with p
func (p Payment) Clone() Payment {
	if p.FraudScore != nil {
		score := *p.FraudScore
		p.FraudScore = &score
	}
	if p.ApprovedBy != nil {
		by := *p.ApprovedBy
		p.ApprovedBy = &by
	}
	if p.ApprovedAt != nil {
		at := *p.ApprovedAt
		p.ApprovedAt = &at
	}
	return p
}

// ScenarioType labels a forecast scenario
type ScenarioType string

const (
	ScenarioTypeBaseline     ScenarioType = "baseline"
	ScenarioTypeOptimistic   ScenarioType = "optimistic"
	ScenarioTypeConservative ScenarioType = "conservative"
	ScenarioTypeCustom       ScenarioType = "custom"
)

// Valid reports whether t is a known scenario type
func (t ScenarioType) Valid() bool {
	switch t {
	case ScenarioTypeBaseline, ScenarioTypeOptimistic, ScenarioTypeConservative, ScenarioTypeCustom:
		return true
	}
	return false
}

// ForecastPoint is one period of a cash forecast
type ForecastPoint struct {
	Date             time.Time       `json:"date"`
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	Inflows          decimal.Decimal `json:"inflows"`
	Outflows         decimal.Decimal `json:"outflows"`
}

// ForecastScenario is a named cash projection, one point per period in date order
type ForecastScenario struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Assumptions string          `json:"assumptions"`
	Type        ScenarioType    `json:"type"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	Data        []ForecastPoint `json:"data"`
}

// Clone returns a copy whose Data slice is not shared with s
func (s ForecastScenario) Clone() ForecastScenario {
	s.Data = slices.Clone(s.Data)
	return s
}

// RiskLevel grades an FX exposure
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// FXExposure is an open foreign exchange position
type FXExposure struct {
	ID           string          `json:"id"`
	CurrencyPair string          `json:"currency_pair"`
	Exposure     decimal.Decimal `json:"exposure"`    // Notional
	HedgeRatio   decimal.Decimal `json:"hedge_ratio"` // 0.0-1.0
	RiskLevel    RiskLevel       `json:"risk_level"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// ConnectorType is the kind of external system a connector talks to
type ConnectorType string

const (
	ConnectorTypeBank       ConnectorType = "bank"
	ConnectorTypeERP        ConnectorType = "erp"
	ConnectorTypeAccounting ConnectorType = "accounting"
)

// ConnectorStatus is the health of an integration
type ConnectorStatus string

const (
	ConnectorStatusConnected ConnectorStatus = "connected"
	ConnectorStatusPending   ConnectorStatus = "pending"
	ConnectorStatusError     ConnectorStatus = "error"
	ConnectorStatusInactive  ConnectorStatus = "inactive"
)

// Connector is an integration with a bank or back-office system
type Connector struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Type          ConnectorType   `json:"type"`
	Status        ConnectorStatus `json:"status"`
	LastSync      *time.Time      `json:"last_sync,omitempty"`
	APIKey        string          `json:"api_key,omitempty"` // Masked
	RateLimit     *int            `json:"rate_limit,omitempty"`
	RateLimitUsed *int            `json:"rate_limit_used,omitempty"`
}

// Clone returns a copy that shares no pointers with c
func (c Connector) Clone() Connector {
	if c.LastSync != nil {
		at := *c.LastSync
		c.LastSync = &at
	}
	if c.RateLimit != nil {
		limit := *c.RateLimit
		c.RateLimit = &limit
	}
	if c.RateLimitUsed != nil {
		used := *c.RateLimitUsed
		c.RateLimitUsed = &used
	}
	return c
}

// UserRole is a treasury user's permission tier
type UserRole string

const (
	UserRoleTreasuryManager UserRole = "treasury_manager"
	UserRoleAnalyst         UserRole = "analyst"
	UserRoleApprover        UserRole = "approver"
	UserRoleViewer          UserRole = "viewer"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleTreasuryManager, UserRoleAnalyst, UserRoleApprover, UserRoleViewer:
		return true
	}
	return false
}

// TreasuryUser is a person operating the dashboard
type TreasuryUser struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      UserRole     `json:"role"`
	Status    RecordStatus `json:"status"`
	Avatar    string       `json:"avatar,omitempty"` // Initials
	LastLogin *time.Time   `json:"last_login,omitempty"`
}

// Clone returns a copy that shares no pointers with u
func (u TreasuryUser) Clone() TreasuryUser {
	if u.LastLogin != nil {
		at := *u.LastLogin
		u.LastLogin = &at
	}
	return u
}

// ActivityType tags an activity log entry
type ActivityType string

const (
	ActivityPaymentApproved    ActivityType = "payment_approved"
	ActivityStatementProcessed ActivityType = "statement_processed"
	ActivityFraudAlert         ActivityType = "fraud_alert"
	ActivityForecastUpdated    ActivityType = "forecast_updated"
	ActivityUserLogin          ActivityType = "user_login"
)

// Valid reports whether t is a known activity type
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityPaymentApproved, ActivityStatementProcessed, ActivityFraudAlert, ActivityForecastUpdated, ActivityUserLogin:
		return true
	}
	return false
}

// Activity is an entry of the newest-first activity log
type Activity struct {
	ID          string       `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	UserID      string       `json:"user_id"`
	Icon        string       `json:"icon"`
	IconColor   string       `json:"icon_color"`
}

// ActivityInput is an activity before the store assigns its id.
// A zero Timestamp is replaced with the current time.
type ActivityInput struct {
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	UserID      string       `json:"user_id"`
	Icon        string       `json:"icon"`
	IconColor   string       `json:"icon_color"`
}
