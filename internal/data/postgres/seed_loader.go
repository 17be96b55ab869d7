// Package postgres loads the treasury store's seed records from PostgreSQL.
// The store never writes back; tables are read once at startup inside a single
// read-only snapshot transaction.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/persistence"
)

const (
	bankAccountsQuery = `
		SELECT id, bank_name, account_number, account_type, currency, ledger_balance::text,
			available_balance::text, last_updated, status, color, icon
		FROM bank_accounts
		ORDER BY sort_order, id
	`
	transactionsQuery = `
		SELECT id, account_id, date, description, amount::text, type, category, status, reference
		FROM bank_transactions
		ORDER BY date DESC, id
	`
	paymentsQuery = `
		SELECT id, beneficiary_name, beneficiary_account, amount::text, currency, type, status,
			created_by, created_at, fraud_alert, fraud_score, approved_by, approved_at
		FROM payments
		ORDER BY created_at DESC, id
	`
	scenariosQuery = `
		SELECT id, name, start_date, end_date, assumptions, type, created_by, created_at
		FROM forecast_scenarios
		ORDER BY created_at, id
	`
	forecastPointsQuery = `
		SELECT scenario_id, date, projected_balance::text, inflows::text, outflows::text
		FROM forecast_points
		ORDER BY scenario_id, date
	`
	fxExposuresQuery = `
		SELECT id, currency_pair, exposure::text, hedge_ratio::text, risk_level, last_updated
		FROM fx_exposures
		ORDER BY id
	`
	connectorsQuery = `
		SELECT id, name, type, status, last_sync, api_key, rate_limit, rate_limit_used
		FROM connectors
		ORDER BY id
	`
	usersQuery = `
		SELECT id, name, email, role, status, avatar, last_login
		FROM treasury_users
		ORDER BY id
	`
	activitiesQuery = `
		SELECT id, type, title, description, timestamp, user_id, icon, icon_color
		FROM activities
		ORDER BY timestamp DESC
		LIMIT $1
	`
)

// SeedLoader implements treasury.SeedLoader over the seed tables
type SeedLoader struct {
	db            persistence.TxBeginner
	logger        *slog.Logger
	activityLimit int
}

// NewSeedLoader creates a PostgreSQL seed loader reading at most activityLimit activities
func NewSeedLoader(logger *slog.Logger, db *persistence.PostgresDB, activityLimit int) treasury.SeedLoader {
	return &SeedLoader{
		db:            db.Pool(),
		logger:        logger,
		activityLimit: activityLimit,
	}
}

// Load reads every collection in one repeatable-read transaction
func (l *SeedLoader) Load(ctx context.Context) (*treasury.Seed, error) {
	var seed treasury.Seed
	err := persistence.ExecuteTx(ctx, l.db, persistence.ReadSnapshot, func(tx pgx.Tx) error {
		var err error
		if seed.BankAccounts, err = queryAll(ctx, tx, "bank accounts", bankAccountsQuery, scanBankAccount); err != nil {
			return err
		}
		if seed.Transactions, err = queryAll(ctx, tx, "transactions", transactionsQuery, scanTransaction); err != nil {
			return err
		}
		if seed.Payments, err = queryAll(ctx, tx, "payments", paymentsQuery, scanPayment); err != nil {
			return err
		}
		if seed.ForecastScenarios, err = l.loadScenarios(ctx, tx); err != nil {
			return err
		}
		if seed.FXExposures, err = queryAll(ctx, tx, "fx exposures", fxExposuresQuery, scanFXExposure); err != nil {
			return err
		}
		if seed.Connectors, err = queryAll(ctx, tx, "connectors", connectorsQuery, scanConnector); err != nil {
			return err
		}
		if seed.Users, err = queryAll(ctx, tx, "users", usersQuery, scanUser); err != nil {
			return err
		}
		seed.Activities, err = queryAll(ctx, tx, "activities", activitiesQuery, scanActivity, l.activityLimit)
		return err
	})
	if err != nil {
		l.logger.Error("Failed to load seed from PostgreSQL", "error", err)
		return nil, err
	}

	l.logger.Info("Loaded seed from PostgreSQL",
		"bank_accounts", len(seed.BankAccounts),
		"payments", len(seed.Payments),
		"activities", len(seed.Activities),
	)
	return &seed, nil
}

func (l *SeedLoader) loadScenarios(ctx context.Context, q persistence.Querier) ([]treasury.ForecastScenario, error) {
	scenarios, err := queryAll(ctx, q, "forecast scenarios", scenariosQuery, scanScenario)
	if err != nil {
		return nil, err
	}
	points, err := queryAll(ctx, q, "forecast points", forecastPointsQuery, scanForecastPoint)
	if err != nil {
		return nil, err
	}

	byScenario := make(map[string]int, len(scenarios))
	for i := range scenarios {
		byScenario[scenarios[i].ID] = i
	}
	for _, p := range points {
		i, ok := byScenario[p.scenarioID]
		if !ok {
			l.logger.Warn("Skipping forecast point of unknown scenario", "scenario_id", p.scenarioID)
			continue
		}
		scenarios[i].Data = append(scenarios[i].Data, p.point)
	}
	return scenarios, nil
}

// queryAll runs query and scans every row with scan
func queryAll[T any](ctx context.Context, q persistence.Querier, what, query string, scan func(pgx.Rows) (T, error), args ...interface{}) ([]T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", what, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", what, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", what, err)
	}
	return items, nil
}

func scanBankAccount(rows pgx.Rows) (treasury.BankAccount, error) {
	var a treasury.BankAccount
	var accountType, status, ledger, available string
	err := rows.Scan(&a.ID, &a.BankName, &a.AccountNumber, &accountType, &a.Currency, &ledger,
		&available, &a.LastUpdated, &status, &a.Color, &a.Icon)
	if err != nil {
		return a, err
	}
	a.AccountType = treasury.AccountType(accountType)
	a.Status = treasury.RecordStatus(status)
	if a.LedgerBalance, err = decimal.NewFromString(ledger); err != nil {
		return a, err
	}
	a.AvailableBalance, err = decimal.NewFromString(available)
	return a, err
}

func scanTransaction(rows pgx.Rows) (treasury.Transaction, error) {
	var t treasury.Transaction
	var amount, txType, category, status string
	err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Description, &amount, &txType, &category, &status, &t.Reference)
	if err != nil {
		return t, err
	}
	t.Type = treasury.TransactionType(txType)
	t.Category = treasury.TransactionCategory(category)
	t.Status = treasury.TransactionStatus(status)
	t.Amount, err = decimal.NewFromString(amount)
	return t, err
}

func scanPayment(rows pgx.Rows) (treasury.Payment, error) {
	var p treasury.Payment
	var amount, paymentType, status string
	var fraudScore *int32
	err := rows.Scan(&p.ID, &p.BeneficiaryName, &p.BeneficiaryAccount, &amount, &p.Currency, &paymentType, &status,
		&p.CreatedBy, &p.CreatedAt, &p.FraudAlert, &fraudScore, &p.ApprovedBy, &p.ApprovedAt)
	if err != nil {
		return p, err
	}
	p.Type = treasury.PaymentType(paymentType)
	p.Status = treasury.PaymentStatus(status)
	p.FraudScore = intPtr(fraudScore)
	p.Amount, err = decimal.NewFromString(amount)
	return p, err
}

func scanScenario(rows pgx.Rows) (treasury.ForecastScenario, error) {
	var s treasury.ForecastScenario
	var scenarioType string
	err := rows.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.Assumptions, &scenarioType, &s.CreatedBy, &s.CreatedAt)
	s.Type = treasury.ScenarioType(scenarioType)
	return s, err
}

type scenarioPoint struct {
	scenarioID string
	point      treasury.ForecastPoint
}

func scanForecastPoint(rows pgx.Rows) (scenarioPoint, error) {
	var sp scenarioPoint
	var projected, inflows, outflows string
	if err := rows.Scan(&sp.scenarioID, &sp.point.Date, &projected, &inflows, &outflows); err != nil {
		return sp, err
	}
	var err error
	if sp.point.ProjectedBalance, err = decimal.NewFromString(projected); err != nil {
		return sp, err
	}
	if sp.point.Inflows, err = decimal.NewFromString(inflows); err != nil {
		return sp, err
	}
	sp.point.Outflows, err = decimal.NewFromString(outflows)
	return sp, err
}

func scanFXExposure(rows pgx.Rows) (treasury.FXExposure, error) {
	var e treasury.FXExposure
	var exposure, hedgeRatio, riskLevel string
	if err := rows.Scan(&e.ID, &e.CurrencyPair, &exposure, &hedgeRatio, &riskLevel, &e.LastUpdated); err != nil {
		return e, err
	}
	e.RiskLevel = treasury.RiskLevel(riskLevel)
	var err error
	if e.Exposure, err = decimal.NewFromString(exposure); err != nil {
		return e, err
	}
	e.HedgeRatio, err = decimal.NewFromString(hedgeRatio)
	return e, err
}

func scanConnector(rows pgx.Rows) (treasury.Connector, error) {
	var c treasury.Connector
	var connectorType, status string
	var rateLimit, rateLimitUsed *int32
	err := rows.Scan(&c.ID, &c.Name, &connectorType, &status, &c.LastSync, &c.APIKey, &rateLimit, &rateLimitUsed)
	c.Type = treasury.ConnectorType(connectorType)
	c.Status = treasury.ConnectorStatus(status)
	c.RateLimit = intPtr(rateLimit)
	c.RateLimitUsed = intPtr(rateLimitUsed)
	return c, err
}

func scanUser(rows pgx.Rows) (treasury.TreasuryUser, error) {
	var u treasury.TreasuryUser
	var role, status string
	err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &status, &u.Avatar, &u.LastLogin)
	u.Role = treasury.UserRole(role)
	u.Status = treasury.RecordStatus(status)
	return u, err
}

func scanActivity(rows pgx.Rows) (treasury.Activity, error) {
	var a treasury.Activity
	var activityType string
	err := rows.Scan(&a.ID, &activityType, &a.Title, &a.Description, &a.Timestamp, &a.UserID, &a.Icon, &a.IconColor)
	a.Type = treasury.ActivityType(activityType)
	return a, err
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
