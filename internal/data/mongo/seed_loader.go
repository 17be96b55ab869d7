// Package mongo loads the treasury store's seed records from MongoDB collections
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SeedLoader implements treasury.SeedLoader over one document collection per record type.
// Collections are named after treasury.Collection values.
type SeedLoader struct {
	db            *mongo.Database
	logger        *slog.Logger
	activityLimit int64
}

// NewSeedLoader creates a MongoDB seed loader reading at most activityLimit activities
func NewSeedLoader(logger *slog.Logger, db *mongo.Database, activityLimit int) treasury.SeedLoader {
	return &SeedLoader{
		db:            db,
		logger:        logger,
		activityLimit: int64(activityLimit),
	}
}

// Load reads every collection
func (l *SeedLoader) Load(ctx context.Context) (*treasury.Seed, error) {
	var (
		seed         treasury.Seed
		accounts     []bankAccountDocument
		transactions []transactionDocument
		payments     []paymentDocument
		scenarios    []scenarioDocument
		exposures    []fxExposureDocument
		connectors   []connectorDocument
		users        []userDocument
		activities   []activityDocument
	)

	byID := bson.D{{Key: "_id", Value: 1}}
	reads := []struct {
		collection treasury.Collection
		opts       *options.FindOptions
		out        interface{}
	}{
		{treasury.CollectionBankAccounts, options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}}), &accounts},
		{treasury.CollectionTransactions, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}), &transactions},
		{treasury.CollectionPayments, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}), &payments},
		{treasury.CollectionForecastScenarios, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}), &scenarios},
		{treasury.CollectionFXExposures, options.Find().SetSort(byID), &exposures},
		{treasury.CollectionConnectors, options.Find().SetSort(byID), &connectors},
		{treasury.CollectionUsers, options.Find().SetSort(byID), &users},
		{treasury.CollectionActivities, options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(l.activityLimit), &activities},
	}
	for _, read := range reads {
		if err := l.findAll(ctx, read.collection, read.opts, read.out); err != nil {
			return nil, err
		}
	}

	var err error
	if seed.BankAccounts, err = convertAll(accounts, bankAccountDocument.record); err != nil {
		return nil, l.decodeError(treasury.CollectionBankAccounts, err)
	}
	if seed.Transactions, err = convertAll(transactions, transactionDocument.record); err != nil {
		return nil, l.decodeError(treasury.CollectionTransactions, err)
	}
	if seed.Payments, err = convertAll(payments, paymentDocument.record); err != nil {
		return nil, l.decodeError(treasury.CollectionPayments, err)
	}
	if seed.ForecastScenarios, err = convertAll(scenarios, scenarioDocument.record); err != nil {
		return nil, l.decodeError(treasury.CollectionForecastScenarios, err)
	}
	if seed.FXExposures, err = convertAll(exposures, fxExposureDocument.record); err != nil {
		return nil, l.decodeError(treasury.CollectionFXExposures, err)
	}
	seed.Connectors = convertPlain(connectors, connectorDocument.record)
	seed.Users = convertPlain(users, userDocument.record)
	seed.Activities = convertPlain(activities, activityDocument.record)

	l.logger.Info("Loaded seed from MongoDB",
		"database", l.db.Name(),
		"bank_accounts", len(seed.BankAccounts),
		"payments", len(seed.Payments),
		"activities", len(seed.Activities),
	)
	return &seed, nil
}

func (l *SeedLoader) findAll(ctx context.Context, collection treasury.Collection, opts *options.FindOptions, out interface{}) error {
	cursor, err := l.db.Collection(string(collection)).Find(ctx, bson.D{}, opts)
	if err != nil {
		l.logger.Error("Failed to query seed collection", "collection", collection, "error", err)
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		l.logger.Error("Failed to decode seed collection", "collection", collection, "error", err)
		return fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return nil
}

func (l *SeedLoader) decodeError(collection treasury.Collection, err error) error {
	l.logger.Error("Failed to convert seed documents", "collection", collection, "error", err)
	return fmt.Errorf("failed to convert %s: %w", collection, err)
}

func convertAll[D, R any](docs []D, convert func(D) (R, error)) ([]R, error) {
	records := make([]R, 0, len(docs))
	for _, doc := range docs {
		record, err := convert(doc)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func convertPlain[D, R any](docs []D, convert func(D) R) []R {
	records := make([]R, 0, len(docs))
	for _, doc := range docs {
		records = append(records, convert(doc))
	}
	return records
}

func toDecimal(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

type bankAccountDocument struct {
	ID               string                `bson:"_id"`
	BankName         string                `bson:"bank_name"`
	AccountNumber    string                `bson:"account_number"`
	AccountType      treasury.AccountType  `bson:"account_type"`
	Currency         string                `bson:"currency"`
	LedgerBalance    primitive.Decimal128  `bson:"ledger_balance"`
	AvailableBalance primitive.Decimal128  `bson:"available_balance"`
	LastUpdated      time.Time             `bson:"last_updated"`
	Status           treasury.RecordStatus `bson:"status"`
	Color            string                `bson:"color,omitempty"`
	Icon             string                `bson:"icon,omitempty"`
}

func (d bankAccountDocument) record() (treasury.BankAccount, error) {
	ledger, err := toDecimal(d.LedgerBalance)
	if err != nil {
		return treasury.BankAccount{}, fmt.Errorf("account %s ledger_balance: %w", d.ID, err)
	}
	available, err := toDecimal(d.AvailableBalance)
	if err != nil {
		return treasury.BankAccount{}, fmt.Errorf("account %s available_balance: %w", d.ID, err)
	}
	return treasury.BankAccount{
		ID:               d.ID,
		BankName:         d.BankName,
		AccountNumber:    d.AccountNumber,
		AccountType:      d.AccountType,
		Currency:         d.Currency,
		LedgerBalance:    ledger,
		AvailableBalance: available,
		LastUpdated:      d.LastUpdated,
		Status:           d.Status,
		Color:            d.Color,
		Icon:             d.Icon,
	}, nil
}

type transactionDocument struct {
	ID          string                       `bson:"_id"`
	AccountID   string                       `bson:"account_id"`
	Date        time.Time                    `bson:"date"`
	Description string                       `bson:"description"`
	Amount      primitive.Decimal128         `bson:"amount"`
	Type        treasury.TransactionType     `bson:"type"`
	Category    treasury.TransactionCategory `bson:"category"`
	Status      treasury.TransactionStatus   `bson:"status"`
	Reference   string                       `bson:"reference,omitempty"`
}

func (d transactionDocument) record() (treasury.Transaction, error) {
	amount, err := toDecimal(d.Amount)
	if err != nil {
		return treasury.Transaction{}, fmt.Errorf("transaction %s amount: %w", d.ID, err)
	}
	return treasury.Transaction{
		ID:          d.ID,
		AccountID:   d.AccountID,
		Date:        d.Date,
		Description: d.Description,
		Amount:      amount,
		Type:        d.Type,
		Category:    d.Category,
		Status:      d.Status,
		Reference:   d.Reference,
	}, nil
}

type paymentDocument struct {
	ID                 string                 `bson:"_id"`
	BeneficiaryName    string                 `bson:"beneficiary_name"`
	BeneficiaryAccount string                 `bson:"beneficiary_account"`
	Amount             primitive.Decimal128   `bson:"amount"`
	Currency           string                 `bson:"currency"`
	Type               treasury.PaymentType   `bson:"type"`
	Status             treasury.PaymentStatus `bson:"status"`
	CreatedBy          string                 `bson:"created_by"`
	CreatedAt          time.Time              `bson:"created_at"`
	FraudAlert         bool                   `bson:"fraud_alert"`
	FraudScore         *int                   `bson:"fraud_score,omitempty"`
	ApprovedBy         *string                `bson:"approved_by,omitempty"`
	ApprovedAt         *time.Time             `bson:"approved_at,omitempty"`
}

func (d paymentDocument) record() (treasury.Payment, error) {
	amount, err := toDecimal(d.Amount)
	if err != nil {
		return treasury.Payment{}, fmt.Errorf("payment %s amount: %w", d.ID, err)
	}
	return treasury.Payment{
		ID:                 d.ID,
		BeneficiaryName:    d.BeneficiaryName,
		BeneficiaryAccount: d.BeneficiaryAccount,
		Amount:             amount,
		Currency:           d.Currency,
		Type:               d.Type,
		Status:             d.Status,
		CreatedBy:          d.CreatedBy,
		CreatedAt:          d.CreatedAt,
		FraudAlert:         d.FraudAlert,
		FraudScore:         d.FraudScore,
		ApprovedBy:         d.ApprovedBy,
		ApprovedAt:         d.ApprovedAt,
	}, nil
}

type forecastPointDocument struct {
	Date             time.Time            `bson:"date"`
	ProjectedBalance primitive.Decimal128 `bson:"projected_balance"`
	Inflows          primitive.Decimal128 `bson:"inflows"`
	Outflows         primitive.Decimal128 `bson:"outflows"`
}

type scenarioDocument struct {
	ID          string                  `bson:"_id"`
	Name        string                  `bson:"name"`
	StartDate   time.Time               `bson:"start_date"`
	EndDate     time.Time               `bson:"end_date"`
	Assumptions string                  `bson:"assumptions"`
	Type        treasury.ScenarioType   `bson:"type"`
	CreatedBy   string                  `bson:"created_by"`
	CreatedAt   time.Time               `bson:"created_at"`
	Data        []forecastPointDocument `bson:"data"`
}

func (d scenarioDocument) record() (treasury.ForecastScenario, error) {
	points := make([]treasury.ForecastPoint, 0, len(d.Data))
	for i, p := range d.Data {
		projected, err := toDecimal(p.ProjectedBalance)
		if err != nil {
			return treasury.ForecastScenario{}, fmt.Errorf("scenario %s point %d: %w", d.ID, i, err)
		}
		inflows, err := toDecimal(p.Inflows)
		if err != nil {
			return treasury.ForecastScenario{}, fmt.Errorf("scenario %s point %d: %w", d.ID, i, err)
		}
		outflows, err := toDecimal(p.Outflows)
		if err != nil {
			return treasury.ForecastScenario{}, fmt.Errorf("scenario %s point %d: %w", d.ID, i, err)
		}
		points = append(points, treasury.ForecastPoint{Date: p.Date, ProjectedBalance: projected, Inflows: inflows, Outflows: outflows})
	}
	return treasury.ForecastScenario{
		ID:          d.ID,
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Assumptions: d.Assumptions,
		Type:        d.Type,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
		Data:        points,
	}, nil
}

type fxExposureDocument struct {
	ID           string               `bson:"_id"`
	CurrencyPair string               `bson:"currency_pair"`
	Exposure     primitive.Decimal128 `bson:"exposure"`
	HedgeRatio   primitive.Decimal128 `bson:"hedge_ratio"`
	RiskLevel    treasury.RiskLevel   `bson:"risk_level"`
	LastUpdated  time.Time            `bson:"last_updated"`
}

func (d fxExposureDocument) record() (treasury.FXExposure, error) {
	exposure, err := toDecimal(d.Exposure)
	if err != nil {
		return treasury.FXExposure{}, fmt.Errorf("fx exposure %s exposure: %w", d.ID, err)
	}
	hedgeRatio, err := toDecimal(d.HedgeRatio)
	if err != nil {
		return treasury.FXExposure{}, fmt.Errorf("fx exposure %s hedge_ratio: %w", d.ID, err)
	}
	return treasury.FXExposure{
		ID:           d.ID,
		CurrencyPair: d.CurrencyPair,
		Exposure:     exposure,
		HedgeRatio:   hedgeRatio,
		RiskLevel:    d.RiskLevel,
		LastUpdated:  d.LastUpdated,
	}, nil
}

type connectorDocument struct {
	ID            string                   `bson:"_id"`
	Name          string                   `bson:"name"`
	Type          treasury.ConnectorType   `bson:"type"`
	Status        treasury.ConnectorStatus `bson:"status"`
	LastSync      *time.Time               `bson:"last_sync,omitempty"`
	APIKey        string                   `bson:"api_key,omitempty"`
	RateLimit     *int                     `bson:"rate_limit,omitempty"`
	RateLimitUsed *int                     `bson:"rate_limit_used,omitempty"`
}

func (d connectorDocument) record() treasury.Connector {
	return treasury.Connector{
		ID:            d.ID,
		Name:          d.Name,
		Type:          d.Type,
		Status:        d.Status,
		LastSync:      d.LastSync,
		APIKey:        d.APIKey,
		RateLimit:     d.RateLimit,
		RateLimitUsed: d.RateLimitUsed,
	}
}

type userDocument struct {
	ID        string                `bson:"_id"`
	Name      string                `bson:"name"`
	Email     string                `bson:"email"`
	Role      treasury.UserRole     `bson:"role"`
	Status    treasury.RecordStatus `bson:"status"`
	Avatar    string                `bson:"avatar,omitempty"`
	LastLogin *time.Time            `bson:"last_login,omitempty"`
}

func (d userDocument) record() treasury.TreasuryUser {
	return treasury.TreasuryUser{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Role:      d.Role,
		Status:    d.Status,
		Avatar:    d.Avatar,
		LastLogin: d.LastLogin,
	}
}

type activityDocument struct {
	ID          string                `bson:"_id"`
	Type        treasury.ActivityType `bson:"type"`
	Title       string                `bson:"title"`
	Description string                `bson:"description"`
	Timestamp   time.Time             `bson:"timestamp"`
	UserID      string                `bson:"user_id"`
	Icon        string                `bson:"icon"`
	IconColor   string                `bson:"icon_color"`
}

func (d activityDocument) record() treasury.Activity {
	return treasury.Activity{
		ID:          d.ID,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Timestamp:   d.Timestamp,
		UserID:      d.UserID,
		Icon:        d.Icon,
		IconColor:   d.IconColor,
	}
}
