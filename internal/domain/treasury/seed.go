package treasury

import (
	"context"
	"slices"
)

// Collection names a record collection held by the store
type Collection string

const (
	CollectionBankAccounts      Collection = "bank_accounts"
	CollectionTransactions      Collection = "transactions"
	CollectionPayments          Collection = "payments"
	CollectionForecastScenarios Collection = "forecast_scenarios"
	CollectionFXExposures       Collection = "fx_exposures"
	CollectionConnectors        Collection = "connectors"
	CollectionUsers             Collection = "users"
	CollectionActivities        Collection = "activities"
)

// Collections lists every collection name
var Collections = []Collection{
	CollectionBankAccounts,
	CollectionTransactions,
	CollectionPayments,
	CollectionForecastScenarios,
	CollectionFXExposures,
	CollectionConnectors,
	CollectionUsers,
	CollectionActivities,
}

// Valid reports whether c names a known collection
func (c Collection) Valid() bool {
	return slices.Contains(Collections, c)
}

// Seed is the bootstrap content of the store
type Seed struct {
	BankAccounts      []BankAccount      `json:"bank_accounts"`
	Transactions      []Transaction      `json:"transactions"`
	Payments          []Payment          `json:"payments"`
	ForecastScenarios []ForecastScenario `json:"forecast_scenarios"`
	FXExposures       []FXExposure       `json:"fx_exposures"`
	Connectors        []Connector        `json:"connectors"`
	Users             []TreasuryUser     `json:"users"`
	Activities        []Activity         `json:"activities"` // Newest first
}

// Clone returns a deep copy of s
func (s Seed) Clone() Seed {
	return Seed{
		BankAccounts:      slices.Clone(s.BankAccounts),
		Transactions:      slices.Clone(s.Transactions),
		Payments:          ClonePayments(s.Payments),
		ForecastScenarios: CloneScenarios(s.ForecastScenarios),
		FXExposures:       slices.Clone(s.FXExposures),
		Connectors:        CloneConnectors(s.Connectors),
		Users:             CloneUsers(s.Users),
		Activities:        slices.Clone(s.Activities),
	}
}

// SeedLoader provides the initial records of the store
type SeedLoader interface {
	Load(ctx context.Context) (*Seed, error)
}

// ClonePayments deep-copies a payment slice, preserving nil
func ClonePayments(in []Payment) []Payment {
	if in == nil {
		return nil
	}
	out := make([]Payment, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// CloneScenarios deep-copies a scenario slice, preserving nil
func CloneScenarios(in []ForecastScenario) []ForecastScenario {
	if in == nil {
		return nil
	}
	out := make([]ForecastScenario, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// CloneConnectors deep-copies a connector slice, preserving nil
func CloneConnectors(in []Connector) []Connector {
	if in == nil {
		return nil
	}
	out := make([]Connector, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

// CloneUsers deep-copies a user slice, preserving nil
func CloneUsers(in []TreasuryUser) []TreasuryUser {
	if in == nil {
		return nil
	}
	out := make([]TreasuryUser, len(in))
	for i, u := range in {
		out[i] = u.Clone()
	}
	return out
}
