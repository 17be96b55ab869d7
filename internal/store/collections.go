package store

import (
	"slices"
	"time"

	"github.com/treasury-dashboard/internal/domain/treasury"
)

// ReplaceCollection swaps a whole collection for a copy of items. Contents are not validated;
// the only error is an unknown name or items of the wrong record type. Replaced activities
// are still trimmed to the log bound.
func (s *TreasuryState) ReplaceCollection(name treasury.Collection, items any) error {
	return s.mutate("replace_collection", func(time.Time) (Change, error) {
		if err := s.replaceLocked(name, items); err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeCollectionReplaced, Collection: name}, nil
	})
}

func (s *TreasuryState) replaceLocked(name treasury.Collection, items any) error {
	switch name {
	case treasury.CollectionBankAccounts:
		if v, ok := items.([]treasury.BankAccount); ok {
			s.data.BankAccounts = slices.Clone(v)
			return nil
		}
	case treasury.CollectionTransactions:
		if v, ok := items.([]treasury.Transaction); ok {
			s.data.Transactions = slices.Clone(v)
			return nil
		}
	case treasury.CollectionPayments:
		if v, ok := items.([]treasury.Payment); ok {
			s.data.Payments = treasury.ClonePayments(v)
			return nil
		}
	case treasury.CollectionForecastScenarios:
		if v, ok := items.([]treasury.ForecastScenario); ok {
			s.data.ForecastScenarios = treasury.CloneScenarios(v)
			return nil
		}
	case treasury.CollectionFXExposures:
		if v, ok := items.([]treasury.FXExposure); ok {
			s.data.FXExposures = slices.Clone(v)
			return nil
		}
	case treasury.CollectionConnectors:
		if v, ok := items.([]treasury.Connector); ok {
			s.data.Connectors = treasury.CloneConnectors(v)
			return nil
		}
	case treasury.CollectionUsers:
		if v, ok := items.([]treasury.TreasuryUser); ok {
			s.data.Users = treasury.CloneUsers(v)
			return nil
		}
	case treasury.CollectionActivities:
		if v, ok := items.([]treasury.Activity); ok {
			s.data.Activities = truncateActivities(slices.Clone(v), s.activityLimit)
			return nil
		}
	}
	return treasury.ErrUnknownCollection{Name: string(name)}
}

func (s *TreasuryState) SetBankAccounts(accounts []treasury.BankAccount) {
	_ = s.ReplaceCollection(treasury.CollectionBankAccounts, accounts)
}

func (s *TreasuryState) SetTransactions(transactions []treasury.Transaction) {
	_ = s.ReplaceCollection(treasury.CollectionTransactions, transactions)
}

func (s *TreasuryState) SetPayments(payments []treasury.Payment) {
	_ = s.ReplaceCollection(treasury.CollectionPayments, payments)
}

func (s *TreasuryState) SetForecastScenarios(scenarios []treasury.ForecastScenario) {
	_ = s.ReplaceCollection(treasury.CollectionForecastScenarios, scenarios)
}

func (s *TreasuryState) SetFXExposures(exposures []treasury.FXExposure) {
	_ = s.ReplaceCollection(treasury.CollectionFXExposures, exposures)
}

func (s *TreasuryState) SetConnectors(connectors []treasury.Connector) {
	_ = s.ReplaceCollection(treasury.CollectionConnectors, connectors)
}

func (s *TreasuryState) SetUsers(users []treasury.TreasuryUser) {
	_ = s.ReplaceCollection(treasury.CollectionUsers, users)
}

func (s *TreasuryState) SetActivities(activities []treasury.Activity) {
	_ = s.ReplaceCollection(treasury.CollectionActivities, activities)
}
