package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// CreateForecastScenario adds a scenario and logs a forecast_updated activity
func (s *TreasuryState) CreateForecastScenario(ctx context.Context, in treasury.ScenarioInput) (treasury.ForecastScenario, error) {
	if err := ctx.Err(); err != nil {
		return treasury.ForecastScenario{}, err
	}
	if err := in.Validate(); err != nil {
		s.metrics.ObserveOperation("create_forecast_scenario", err)
		return treasury.ForecastScenario{}, err
	}

	scenarioType := in.Type
	if scenarioType == "" {
		scenarioType = treasury.ScenarioTypeCustom
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = s.approver
	}

	var created treasury.ForecastScenario
	err := s.mutate("create_forecast_scenario", func(now time.Time) (Change, error) {
		scenario := treasury.ForecastScenario{
			ID:          "scenario-" + uuid.NewString(),
			Name:        strings.TrimSpace(in.Name),
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			Assumptions: in.Assumptions,
			Type:        scenarioType,
			CreatedBy:   createdBy,
			CreatedAt:   now,
			Data:        slices.Clone(in.Data),
		}
		s.data.ForecastScenarios = append(s.data.ForecastScenarios, scenario)
		s.prependActivity(treasury.ScenarioSavedActivity(scenario, s.actorUserID, now), now)
		created = scenario.Clone()
		return Change{Kind: ChangeScenarioCreated, Collection: treasury.CollectionForecastScenarios, EntityID: scenario.ID}, nil
	})
	if err != nil {
		return treasury.ForecastScenario{}, err
	}
	return created, nil
}
