package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState(t)

	created, err := state.CreateUser(ctx, treasury.UserInput{Name: "Ada Park", Email: "Ada@Company.com", Role: treasury.UserRoleApprover})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "AP", created.Avatar)
	assert.Equal(t, treasury.RecordStatusPending, created.Status)

	byID, err := state.GetUser(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byEmail, err := state.GetUserByEmail("ada@company.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := state.CreateUser(ctx, treasury.UserInput{Name: "Other", Email: "JOHN.DOE@company.com", Role: treasury.UserRoleViewer})
		assert.ErrorAs(t, err, &treasury.ErrDuplicateEmail{})
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := state.CreateUser(ctx, treasury.UserInput{Name: "x", Email: "x", Role: treasury.UserRoleViewer})
		assert.ErrorIs(t, err, treasury.ErrValidation)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := state.GetUser("missing")
		assert.ErrorIs(t, err, treasury.ErrNotFound)
		_, err = state.GetUserByEmail("nobody@company.com")
		assert.ErrorIs(t, err, treasury.ErrNotFound)
	})
}

func TestCreateForecastScenario(t *testing.T) {
	ctx := context.Background()
	state, _ := newTestState(t)
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	scenario, err := state.CreateForecastScenario(ctx, treasury.ScenarioInput{
		Name:      "Q3 Expansion",
		StartDate: start,
		EndDate:   start.AddDate(0, 3, 0),
	})

	require.NoError(t, err)
	assert.Equal(t, treasury.ScenarioTypeCustom, scenario.Type)
	assert.Equal(t, DefaultApprover, scenario.CreatedBy)
	assert.Len(t, state.Snapshot().ForecastScenarios, 2)

	newest := state.Activities()[0]
	assert.Equal(t, treasury.ActivityForecastUpdated, newest.Type)
	assert.Equal(t, "Q3 Expansion scenario created", newest.Description)

	_, err = state.CreateForecastScenario(ctx, treasury.ScenarioInput{Name: "Bad", StartDate: start, EndDate: start.AddDate(0, -1, 0)})
	assert.ErrorIs(t, err, treasury.ErrValidation)
}
