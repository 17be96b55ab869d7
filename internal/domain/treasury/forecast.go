package treasury

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Baseline planning figures of the impact calculator
var (
	ImpactBasePosition    = decimal.NewFromInt(6_500_000)
	ImpactMonthlyInflows  = decimal.NewFromInt(2_400_000)
	ImpactMonthlyOutflows = decimal.NewFromInt(1_800_000)
)

// Variant multipliers applied to a baseline projection
var (
	OptimisticMultiplier   = decimal.RequireFromString("1.2")
	ConservativeMultiplier = decimal.RequireFromString("0.85")
)

// ScenarioInput carries the caller-supplied fields of a new forecast scenario
type ScenarioInput struct {
	Name        string          `json:"name"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Assumptions string          `json:"assumptions"`
	Type        ScenarioType    `json:"type"` // Empty means custom
	CreatedBy   string          `json:"created_by"`
	Data        []ForecastPoint `json:"data,omitempty"`
}

// Validate requires a name and a date range that does not end before it starts
func (in ScenarioInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "is required"})
	}
	if in.StartDate.IsZero() {
		errs = append(errs, ValidationError{Field: "start_date", Message: "is required"})
	}
	if in.EndDate.IsZero() {
		errs = append(errs, ValidationError{Field: "end_date", Message: "is required"})
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.EndDate.Before(in.StartDate) {
		errs = append(errs, ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if in.Type != "" && !in.Type.Valid() {
		errs = append(errs, ValidationError{Field: "type", Message: "unknown scenario type " + string(in.Type)})
	}
	return errors.Join(errs...)
}

// ImpactInput holds percentage adjustments to monthly inflows and outflows, e.g. 10 for +10%
type ImpactInput struct {
	InflowsAdjustmentPct  decimal.Decimal `json:"inflows_adjustment_pct"`
	OutflowsAdjustmentPct decimal.Decimal `json:"outflows_adjustment_pct"`
}

// Impact is the effect of adjusted flows on the cash position
type Impact struct {
	AdjustedInflows  decimal.Decimal `json:"adjusted_inflows"`
	AdjustedOutflows decimal.Decimal `json:"adjusted_outflows"`
	NetChange        decimal.Decimal `json:"net_change"`
	NewPosition      decimal.Decimal `json:"new_position"`
	CashDays         *int64          `json:"cash_days"` // Nil when adjusted outflows are zero
}

// ForecastImpact computes the monthly net change and the days of cash on hand
// after adjusting the baseline inflows and outflows. A month is 30 days.
func ForecastImpact(in ImpactInput) Impact {
	hundred := decimal.NewFromInt(100)
	one := decimal.NewFromInt(1)

	adjustedInflows := ImpactMonthlyInflows.Mul(one.Add(in.InflowsAdjustmentPct.Div(hundred)))
	adjustedOutflows := ImpactMonthlyOutflows.Mul(one.Add(in.OutflowsAdjustmentPct.Div(hundred)))
	netChange := adjustedInflows.Sub(adjustedOutflows).Sub(ImpactMonthlyInflows.Sub(ImpactMonthlyOutflows))
	newPosition := ImpactBasePosition.Add(netChange)

	impact := Impact{
		AdjustedInflows:  adjustedInflows,
		AdjustedOutflows: adjustedOutflows,
		NetChange:        netChange,
		NewPosition:      newPosition,
	}
	if !adjustedOutflows.IsZero() {
		dailyOutflow := adjustedOutflows.Div(decimal.NewFromInt(30))
		days := newPosition.Div(dailyOutflow).Floor().IntPart()
		impact.CashDays = &days
	}
	return impact
}

// VariantPoint is one period of a baseline projection with its optimistic and conservative variants
type VariantPoint struct {
	Date         time.Time       `json:"date"`
	Baseline     decimal.Decimal `json:"baseline"`
	Optimistic   decimal.Decimal `json:"optimistic"`
	Conservative decimal.Decimal `json:"conservative"`
}

// ScenarioVariants derives optimistic and conservative projections from baseline points
func ScenarioVariants(points []ForecastPoint) []VariantPoint {
	out := make([]VariantPoint, len(points))
	for i, p := range points {
		out[i] = VariantPoint{
			Date:         p.Date,
			Baseline:     p.ProjectedBalance,
			Optimistic:   p.ProjectedBalance.Mul(OptimisticMultiplier),
			Conservative: p.ProjectedBalance.Mul(ConservativeMultiplier),
		}
	}
	return out
}
