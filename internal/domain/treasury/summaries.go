package treasury

import (
	"github.com/shopspring/decimal"
)

// FXSummary aggregates the open FX positions
type FXSummary struct {
	Positions     int               `json:"positions"`
	TotalExposure decimal.Decimal   `json:"total_exposure"`
	Hedged        decimal.Decimal   `json:"hedged"`
	Unhedged      decimal.Decimal   `json:"unhedged"`
	HedgeRatio    decimal.Decimal   `json:"hedge_ratio"` // Exposure-weighted, 4 decimals
	ByRiskLevel   map[RiskLevel]int `json:"by_risk_level"`
}

// SummarizeFX totals exposures and computes the exposure-weighted hedge ratio
func SummarizeFX(exposures []FXExposure) FXSummary {
	summary := FXSummary{
		Positions:     len(exposures),
		TotalExposure: decimal.Zero,
		Hedged:        decimal.Zero,
		Unhedged:      decimal.Zero,
		HedgeRatio:    decimal.Zero,
		ByRiskLevel: map[RiskLevel]int{
			RiskLevelLow:    0,
			RiskLevelMedium: 0,
			RiskLevelHigh:   0,
		},
	}
	for _, e := range exposures {
		hedged := e.Exposure.Mul(e.HedgeRatio)
		summary.TotalExposure = summary.TotalExposure.Add(e.Exposure)
		summary.Hedged = summary.Hedged.Add(hedged)
		summary.ByRiskLevel[e.RiskLevel]++
	}
	summary.Unhedged = summary.TotalExposure.Sub(summary.Hedged)
	if !summary.TotalExposure.IsZero() {
		summary.HedgeRatio = summary.Hedged.Div(summary.TotalExposure).Round(4)
	}
	return summary
}

// ConnectorUsage is one connector's consumption of its rate limit
type ConnectorUsage struct {
	ConnectorID string           `json:"connector_id"`
	Name        string           `json:"name"`
	Used        int              `json:"used"`
	Limit       *int             `json:"limit,omitempty"`
	Percent     *decimal.Decimal `json:"percent,omitempty"` // Nil without a positive limit
}

// ConnectorSummary aggregates integration health
type ConnectorSummary struct {
	Total         int              `json:"total"`
	Connected     int              `json:"connected"`
	Pending       int              `json:"pending"`
	Errored       int              `json:"errored"`
	Inactive      int              `json:"inactive"`
	RateLimitUsed int              `json:"rate_limit_used"`
	Usage         []ConnectorUsage `json:"usage"`
}

// SummarizeConnectors counts connectors per status and reports rate limit usage
func SummarizeConnectors(connectors []Connector) ConnectorSummary {
	summary := ConnectorSummary{
		Total: len(connectors),
		Usage: make([]ConnectorUsage, 0, len(connectors)),
	}
	hundred := decimal.NewFromInt(100)
	for _, c := range connectors {
		switch c.Status {
		case ConnectorStatusConnected:
			summary.Connected++
		case ConnectorStatusPending:
			summary.Pending++
		case ConnectorStatusError:
			summary.Errored++
		case ConnectorStatusInactive:
			summary.Inactive++
		}

		usage := ConnectorUsage{ConnectorID: c.ID, Name: c.Name}
		if c.RateLimitUsed != nil {
			usage.Used = *c.RateLimitUsed
		}
		summary.RateLimitUsed += usage.Used
		if c.RateLimit != nil {
			limit := *c.RateLimit
			usage.Limit = &limit
			if limit > 0 {
				percent := decimal.NewFromInt(int64(usage.Used)).Div(decimal.NewFromInt(int64(limit))).Mul(hundred).Round(2)
				usage.Percent = &percent
			}
		}
		summary.Usage = append(summary.Usage, usage)
	}
	return summary
}
