package treasury

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Icon tags and colors of activities synthesized by the store
const (
	iconApproved      = "check"
	iconBlocked       = "ban"
	iconForecast      = "chart-line"
	colorApproved     = "hsl(160, 82%, 36%)"
	colorBlocked      = "hsl(348, 83%, 47%)"
	colorForecast     = "hsl(45, 93%, 47%)"
	titleApproved     = "Payment Approved"
	titleBlocked      = "Payment Blocked"
	titleForecastSave = "Forecast Updated"
)

// FormatAmount renders an amount with a dollar sign and thousands separators, e.g. "$50,000"
func FormatAmount(amount decimal.Decimal) string {
	formatted := humanize.Commaf(amount.Abs().InexactFloat64())
	if amount.IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// PaymentApprovedActivity is the log entry written when a payment is approved
func PaymentApprovedActivity(p Payment, userID string, at time.Time) ActivityInput {
	return ActivityInput{
		Type:        ActivityPaymentApproved,
		Title:       titleApproved,
		Description: paymentSummary(p),
		Timestamp:   at,
		UserID:      userID,
		Icon:        iconApproved,
		IconColor:   colorApproved,
	}
}

// PaymentBlockedActivity is the log entry written when a payment is blocked
func PaymentBlockedActivity(p Payment, userID string, at time.Time) ActivityInput {
	return ActivityInput{
		Type:        ActivityFraudAlert,
		Title:       titleBlocked,
		Description: paymentSummary(p),
		Timestamp:   at,
		UserID:      userID,
		Icon:        iconBlocked,
		IconColor:   colorBlocked,
	}
}

// ScenarioSavedActivity is the log entry written when a forecast scenario is created
func ScenarioSavedActivity(s ForecastScenario, userID string, at time.Time) ActivityInput {
	return ActivityInput{
		Type:        ActivityForecastUpdated,
		Title:       titleForecastSave,
		Description: s.Name + " scenario created",
		Timestamp:   at,
		UserID:      userID,
		Icon:        iconForecast,
		IconColor:   colorForecast,
	}
}

// Validate checks the fields a caller must supply for a new activity
func (in ActivityInput) Validate() error {
	if !in.Type.Valid() {
		return ValidationError{Field: "type", Message: "unknown activity type " + string(in.Type)}
	}
	if strings.TrimSpace(in.Title) == "" {
		return ValidationError{Field: "title", Message: "is required"}
	}
	return nil
}

func paymentSummary(p Payment) string {
	return p.BeneficiaryName + " - " + FormatAmount(p.Amount)
}
