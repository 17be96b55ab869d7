package treasury

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// PaymentInput carries the caller-supplied fields of a new payment
type PaymentInput struct {
	BeneficiaryName    string        `json:"beneficiary_name"`
	BeneficiaryAccount string        `json:"beneficiary_account"`
	Amount             string        `json:"amount"`
	Currency           string        `json:"currency"`
	Type               PaymentType   `json:"type"`
	Status             PaymentStatus `json:"status"` // draft or pending_approval; empty means draft
	CreatedBy          string        `json:"created_by"`
	FraudScore         *int          `json:"fraud_score,omitempty"`
}

// Validate checks a new payment request, joining every field problem
func (in PaymentInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.BeneficiaryName) == "" {
		errs = append(errs, ValidationError{Field: "beneficiary_name", Message: "is required"})
	}
	if strings.TrimSpace(in.BeneficiaryAccount) == "" {
		errs = append(errs, ValidationError{Field: "beneficiary_account", Message: "is required"})
	}
	if amount, err := decimal.NewFromString(in.Amount); err != nil || !amount.IsPositive() {
		errs = append(errs, ValidationError{Field: "amount", Message: "must be a positive decimal"})
	}
	if len(in.Currency) != 3 {
		errs = append(errs, ValidationError{Field: "currency", Message: "must be a 3-letter code"})
	}
	if !in.Type.Valid() {
		errs = append(errs, ValidationError{Field: "type", Message: "must be wire_transfer, ach or check"})
	}
	switch in.Status {
	case "", PaymentStatusDraft, PaymentStatusPendingApproval:
	default:
		errs = append(errs, ValidationError{Field: "status", Message: "new payments start as draft or pending_approval"})
	}
	if in.FraudScore != nil && (*in.FraudScore < 0 || *in.FraudScore > 100) {
		errs = append(errs, ValidationError{Field: "fraud_score", Message: "must be between 0 and 100"})
	}
	return errors.Join(errs...)
}

// PaymentStatusCounts counts payments per status. The "all" key holds the total.
func PaymentStatusCounts(payments []Payment) map[string]int {
	counts := map[string]int{"all": len(payments)}
	for _, status := range PaymentStatuses {
		counts[string(status)] = 0
	}
	for _, p := range payments {
		counts[string(p.Status)]++
	}
	return counts
}

// FilterPaymentsByStatus keeps payments in the given status. An empty or "all" status keeps everything.
func FilterPaymentsByStatus(payments []Payment, status string) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if matchesFilter(status, string(p.Status)) {
			out = append(out, p)
		}
	}
	return out
}
