package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// ReplaceCollectionRequest carries the records that replace a collection
type ReplaceCollectionRequest struct {
	Items json.RawMessage `json:"items" binding:"required"`
}

// SelectionRequest selects an account or payment by id
type SelectionRequest struct {
	ID string `json:"id" binding:"required"`
}

// SidebarResponse reports the sidebar state after a toggle
type SidebarResponse struct {
	Collapsed bool `json:"collapsed"`
}

// AccountFilter represents the account list query
type AccountFilter struct {
	Currency string `form:"currency"`
	Bank     string `form:"bank"`
}

// UpdateBalanceRequest sets an account's ledger balance
type UpdateBalanceRequest struct {
	LedgerBalance *decimal.Decimal `json:"ledger_balance" binding:"required"`
}

// CashPositionResponse is the total cash position with a display amount
type CashPositionResponse struct {
	treasury.CashPosition
	Formatted string `json:"formatted"`
}

// PaymentFilter represents the payment list query
type PaymentFilter struct {
	Status string `form:"status"`
}

// CreatePaymentRequest represents a request to create a draft or pending payment
type CreatePaymentRequest struct {
	BeneficiaryName    string `json:"beneficiary_name" binding:"required"`
	BeneficiaryAccount string `json:"beneficiary_account" binding:"required"`
	Amount             string `json:"amount" binding:"required"`
	Currency           string `json:"currency" binding:"required,len=3"`
	Type               string `json:"type" binding:"required"`
	Status             string `json:"status" binding:"omitempty,oneof=draft pending_approval"`
	CreatedBy          string `json:"created_by"`
	FraudScore         *int   `json:"fraud_score" binding:"omitempty,min=0,max=100"`
}

func (r CreatePaymentRequest) input() treasury.PaymentInput {
	return treasury.PaymentInput{
		BeneficiaryName:    r.BeneficiaryName,
		BeneficiaryAccount: r.BeneficiaryAccount,
		Amount:             r.Amount,
		Currency:           r.Currency,
		Type:               treasury.PaymentType(r.Type),
		Status:             treasury.PaymentStatus(r.Status),
		CreatedBy:          r.CreatedBy,
		FraudScore:         r.FraudScore,
	}
}

// AddActivityRequest represents a request to append to the activity log
type AddActivityRequest struct {
	Type        string     `json:"type" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
	UserID      string     `json:"user_id" binding:"required"`
	Icon        string     `json:"icon"`
	IconColor   string     `json:"icon_color"`
}

func (r AddActivityRequest) input() treasury.ActivityInput {
	in := treasury.ActivityInput{
		Type:        treasury.ActivityType(r.Type),
		Title:       r.Title,
		Description: r.Description,
		UserID:      r.UserID,
		Icon:        r.Icon,
		IconColor:   r.IconColor,
	}
	if r.Timestamp != nil {
		in.Timestamp = *r.Timestamp
	}
	return in
}

// CreateScenarioRequest represents a request to save a forecast scenario
type CreateScenarioRequest struct {
	Name        string                   `json:"name" binding:"required"`
	StartDate   time.Time                `json:"start_date" binding:"required"`
	EndDate     time.Time                `json:"end_date" binding:"required"`
	Assumptions string                   `json:"assumptions"`
	Type        string                   `json:"type"`
	CreatedBy   string                   `json:"created_by"`
	Data        []treasury.ForecastPoint `json:"data"`
}

func (r CreateScenarioRequest) input() treasury.ScenarioInput {
	return treasury.ScenarioInput{
		Name:        r.Name,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Assumptions: r.Assumptions,
		Type:        treasury.ScenarioType(r.Type),
		CreatedBy:   r.CreatedBy,
		Data:        r.Data,
	}
}

// ImpactRequest holds percentage adjustments to the monthly flows
type ImpactRequest struct {
	InflowsAdjustmentPct  decimal.Decimal `json:"inflows_adjustment_pct"`
	OutflowsAdjustmentPct decimal.Decimal `json:"outflows_adjustment_pct"`
}

// CreateUserRequest represents a request to invite a user
type CreateUserRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"required"`
	Status string `json:"status"`
	Avatar string `json:"avatar"`
}

func (r CreateUserRequest) input() treasury.UserInput {
	return treasury.UserInput{
		Name:   r.Name,
		Email:  r.Email,
		Role:   treasury.UserRole(r.Role),
		Status: treasury.RecordStatus(r.Status),
		Avatar: r.Avatar,
	}
}
