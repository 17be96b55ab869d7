package store

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

const (
	// DefaultActivityLimit is the number of activities kept, newest first
	DefaultActivityLimit = 20
	// DefaultApprover is recorded as approvedBy on approved payments
	DefaultApprover = "john.doe@company.com"
	// DefaultActorUserID is the user id stamped on activities the store synthesizes
	DefaultActorUserID = "1"
)

func defaultHoldAmount() decimal.Decimal {
	return decimal.NewFromInt(100_000)
}

// Recorder receives store operation outcomes
type Recorder interface {
	ObserveOperation(operation string, err error)
	SetActivityLogSize(size int)
	SetSubscribers(count int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, error) {}
func (nopRecorder) SetActivityLogSize(int)         {}
func (nopRecorder) SetSubscribers(int)             {}

// Option configures a TreasuryState
type Option func(*TreasuryState)

// WithHoldAmount sets the amount withheld from the available balance on balance updates
func WithHoldAmount(amount decimal.Decimal) Option {
	return func(s *TreasuryState) {
		s.holdAmount = amount
	}
}

// WithActivityLimit bounds the activity log. Non-positive values are ignored.
func WithActivityLimit(limit int) Option {
	return func(s *TreasuryState) {
		if limit > 0 {
			s.activityLimit = limit
		}
	}
}

// WithApprover sets the identity recorded on approved payments
func WithApprover(approver string) Option {
	return func(s *TreasuryState) {
		s.approver = approver
	}
}

// WithActorUserID sets the user id of activities synthesized by payment and scenario operations
func WithActorUserID(userID string) Option {
	return func(s *TreasuryState) {
		s.actorUserID = userID
	}
}

// WithPolicy sets how payment status changes are checked
func WithPolicy(policy treasury.TransitionPolicy) Option {
	return func(s *TreasuryState) {
		s.policy = policy
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *TreasuryState) {
		s.now = now
	}
}

func WithMetrics(recorder Recorder) Option {
	return func(s *TreasuryState) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *TreasuryState) {
		if logger != nil {
			s.logger = logger
		}
	}
}
