// Package balance_feed applies bank balance updates received from the message broker
package balance_feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/messaging/producers"
)

// Results recorded per message
const (
	ResultApplied        = "applied"
	ResultUnknownAccount = "unknown_account"
	ResultDeadLettered   = "dead_lettered"
	ResultFailed         = "failed"
)

// BalanceUpdate is the payload of a balance feed message
type BalanceUpdate struct {
	AccountID     string           `json:"account_id"`
	LedgerBalance *decimal.Decimal `json:"ledger_balance"`
	CorrelationID string           `json:"correlation_id,omitempty"`
}

// Validate checks the required fields
func (u BalanceUpdate) Validate() error {
	if strings.TrimSpace(u.AccountID) == "" {
		return treasury.ValidationError{Field: "account_id", Message: "is required"}
	}
	if u.LedgerBalance == nil {
		return treasury.ValidationError{Field: "ledger_balance", Message: "is required"}
	}
	return nil
}

// BalanceUpdater applies a new ledger balance to an account
type BalanceUpdater interface {
	UpdateBankBalance(ctx context.Context, accountID string, newBalance decimal.Decimal) (treasury.BankAccount, error)
}

// Metrics counts handled messages by result
type Metrics interface {
	RecordBalanceFeed(result string)
}

type nopMetrics struct{}

func (nopMetrics) RecordBalanceFeed(string) {}

// Handler handles incoming balance feed messages from Kafka
type Handler struct {
	state   BalanceUpdater
	dlq     producers.DeadLetterPublisher
	metrics Metrics
	logger  *slog.Logger
}

// NewHandler creates a new handler. dlq may be nil when dead-lettering is disabled.
func NewHandler(logger *slog.Logger, state BalanceUpdater, dlq producers.DeadLetterPublisher, metrics Metrics) *Handler {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Handler{
		state:   state,
		dlq:     dlq,
		metrics: metrics,
		logger:  logger,
	}
}

// HandleMessage applies one balance update. Returning nil commits the offset.
func (h *Handler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var update BalanceUpdate
	if err := json.Unmarshal(value, &update); err != nil {
		return h.deadLetter(ctx, key, value, "Failed to unmarshal balance update", err)
	}
	if err := update.Validate(); err != nil {
		return h.deadLetter(ctx, key, value, "Invalid balance update", err)
	}

	logger := h.logger
	if update.CorrelationID != "" {
		logger = h.logger.With("correlation_id", update.CorrelationID)
	}

	account, err := h.state.UpdateBankBalance(ctx, update.AccountID, *update.LedgerBalance)
	if err != nil {
		if errors.Is(err, treasury.ErrNotFound) {
			logger.Warn("Skipping balance update for unknown account", "account_id", update.AccountID)
			h.metrics.RecordBalanceFeed(ResultUnknownAccount)
			return nil
		}
		logger.Error("Failed to apply balance update", "account_id", update.AccountID, "error", err)
		h.metrics.RecordBalanceFeed(ResultFailed)
		return fmt.Errorf("applying balance update for account %s failed: %w", update.AccountID, err)
	}

	logger.Info("Applied balance update",
		"account_id", account.ID,
		"ledger_balance", account.LedgerBalance.String(),
		"available_balance", account.AvailableBalance.String(),
	)
	h.metrics.RecordBalanceFeed(ResultApplied)
	return nil
}

// deadLetter sends an unprocessable message to the DLQ. The offset is committed only if that succeeds.
func (h *Handler) deadLetter(ctx context.Context, key, value []byte, msg string, cause error) error {
	h.logger.Error(msg, "error", cause, "message_key", string(key))

	if h.dlq != nil {
		reason := fmt.Sprintf("%s: %s", msg, cause.Error())
		if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
			h.logger.Error("Failed to publish message to DLQ",
				"dlq_error", dlqErr,
				"original_error", cause,
				"message_key", string(key),
			)
		} else {
			h.metrics.RecordBalanceFeed(ResultDeadLettered)
			return nil
		}
	}

	h.metrics.RecordBalanceFeed(ResultFailed)
	return fmt.Errorf("unprocessable balance update: %w", cause)
}
