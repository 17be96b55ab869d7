// Package reporting periodically publishes cash position snapshots
package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/messaging/producers"
	"github.com/treasury-dashboard/internal/store"
)

// EventType of published position reports
const EventType = "cash_position"

// StateReader provides consistent snapshots of the treasury state
type StateReader interface {
	Snapshot() store.Snapshot
}

// PositionReport is the cash position at one store version
type PositionReport struct {
	Version          uint64                  `json:"version"`
	AsOf             time.Time               `json:"as_of"`
	Position         treasury.CashPosition   `json:"position"`
	Distribution     []treasury.BalanceShare `json:"distribution"`
	FX               treasury.FXSummary      `json:"fx"`
	PendingApprovals int                     `json:"pending_approvals"`
}

// BuildReport derives a report from a snapshot
func BuildReport(snap store.Snapshot, rates treasury.RateProvider, asOf time.Time) PositionReport {
	return PositionReport{
		Version:          snap.Version,
		AsOf:             asOf,
		Position:         treasury.TotalCashPosition(snap.BankAccounts, rates),
		Distribution:     treasury.BalanceDistribution(snap.BankAccounts, rates),
		FX:               treasury.SummarizeFX(snap.FXExposures),
		PendingApprovals: treasury.PaymentStatusCounts(snap.Payments)[string(treasury.PaymentStatusPendingApproval)],
	}
}

// PositionReporter publishes a report each interval when the state changed since the last one
type PositionReporter struct {
	state       StateReader
	publisher   producers.EventPublisher
	rates       treasury.RateProvider
	logger      *slog.Logger
	interval    time.Duration
	now         func() time.Time
	lastVersion uint64
	published   bool
}

func NewPositionReporter(
	state StateReader,
	publisher producers.EventPublisher,
	rates treasury.RateProvider,
	interval time.Duration,
	logger *slog.Logger,
) *PositionReporter {
	return &PositionReporter{
		state:     state,
		publisher: publisher,
		rates:     rates,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
	}
}

// Start reports until ctx is canceled
func (r *PositionReporter) Start(ctx context.Context) {
	r.logger.Info("Starting position reporter", "interval", r.interval.String(), "currency", r.rates.Base())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Position reporter stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := r.Report(ctx); err != nil {
				r.logger.Error("Error during position report", "error", err)
			}
		}
	}
}

// Report publishes the current position unless it was already published at this version
func (r *PositionReporter) Report(ctx context.Context) error {
	snap := r.state.Snapshot()
	if r.published && snap.Version == r.lastVersion {
		r.logger.Debug("Position unchanged, skipping report", "version", snap.Version)
		return nil
	}

	report := BuildReport(snap, r.rates, r.now().UTC())
	if err := r.publisher.Publish(ctx, EventType, EventType, report); err != nil {
		return fmt.Errorf("failed to publish position report at version %d: %w", snap.Version, err)
	}

	r.lastVersion = snap.Version
	r.published = true
	r.logger.Info("Published position report",
		"version", report.Version,
		"total", treasury.FormatAmount(report.Position.Total),
		"currency", report.Position.Currency,
		"unconverted", report.Position.Unconverted,
		"pending_approvals", report.PendingApprovals,
	)
	return nil
}
