package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/platform/messaging/producers"
	"github.com/treasury-dashboard/internal/store"
)

// StateSource is the part of the treasury state the publisher reads
type StateSource interface {
	Subscribe(buffer int) *store.Subscription
	BankAccount(accountID string) (treasury.BankAccount, error)
	Payment(paymentID string) (treasury.Payment, error)
	GetUser(id string) (treasury.TreasuryUser, error)
	Activities() []treasury.Activity
}

// ChangeEvent is the message published for a committed change
type ChangeEvent struct {
	store.Change
	Data interface{} `json:"data,omitempty"`
}

// ChangePublisher subscribes to the store and publishes every domain change through a worker pool.
// Events carry the store version; consumers order by it.
type ChangePublisher struct {
	state     StateSource
	publisher producers.EventPublisher
	pool      *ants.Pool
	buffer    int
	logger    *slog.Logger
	inFlight  sync.WaitGroup
}

// NewChangePublisher creates the worker pool. buffer sizes the store subscription.
func NewChangePublisher(
	state StateSource,
	publisher producers.EventPublisher,
	poolSize int,
	buffer int,
	logger *slog.Logger,
) (*ChangePublisher, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &ChangePublisher{
		state:     state,
		publisher: publisher,
		pool:      pool,
		buffer:    buffer,
		logger:    logger,
	}, nil
}

// Run publishes changes until ctx is canceled. A subscription dropped for lagging is replaced;
// changes committed in between are not published.
func (p *ChangePublisher) Run(ctx context.Context) {
	p.logger.Info("Starting change publisher", "pool_size", p.pool.Cap(), "buffer", p.buffer)

	for {
		sub := p.state.Subscribe(p.buffer)
		if !p.drain(ctx, sub) {
			sub.Close()
			p.inFlight.Wait()
			p.logger.Info("Change publisher stopped")
			return
		}
		p.logger.Warn("Change subscription dropped, resubscribing", "error", sub.Err())
	}
}

// drain publishes from sub until it closes (true) or ctx is done (false)
func (p *ChangePublisher) drain(ctx context.Context, sub *store.Subscription) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case change, ok := <-sub.C:
			if !ok {
				return true
			}
			p.submit(ctx, change)
		}
	}
}

func (p *ChangePublisher) submit(ctx context.Context, change store.Change) {
	if !Publishable(change.Kind) {
		return
	}

	p.inFlight.Add(1)
	err := p.pool.Submit(func() {
		defer p.inFlight.Done()
		p.publish(ctx, change)
	})
	if err != nil {
		p.inFlight.Done()
		p.logger.Error("Failed to submit change to worker pool",
			"version", change.Version,
			"kind", change.Kind,
			"error", err,
		)
	}
}

func (p *ChangePublisher) publish(ctx context.Context, change store.Change) {
	event := ChangeEvent{Change: change, Data: p.entity(change)}

	err := p.publisher.Publish(ctx, eventKey(change), string(change.Kind), event)
	switch {
	case err == nil:
	case errors.Is(err, ErrCircuitOpen):
		p.logger.Debug("Change not published, circuit open", "version", change.Version, "kind", change.Kind)
	default:
		p.logger.Error("Failed to publish change",
			"version", change.Version,
			"kind", change.Kind,
			"entity_id", change.EntityID,
			"error", err,
		)
	}
}

// entity returns the current record behind the change, or nil when there is none to attach
func (p *ChangePublisher) entity(change store.Change) interface{} {
	if change.EntityID == "" {
		return nil
	}
	var (
		record interface{}
		err    error
	)
	switch change.Collection {
	case treasury.CollectionBankAccounts:
		record, err = p.state.BankAccount(change.EntityID)
	case treasury.CollectionPayments:
		record, err = p.state.Payment(change.EntityID)
	case treasury.CollectionUsers:
		record, err = p.state.GetUser(change.EntityID)
	case treasury.CollectionActivities:
		for _, a := range p.state.Activities() {
			if a.ID == change.EntityID {
				return a
			}
		}
		return nil
	default:
		return nil
	}
	if err != nil {
		p.logger.Debug("Changed entity no longer present", "collection", change.Collection, "entity_id", change.EntityID)
		return nil
	}
	return record
}

// Shutdown releases the worker pool, waiting up to timeout for running publishes
func (p *ChangePublisher) Shutdown(timeout time.Duration) {
	p.logger.Info("Shutting down change publisher", "running_workers", p.pool.Running())
	if err := p.pool.ReleaseTimeout(timeout); err != nil {
		p.logger.Warn("Change publisher workers still running after timeout", "error", err)
	}
}

// Publishable reports whether a change kind describes domain data rather than view state
func Publishable(kind store.ChangeKind) bool {
	switch kind {
	case store.ChangeSelection, store.ChangeSidebarToggled:
		return false
	default:
		return true
	}
}

func eventKey(change store.Change) string {
	if change.EntityID != "" {
		return change.EntityID
	}
	if change.Collection != "" {
		return string(change.Collection)
	}
	return string(change.Kind)
}
