package events

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treasury-dashboard/internal/data/fixtures"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/store"
)

type publishedEvent struct {
	key       string
	eventType string
	event     ChangeEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (r *recordingPublisher) Publish(_ context.Context, key, eventType string, value interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, publishedEvent{key: key, eventType: eventType, event: value.(ChangeEvent)})
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) published() []publishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]publishedEvent(nil), r.events...)
}

func (r *recordingPublisher) find(eventType string) (publishedEvent, bool) {
	for _, e := range r.published() {
		if e.eventType == eventType {
			return e, true
		}
	}
	return publishedEvent{}, false
}

// subscriberGauge records the store's subscriber count
type subscriberGauge struct {
	count atomic.Int64
}

func (g *subscriberGauge) ObserveOperation(string, error) {}
func (g *subscriberGauge) SetActivityLogSize(int)         {}
func (g *subscriberGauge) SetSubscribers(count int)       { g.count.Store(int64(count)) }

func newObservedState() (*store.TreasuryState, *subscriberGauge) {
	gauge := &subscriberGauge{}
	return store.New(fixtures.Seed(), store.WithMetrics(gauge)), gauge
}

func startPublisher(t *testing.T, state *store.TreasuryState, gauge *subscriberGauge, pub *recordingPublisher) (stop func()) {
	t.Helper()
	cp, err := NewChangePublisher(state, pub, 2, 16, newTestLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cp.Run(ctx)
		close(done)
	}()
	require.Eventually(t, func() bool { return gauge.count.Load() > 0 }, time.Second, time.Millisecond)

	return func() {
		cancel()
		<-done
		cp.Shutdown(time.Second)
	}
}

func TestChangePublisher_PublishesDomainChanges(t *testing.T) {
	state, gauge := newObservedState()
	pub := &recordingPublisher{}
	stop := startPublisher(t, state, gauge, pub)
	defer stop()

	ctx := context.Background()
	payment, err := state.ApprovePayment(ctx, "PAY-001234")
	require.NoError(t, err)
	_, err = state.UpdateBankBalance(ctx, "1", decimal.NewFromInt(3_000_000))
	require.NoError(t, err)
	state.SelectPayment(&payment)
	state.ToggleSidebar()

	require.Eventually(t, func() bool { return len(pub.published()) >= 2 }, time.Second, 5*time.Millisecond)

	statusEvent, ok := pub.find(string(store.ChangePaymentStatus))
	require.True(t, ok)
	assert.Equal(t, "PAY-001234", statusEvent.key)
	approved, ok := statusEvent.event.Data.(treasury.Payment)
	require.True(t, ok)
	assert.Equal(t, treasury.PaymentStatusApproved, approved.Status)

	balanceEvent, ok := pub.find(string(store.ChangeBalanceUpdated))
	require.True(t, ok)
	account, ok := balanceEvent.event.Data.(treasury.BankAccount)
	require.True(t, ok)
	assert.True(t, account.AvailableBalance.Equal(decimal.NewFromInt(2_900_000)))

	_, ok = pub.find(string(store.ChangeActivityAdded))
	assert.False(t, ok, "approval activity is part of the payment change")

	// view state is never published
	time.Sleep(20 * time.Millisecond)
	_, ok = pub.find(string(store.ChangeSelection))
	assert.False(t, ok)
	_, ok = pub.find(string(store.ChangeSidebarToggled))
	assert.False(t, ok)
}

func TestChangePublisher_AttachesActivity(t *testing.T) {
	state, gauge := newObservedState()
	pub := &recordingPublisher{}
	stop := startPublisher(t, state, gauge, pub)
	defer stop()

	activity, err := state.AddActivity(treasury.ActivityInput{
		Type:        treasury.ActivityStatementProcessed,
		Title:       "Statement Processed",
		Description: "Chase statement imported",
		UserID:      "1",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok := pub.find(string(store.ChangeActivityAdded))
		return ok
	}, time.Second, 5*time.Millisecond)

	event, _ := pub.find(string(store.ChangeActivityAdded))
	assert.Equal(t, activity.ID, event.key)
	assert.Equal(t, activity, event.event.Data)
}

func TestChangePublisher_RunStopsOnCancel(t *testing.T) {
	state := store.New(fixtures.Seed())
	cp, err := NewChangePublisher(state, &recordingPublisher{}, 1, 4, newTestLogger())
	require.NoError(t, err)
	defer cp.Shutdown(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cp.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPublishable(t *testing.T) {
	assert.True(t, Publishable(store.ChangePaymentCreated))
	assert.True(t, Publishable(store.ChangeCollectionReplaced))
	assert.False(t, Publishable(store.ChangeSelection))
	assert.False(t, Publishable(store.ChangeSidebarToggled))
}

func TestEventKey(t *testing.T) {
	assert.Equal(t, "PAY-1", eventKey(store.Change{Kind: store.ChangePaymentCreated, Collection: treasury.CollectionPayments, EntityID: "PAY-1"}))
	assert.Equal(t, "fx_exposures", eventKey(store.Change{Kind: store.ChangeCollectionReplaced, Collection: treasury.CollectionFXExposures}))
	assert.Equal(t, "sidebar_toggled", eventKey(store.Change{Kind: store.ChangeSidebarToggled}))
}
