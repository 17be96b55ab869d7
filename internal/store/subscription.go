package store

import (
	"errors"
	"time"

	"github.com/treasury-dashboard/internal/domain/treasury"
)

// ErrSubscriberLagged is reported by a subscription dropped because its buffer was full
var ErrSubscriberLagged = errors.New("subscriber dropped: change buffer full")

// ChangeKind names the operation that produced a change
type ChangeKind string

const (
	ChangeCollectionReplaced ChangeKind = "collection_replaced"
	ChangeSelection          ChangeKind = "selection_changed"
	ChangeSidebarToggled     ChangeKind = "sidebar_toggled"
	ChangePaymentCreated     ChangeKind = "payment_created"
	ChangePaymentStatus      ChangeKind = "payment_status_changed"
	ChangeBalanceUpdated     ChangeKind = "balance_updated"
	ChangeActivityAdded      ChangeKind = "activity_added"
	ChangeScenarioCreated    ChangeKind = "scenario_created"
	ChangeUserCreated        ChangeKind = "user_created"
)

// Change describes one committed mutation
type Change struct {
	Version    uint64              `json:"version"`
	Kind       ChangeKind          `json:"kind"`
	Collection treasury.Collection `json:"collection,omitempty"`
	EntityID   string              `json:"entity_id,omitempty"`
	At         time.Time           `json:"at"`
}

// Subscription delivers changes committed after it was created.
// C is closed when the subscription is closed or dropped.
type Subscription struct {
	C <-chan Change

	id    uint64
	ch    chan Change
	store *TreasuryState
	err   error
}

// Subscribe registers a subscriber with the given channel buffer. A subscriber that
// falls a full buffer behind is dropped rather than blocking the store.
func (s *TreasuryState) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.nextSubID++
	sub := &Subscription{C: ch, id: s.nextSubID, ch: ch, store: s}
	s.subs[sub.id] = sub
	s.metrics.SetSubscribers(len(s.subs))
	return sub
}

// Close unregisters the subscription and closes C. It is safe to call more than once.
func (sub *Subscription) Close() {
	s := sub.store
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	if _, ok := s.subs[sub.id]; !ok {
		return
	}
	delete(s.subs, sub.id)
	close(sub.ch)
	s.metrics.SetSubscribers(len(s.subs))
}

// Err returns ErrSubscriberLagged once the store has dropped the subscription
func (sub *Subscription) Err() error {
	sub.store.subsMu.Lock()
	defer sub.store.subsMu.Unlock()
	return sub.err
}

// broadcast must be called with subsMu held
func (s *TreasuryState) broadcast(change Change) {
	dropped := false
	for id, sub := range s.subs {
		select {
		case sub.ch <- change:
		default:
			sub.err = ErrSubscriberLagged
			close(sub.ch)
			delete(s.subs, id)
			dropped = true
			s.logger.Warn("Dropped lagging subscriber", "subscriber_id", id, "version", change.Version)
		}
	}
	if dropped {
		s.metrics.SetSubscribers(len(s.subs))
	}
}
