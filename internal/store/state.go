package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// Snapshot is a deep copy of the store at one version
type Snapshot struct {
	Version uint64 `json:"version"`
	treasury.Seed
	SelectedAccount  *treasury.BankAccount `json:"selected_account"`
	SelectedPayment  *treasury.Payment     `json:"selected_payment"`
	SidebarCollapsed bool                  `json:"sidebar_collapsed"`
}

// TreasuryState is the in-memory, observable store of treasury records and UI selection.
// Every mutation is a single atomic transition; subscribers are notified in commit order.
type TreasuryState struct {
	mu      sync.RWMutex
	data    treasury.Seed
	version uint64

	selectedAccountID string
	selectedPaymentID string
	sidebarCollapsed  bool

	// subsMu is taken before mu is released so broadcasts follow commit order
	subsMu    sync.Mutex
	subs      map[uint64]*Subscription
	nextSubID uint64

	holdAmount    decimal.Decimal
	activityLimit int
	approver      string
	actorUserID   string
	policy        treasury.TransitionPolicy
	now           func() time.Time
	metrics       Recorder
	logger        *slog.Logger
}

// New creates a store seeded with a copy of seed
func New(seed treasury.Seed, opts ...Option) *TreasuryState {
	s := &TreasuryState{
		subs:          make(map[uint64]*Subscription),
		holdAmount:    defaultHoldAmount(),
		activityLimit: DefaultActivityLimit,
		approver:      DefaultApprover,
		actorUserID:   DefaultActorUserID,
		policy:        treasury.TransitionPolicyStrict,
		now:           time.Now,
		metrics:       nopRecorder{},
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.data = seed.Clone()
	s.data.Activities = truncateActivities(s.data.Activities, s.activityLimit)
	s.metrics.SetActivityLogSize(len(s.data.Activities))
	return s
}

// Load builds a store from a seed loader
func Load(ctx context.Context, loader treasury.SeedLoader, opts ...Option) (*TreasuryState, error) {
	seed, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(*seed, opts...), nil
}

// Version returns the number of committed mutations
func (s *TreasuryState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Policy returns the transition policy payments are checked against
func (s *TreasuryState) Policy() treasury.TransitionPolicy {
	return s.policy
}

// Snapshot returns a deep copy of every collection and the selection state.
// Selections are resolved against the current collections and are nil once their record is gone.
func (s *TreasuryState) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Version:          s.version,
		Seed:             s.data.Clone(),
		SidebarCollapsed: s.sidebarCollapsed,
	}
	if i := s.accountIndex(s.selectedAccountID); i >= 0 {
		account := s.data.BankAccounts[i]
		snap.SelectedAccount = &account
	}
	if i := s.paymentIndex(s.selectedPaymentID); i >= 0 {
		payment := s.data.Payments[i].Clone()
		snap.SelectedPayment = &payment
	}
	return snap
}

// mutate runs fn as one atomic transition. On success the version advances and the
// returned change is broadcast before any later transition is broadcast.
func (s *TreasuryState) mutate(op string, fn func(now time.Time) (Change, error)) error {
	s.mu.Lock()
	now := s.now()
	change, err := fn(now)
	if err != nil {
		s.mu.Unlock()
		s.metrics.ObserveOperation(op, err)
		return err
	}
	s.version++
	change.Version = s.version
	change.At = now
	activities := len(s.data.Activities)

	s.subsMu.Lock()
	s.mu.Unlock()
	s.broadcast(change)
	s.subsMu.Unlock()

	s.metrics.ObserveOperation(op, nil)
	s.metrics.SetActivityLogSize(activities)
	return nil
}

func (s *TreasuryState) accountIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.data.BankAccounts {
		if s.data.BankAccounts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TreasuryState) paymentIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.data.Payments {
		if s.data.Payments[i].ID == id {
			return i
		}
	}
	return -1
}
