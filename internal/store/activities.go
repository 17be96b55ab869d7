package store

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// AddActivity assigns a fresh id, prepends the entry and trims the log to its bound
func (s *TreasuryState) AddActivity(in treasury.ActivityInput) (treasury.Activity, error) {
	if err := in.Validate(); err != nil {
		s.metrics.ObserveOperation("add_activity", err)
		return treasury.Activity{}, err
	}

	var added treasury.Activity
	err := s.mutate("add_activity", func(now time.Time) (Change, error) {
		added = s.prependActivity(in, now)
		return Change{Kind: ChangeActivityAdded, Collection: treasury.CollectionActivities, EntityID: added.ID}, nil
	})
	if err != nil {
		return treasury.Activity{}, err
	}
	return added, nil
}

// Activities returns the log, newest first
func (s *TreasuryState) Activities() []treasury.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Activities)
}

// prependActivity must be called with mu held for writing
func (s *TreasuryState) prependActivity(in treasury.ActivityInput, now time.Time) treasury.Activity {
	timestamp := in.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}
	activity := treasury.Activity{
		ID:          "activity-" + uuid.NewString(),
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Timestamp:   timestamp,
		UserID:      in.UserID,
		Icon:        in.Icon,
		IconColor:   in.IconColor,
	}

	entries := append([]treasury.Activity{activity}, s.data.Activities...)
	s.data.Activities = truncateActivities(entries, s.activityLimit)
	return activity
}

func truncateActivities(activities []treasury.Activity, limit int) []treasury.Activity {
	if len(activities) <= limit {
		return activities
	}
	return activities[:limit:limit]
}
