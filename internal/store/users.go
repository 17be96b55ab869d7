package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// CreateUser adds a user. Emails are unique regardless of case.
func (s *TreasuryState) CreateUser(ctx context.Context, in treasury.UserInput) (treasury.TreasuryUser, error) {
	if err := ctx.Err(); err != nil {
		return treasury.TreasuryUser{}, err
	}
	if err := in.Validate(); err != nil {
		s.metrics.ObserveOperation("create_user", err)
		return treasury.TreasuryUser{}, err
	}

	status := in.Status
	if status == "" {
		status = treasury.RecordStatusPending
	}
	avatar := in.Avatar
	if avatar == "" {
		avatar = treasury.Initials(in.Name)
	}
	email := strings.TrimSpace(in.Email)

	var created treasury.TreasuryUser
	err := s.mutate("create_user", func(time.Time) (Change, error) {
		if s.userIndexByEmail(email) >= 0 {
			return Change{}, treasury.ErrDuplicateEmail{Email: email}
		}
		user := treasury.TreasuryUser{
			ID:     uuid.NewString(),
			Name:   strings.TrimSpace(in.Name),
			Email:  email,
			Role:   in.Role,
			Status: status,
			Avatar: avatar,
		}
		s.data.Users = append(s.data.Users, user)
		created = user
		return Change{Kind: ChangeUserCreated, Collection: treasury.CollectionUsers, EntityID: user.ID}, nil
	})
	if err != nil {
		return treasury.TreasuryUser{}, err
	}
	return created, nil
}

// GetUser returns a copy of the user with the given id
func (s *TreasuryState) GetUser(id string) (treasury.TreasuryUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.data.Users {
		if user.ID == id {
			return user.Clone(), nil
		}
	}
	return treasury.TreasuryUser{}, treasury.ErrUserNotFound{Key: id}
}

// GetUserByEmail returns a copy of the user with the given email, compared without case
func (s *TreasuryState) GetUserByEmail(email string) (treasury.TreasuryUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.userIndexByEmail(strings.TrimSpace(email))
	if i < 0 {
		return treasury.TreasuryUser{}, treasury.ErrUserNotFound{Key: email}
	}
	return s.data.Users[i].Clone(), nil
}

func (s *TreasuryState) userIndexByEmail(email string) int {
	for i := range s.data.Users {
		if strings.EqualFold(s.data.Users[i].Email, email) {
			return i
		}
	}
	return -1
}
