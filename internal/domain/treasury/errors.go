package treasury

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotFound matches every not-found error of this package via errors.Is
	ErrNotFound = errors.New("not found")
	// ErrValidation matches every input validation error via errors.Is
	ErrValidation = errors.New("validation failed")
)

// ErrPaymentNotFound indicates a missing payment
type ErrPaymentNotFound struct {
	PaymentID string
}

func (e ErrPaymentNotFound) Error() string {
	return "payment not found: " + e.PaymentID
}

func (e ErrPaymentNotFound) Is(target error) bool {
	return target == ErrNotFound
}

// ErrAccountNotFound indicates a missing bank account
type ErrAccountNotFound struct {
	AccountID string
}

func (e ErrAccountNotFound) Error() string {
	return "bank account not found: " + e.AccountID
}

func (e ErrAccountNotFound) Is(target error) bool {
	return target == ErrNotFound
}

// ErrUserNotFound indicates a missing user, looked up by id or email
type ErrUserNotFound struct {
	Key string
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.Key
}

func (e ErrUserNotFound) Is(target error) bool {
	return target == ErrNotFound
}

// ErrScenarioNotFound indicates a missing forecast scenario
type ErrScenarioNotFound struct {
	ScenarioID string
}

func (e ErrScenarioNotFound) Error() string {
	return "forecast scenario not found: " + e.ScenarioID
}

func (e ErrScenarioNotFound) Is(target error) bool {
	return target == ErrNotFound
}

// ErrInvalidTransition indicates a payment status change rejected by the transition policy
type ErrInvalidTransition struct {
	PaymentID string
	From      PaymentStatus
	To        PaymentStatus
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("payment %s cannot move from %s to %s", e.PaymentID, e.From, e.To)
}

// ErrUnknownCollection indicates a replace against a collection name the store does not hold,
// or items of the wrong record type
type ErrUnknownCollection struct {
	Name string
}

func (e ErrUnknownCollection) Error() string {
	return "unknown collection or item type: " + e.Name
}

// ErrDuplicateEmail indicates a user email uniqueness violation
type ErrDuplicateEmail struct {
	Email string
}

func (e ErrDuplicateEmail) Error() string {
	return "user with email already exists: " + e.Email
}

// ValidationError describes one invalid input field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e ValidationError) Is(target error) bool {
	return target == ErrValidation
}
