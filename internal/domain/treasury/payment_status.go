package treasury

// PaymentStatus is a state of the payment lifecycle:
//
//	draft -> pending_approval -> approved -> sent
//	any non-terminal state    -> blocked
//
// sent and blocked are terminal.
type PaymentStatus string

const (
	PaymentStatusDraft           PaymentStatus = "draft"
	PaymentStatusPendingApproval PaymentStatus = "pending_approval"
	PaymentStatusApproved        PaymentStatus = "approved"
	PaymentStatusSent            PaymentStatus = "sent"
	PaymentStatusBlocked         PaymentStatus = "blocked"
)

// PaymentStatuses lists every status in lifecycle order
var PaymentStatuses = []PaymentStatus{
	PaymentStatusDraft,
	PaymentStatusPendingApproval,
	PaymentStatusApproved,
	PaymentStatusSent,
	PaymentStatusBlocked,
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusDraft:           {PaymentStatusPendingApproval, PaymentStatusBlocked},
	PaymentStatusPendingApproval: {PaymentStatusApproved, PaymentStatusBlocked},
	PaymentStatusApproved:        {PaymentStatusSent, PaymentStatusBlocked},
}

// Valid reports whether s is a known status
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusDraft, PaymentStatusPendingApproval, PaymentStatusApproved, PaymentStatusSent, PaymentStatusBlocked:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSent || s == PaymentStatusBlocked
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionPolicy decides whether a requested status change is applied
type TransitionPolicy string

const (
	// TransitionPolicyStrict applies only transitions of the lifecycle table
	TransitionPolicyStrict TransitionPolicy = "strict"
	// TransitionPolicyPermissive applies any transition to a known status
	TransitionPolicyPermissive TransitionPolicy = "permissive"
)

// Check returns ErrInvalidTransition when the policy rejects moving a payment from one status to another
func (p TransitionPolicy) Check(paymentID string, from, to PaymentStatus) error {
	if !to.Valid() {
		return ErrInvalidTransition{PaymentID: paymentID, From: from, To: to}
	}
	if p == TransitionPolicyPermissive {
		return nil
	}
	if !from.CanTransitionTo(to) {
		return ErrInvalidTransition{PaymentID: paymentID, From: from, To: to}
	}
	return nil
}
