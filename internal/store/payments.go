package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/treasury-dashboard/internal/domain/treasury"
)

// ApprovePayment moves a payment to approved, records the approver, clears its fraud alert
// and logs a payment_approved activity
func (s *TreasuryState) ApprovePayment(ctx context.Context, paymentID string) (treasury.Payment, error) {
	return s.transitionPayment(ctx, "approve_payment", paymentID, treasury.PaymentStatusApproved,
		func(p *treasury.Payment, now time.Time) *treasury.ActivityInput {
			approver := s.approver
			approvedAt := now
			p.ApprovedBy = &approver
			p.ApprovedAt = &approvedAt
			p.FraudAlert = false
			activity := treasury.PaymentApprovedActivity(*p, s.actorUserID, now)
			return &activity
		})
}

// RejectPayment blocks a payment and logs a fraud_alert activity. Fraud fields are left as they are.
func (s *TreasuryState) RejectPayment(ctx context.Context, paymentID string) (treasury.Payment, error) {
	return s.transitionPayment(ctx, "reject_payment", paymentID, treasury.PaymentStatusBlocked,
		func(p *treasury.Payment, now time.Time) *treasury.ActivityInput {
			activity := treasury.PaymentBlockedActivity(*p, s.actorUserID, now)
			return &activity
		})
}

// SubmitPayment sends a draft payment for approval
func (s *TreasuryState) SubmitPayment(ctx context.Context, paymentID string) (treasury.Payment, error) {
	return s.transitionPayment(ctx, "submit_payment", paymentID, treasury.PaymentStatusPendingApproval, nil)
}

// MarkPaymentSent records that an approved payment was released
func (s *TreasuryState) MarkPaymentSent(ctx context.Context, paymentID string) (treasury.Payment, error) {
	return s.transitionPayment(ctx, "send_payment", paymentID, treasury.PaymentStatusSent, nil)
}

// transitionPayment checks the policy, applies the status change and the optional side effects
// returned by apply, all in one transition
func (s *TreasuryState) transitionPayment(
	ctx context.Context,
	op, paymentID string,
	to treasury.PaymentStatus,
	apply func(p *treasury.Payment, now time.Time) *treasury.ActivityInput,
) (treasury.Payment, error) {
	if err := ctx.Err(); err != nil {
		return treasury.Payment{}, err
	}

	var updated treasury.Payment
	err := s.mutate(op, func(now time.Time) (Change, error) {
		i := s.paymentIndex(paymentID)
		if i < 0 {
			return Change{}, treasury.ErrPaymentNotFound{PaymentID: paymentID}
		}
		payment := s.data.Payments[i].Clone()
		if err := s.policy.Check(paymentID, payment.Status, to); err != nil {
			return Change{}, err
		}

		payment.Status = to
		if apply != nil {
			if activity := apply(&payment, now); activity != nil {
				s.prependActivity(*activity, now)
			}
		}
		s.data.Payments[i] = payment
		updated = payment.Clone()
		return Change{Kind: ChangePaymentStatus, Collection: treasury.CollectionPayments, EntityID: paymentID}, nil
	})
	if err != nil {
		return treasury.Payment{}, err
	}

	s.logger.Info("Payment status changed", "payment_id", paymentID, "status", to)
	return updated, nil
}

// CreatePayment adds a draft or pending_approval payment with a generated id
func (s *TreasuryState) CreatePayment(ctx context.Context, in treasury.PaymentInput) (treasury.Payment, error) {
	if err := ctx.Err(); err != nil {
		return treasury.Payment{}, err
	}
	if err := in.Validate(); err != nil {
		s.metrics.ObserveOperation("create_payment", err)
		return treasury.Payment{}, err
	}
	amount, _ := decimal.NewFromString(in.Amount)

	status := in.Status
	if status == "" {
		status = treasury.PaymentStatusDraft
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = s.approver
	}

	var created treasury.Payment
	err := s.mutate("create_payment", func(now time.Time) (Change, error) {
		payment := treasury.Payment{
			ID:                 newPaymentID(),
			BeneficiaryName:    strings.TrimSpace(in.BeneficiaryName),
			BeneficiaryAccount: in.BeneficiaryAccount,
			Amount:             amount,
			Currency:           strings.ToUpper(in.Currency),
			Type:               in.Type,
			Status:             status,
			CreatedBy:          createdBy,
			CreatedAt:          now,
		}
		if in.FraudScore != nil {
			score := *in.FraudScore
			payment.FraudScore = &score
		}
		s.data.Payments = append(s.data.Payments, payment)
		created = payment.Clone()
		return Change{Kind: ChangePaymentCreated, Collection: treasury.CollectionPayments, EntityID: payment.ID}, nil
	})
	if err != nil {
		return treasury.Payment{}, err
	}
	return created, nil
}

// SelectPayment sets the payment shown in detail views. Nil clears the selection.
func (s *TreasuryState) SelectPayment(payment *treasury.Payment) {
	_ = s.mutate("select_payment", func(time.Time) (Change, error) {
		s.selectedPaymentID = ""
		if payment != nil {
			s.selectedPaymentID = payment.ID
		}
		return Change{Kind: ChangeSelection, Collection: treasury.CollectionPayments, EntityID: s.selectedPaymentID}, nil
	})
}

func newPaymentID() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
