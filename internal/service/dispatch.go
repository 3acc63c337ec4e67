package service

import (
	"context"
	"fmt"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/repo"
	"github.com/serraviva/backend/internal/workflow"
)

// dispatchGroup runs the side effects of a freshly appended group event.
// history is the ledger as it was before the append; appended is the new row.
// Any error rolls back the surrounding transaction, discarding the event too.
//
// This is the only code path that creates PAYMENT receipts or deactivates a
// group.
func (s *WorkflowService) dispatchGroup(ctx context.Context, r repo.Repos, group domain.ReservationGroup, history []domain.Event, appended domain.Event) error {
	switch {
	case appended.Type == domain.EventPaymentApproved:
		return s.approvePayment(ctx, r, group, history, appended)

	case workflow.Inactivates(appended.Type):
		// CANCELED and PAYMENT_REJECTED make the group inactive.
		if err := r.Groups.SetActive(ctx, group.ID, false); err != nil {
			return fmt.Errorf("service.WorkflowService.dispatchGroup: %w", err)
		}
		return nil

	default:
		// All other types are pure ledger appends.
		return nil
	}
}

// approvePayment requires the immediately-preceding event to be a payment
// submission carrying a file URL, then issues the PAYMENT receipt, links it
// to the group, and notifies the owner best-effort.
func (s *WorkflowService) approvePayment(ctx context.Context, r repo.Repos, group domain.ReservationGroup, history []domain.Event, appended domain.Event) error {
	prev := latest(history)
	if prev == nil || prev.Type != domain.EventPaymentSent || prev.FileURL == nil {
		return fmt.Errorf("service.WorkflowService.approvePayment: %w: no pending payment submission", domain.ErrValidation)
	}

	total, err := r.Reservations.SumActivePriceCents(ctx, group.ID)
	if err != nil {
		return fmt.Errorf("service.WorkflowService.approvePayment: %w", err)
	}

	receipt, err := r.Receipts.Create(ctx, domain.Receipt{
		Type:       domain.ReceiptPayment,
		URL:        *prev.FileURL,
		ValueCents: &total,
		Status:     domain.ReceiptIssued,
		UserID:     group.UserID,
	})
	if err != nil {
		return fmt.Errorf("service.WorkflowService.approvePayment: %w", err)
	}

	if err := r.Groups.LinkReceipt(ctx, group.ID, receipt.ID); err != nil {
		return fmt.Errorf("service.WorkflowService.approvePayment: %w", err)
	}

	s.notifyStatusChange(ctx, r, group, appended)
	return nil
}

// dispatchProfessor runs the side effects of a freshly appended professor
// event. Approval and rejection both require a pending document submission;
// only approval flips the verified flag and issues a DOCENCY receipt.
func (s *WorkflowService) dispatchProfessor(ctx context.Context, r repo.Repos, professor domain.User, history []domain.Event, appended domain.Event) error {
	if appended.Type != domain.EventDocumentApproved && appended.Type != domain.EventDocumentRejected {
		return nil
	}

	prev := latest(history)
	if prev == nil || prev.Type != domain.EventDocumentRequested || prev.FileURL == nil {
		return fmt.Errorf("service.WorkflowService.dispatchProfessor: %w: no pending document submission", domain.ErrValidation)
	}

	if appended.Type != domain.EventDocumentApproved {
		return nil
	}

	if err := r.Users.SetVerified(ctx, professor.ID, true); err != nil {
		return fmt.Errorf("service.WorkflowService.dispatchProfessor: %w", err)
	}

	if _, err := r.Receipts.Create(ctx, domain.Receipt{
		Type:   domain.ReceiptDocency,
		URL:    *prev.FileURL,
		Status: domain.ReceiptIssued,
		UserID: professor.ID,
	}); err != nil {
		return fmt.Errorf("service.WorkflowService.dispatchProfessor: %w", err)
	}

	return nil
}

// notifyStatusChange emails the group owner about the new status.
// Failures are logged and swallowed: notification is the one intentionally
// lossy step and must never roll back the transaction.
func (s *WorkflowService) notifyStatusChange(ctx context.Context, r repo.Repos, group domain.ReservationGroup, appended domain.Event) {
	owner, err := r.Users.GetByID(ctx, group.UserID)
	if err != nil {
		s.log.WarnContext(ctx, "status notification skipped: owner lookup failed",
			"group_id", group.ID, "error", err)
		return
	}
	if owner.Email == nil {
		s.log.DebugContext(ctx, "status notification skipped: no email on file",
			"group_id", group.ID, "user_id", owner.ID)
		return
	}

	err = s.mailer.Send(ctx, *owner.Email, "Reservation status changed", "reservation-status-changed", map[string]string{
		"group_id": group.ID.String(),
		"status":   string(appended.Type),
	})
	if err != nil {
		s.log.WarnContext(ctx, "status notification failed",
			"group_id", group.ID, "user_id", owner.ID, "error", err)
	}
}

// latest returns the last event of an ascending history, or nil when empty.
func latest(history []domain.Event) *domain.Event {
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}
