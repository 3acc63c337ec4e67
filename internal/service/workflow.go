// Package service contains the business logic for the booking backend: the
// workflow engine (ledger append, side-effect dispatch, status projection)
// and the reservation-group aggregate operations that drive it.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/mail"
	"github.com/serraviva/backend/internal/repo"
	"github.com/serraviva/backend/internal/workflow"
)

// Store is the transactional boundary the services depend on. *repo.Store
// satisfies it in production; tests inject a fake whose InTx simply calls fn
// with mock repos.
type Store interface {
	// Repos returns a repository set for single-statement reads.
	Repos() repo.Repos

	// InTx runs fn with a repository set bound to one transaction,
	// committing when fn returns nil and rolling back otherwise.
	InTx(ctx context.Context, fn func(r repo.Repos) error) error
}

// WorkflowService is the event workflow engine. Every externally triggered
// transition flows through it: validate vocabulary → append to the ledger →
// dispatch side effects, all inside one transaction.
type WorkflowService struct {
	store  Store
	mailer mail.Mailer
	log    *slog.Logger
}

// NewWorkflowService constructs a WorkflowService.
// Pass slog.Default() as log when no dedicated logger exists.
func NewWorkflowService(store Store, mailer mail.Mailer, log *slog.Logger) *WorkflowService {
	return &WorkflowService{store: store, mailer: mailer, log: log}
}

// AppendGroupEvent appends one event to a reservation group's ledger and runs
// its side effects in the same transaction.
//
// Returns domain.ErrValidation if the type is outside the reservation-group
// vocabulary or a dispatcher precondition fails (nothing is retained in
// either case), domain.ErrNotFound if the group does not exist, and
// domain.ErrConflict if a concurrent transition won the race.
func (s *WorkflowService) AppendGroupEvent(ctx context.Context, groupID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, description string, fileURL *string) (domain.Event, error) {
	subject := domain.GroupRef(groupID)
	if err := workflow.Validate(subject, eventType); err != nil {
		return domain.Event{}, err
	}

	var appended domain.Event
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		group, err := r.Groups.GetByID(ctx, groupID)
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendGroupEvent: %w", err)
		}

		// History is read before the append so the dispatcher sees the
		// immediately-preceding event, not the one being written.
		history, err := r.Events.History(ctx, subject)
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendGroupEvent: %w", err)
		}

		appended, err = r.Events.Append(ctx, domain.Event{
			Subject:     subject,
			Type:        eventType,
			Description: description,
			FileURL:     fileURL,
			CreatedBy:   actorID,
		})
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendGroupEvent: %w", err)
		}

		return s.dispatchGroup(ctx, r, group, history, appended)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return appended, nil
}

// AppendProfessorEvent appends one event to a professor's document ledger and
// runs its side effects in the same transaction. Error semantics match
// AppendGroupEvent.
func (s *WorkflowService) AppendProfessorEvent(ctx context.Context, professorID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, fileURL *string, description string) (domain.Event, error) {
	subject := domain.ProfessorRef(professorID)
	if err := workflow.Validate(subject, eventType); err != nil {
		return domain.Event{}, err
	}

	var appended domain.Event
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		professor, err := r.Users.GetByID(ctx, professorID)
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendProfessorEvent: %w", err)
		}

		history, err := r.Events.History(ctx, subject)
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendProfessorEvent: %w", err)
		}

		appended, err = r.Events.Append(ctx, domain.Event{
			Subject:     subject,
			Type:        eventType,
			Description: description,
			FileURL:     fileURL,
			CreatedBy:   actorID,
		})
		if err != nil {
			return fmt.Errorf("service.WorkflowService.AppendProfessorEvent: %w", err)
		}

		return s.dispatchProfessor(ctx, r, professor, history, appended)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return appended, nil
}

// GetGroupStatus projects a reservation group's current status from its
// ledger: status is the last event's type, created-at is the first event's
// timestamp. Every group carries a seed CREATED event, so an empty history
// means the subject reference is stale and is reported as not found.
func (s *WorkflowService) GetGroupStatus(ctx context.Context, groupID uuid.UUID) (domain.SubjectStatus, error) {
	r := s.store.Repos()
	if _, err := r.Groups.GetByID(ctx, groupID); err != nil {
		return domain.SubjectStatus{}, fmt.Errorf("service.WorkflowService.GetGroupStatus: %w", err)
	}
	return s.project(ctx, r, domain.GroupRef(groupID))
}

// GetProfessorStatus projects a professor's document-verification status the
// same way GetGroupStatus projects a group's.
func (s *WorkflowService) GetProfessorStatus(ctx context.Context, professorID uuid.UUID) (domain.SubjectStatus, error) {
	r := s.store.Repos()
	if _, err := r.Users.GetByID(ctx, professorID); err != nil {
		return domain.SubjectStatus{}, fmt.Errorf("service.WorkflowService.GetProfessorStatus: %w", err)
	}
	return s.project(ctx, r, domain.ProfessorRef(professorID))
}

// project derives the SubjectStatus from the subject's ordered history.
func (s *WorkflowService) project(ctx context.Context, r repo.Repos, subject domain.SubjectRef) (domain.SubjectStatus, error) {
	history, err := r.Events.History(ctx, subject)
	if err != nil {
		return domain.SubjectStatus{}, fmt.Errorf("service.WorkflowService: %w", err)
	}
	if len(history) == 0 {
		return domain.SubjectStatus{}, fmt.Errorf("service.WorkflowService: %w: subject has no events", domain.ErrNotFound)
	}
	return domain.SubjectStatus{
		Status:    history[len(history)-1].Type,
		CreatedAt: history[0].CreatedAt,
		History:   history,
	}, nil
}
