package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/repo"
)

// NewReservation is the caller's input for one experience booking inside a
// group submission. The price is deliberately absent: it is snapshotted from
// the experience at creation time, never supplied by the caller.
type NewReservation struct {
	ExperienceID uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	MembersCount int
}

// NewMember is the caller's input for one participant. A member may be
// attached to one reservation so that removing the reservation also
// soft-deactivates the member.
//
// ReservationIndex attaches by position into the same submission's
// reservations and is only valid in CreateGroup, where the reservations do
// not exist yet. ReservationID attaches to an already-persisted reservation
// and is only valid in RegisterMembers. Both nil means unattached.
type NewMember struct {
	Name             string
	Document         *string
	Phone            *string
	BirthDate        *time.Time
	ReservationIndex *int
	ReservationID    *uuid.UUID
}

// GroupService implements the reservation-group aggregate operations.
// Workflow transitions on existing groups go through the embedded
// WorkflowService so they share the ledger + dispatch path.
type GroupService struct {
	store    Store
	workflow *WorkflowService
}

// NewGroupService constructs a GroupService backed by the provided store and
// workflow engine.
func NewGroupService(store Store, workflow *WorkflowService) *GroupService {
	return &GroupService{store: store, workflow: workflow}
}

// CreateGroup is the only path that produces a reservation group. In one
// transaction it creates the group, its members, its reservations (each
// snapshotting the experience price at this instant), and the seed CREATED
// event — so the status projector's non-empty-history invariant holds for
// every group that ever existed.
//
// The operation is all-or-nothing: if any referenced experience is missing
// or inactive, nothing is created and domain.ErrValidation is returned.
func (s *GroupService) CreateGroup(ctx context.Context, userID uuid.UUID, notes string, reservations []NewReservation, members []NewMember) (domain.ReservationGroup, error) {
	if err := validateNewReservations(reservations); err != nil {
		return domain.ReservationGroup{}, err
	}
	if err := validateNewMembers(members); err != nil {
		return domain.ReservationGroup{}, err
	}
	for _, m := range members {
		if m.ReservationID != nil {
			return domain.ReservationGroup{}, fmt.Errorf("%w: reservation_id is not valid at group creation, use reservation_index", domain.ErrValidation)
		}
		if m.ReservationIndex != nil && (*m.ReservationIndex < 0 || *m.ReservationIndex >= len(reservations)) {
			return domain.ReservationGroup{}, fmt.Errorf("%w: reservation_index %d is out of range", domain.ErrValidation, *m.ReservationIndex)
		}
	}

	var group domain.ReservationGroup
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Users.GetByID(ctx, userID); err != nil {
			return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
		}

		ids := distinctExperienceIDs(reservations)
		active, err := r.Experiences.FindActiveByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
		}
		for _, id := range ids {
			if _, ok := active[id]; !ok {
				return fmt.Errorf("service.GroupService.CreateGroup: %w: experience %s not active", domain.ErrValidation, id)
			}
		}

		group, err = r.Groups.Create(ctx, domain.ReservationGroup{UserID: userID, Notes: notes})
		if err != nil {
			return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
		}

		for _, res := range reservations {
			created, err := r.Reservations.Create(ctx, domain.Reservation{
				GroupID:      group.ID,
				ExperienceID: res.ExperienceID,
				StartDate:    res.StartDate,
				EndDate:      res.EndDate,
				PriceCents:   active[res.ExperienceID].PriceCents,
				MembersCount: res.MembersCount,
			})
			if err != nil {
				return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
			}
			group.Reservations = append(group.Reservations, created)
		}

		for _, m := range members {
			// Resolve the positional attachment now that the reservations
			// have IDs.
			var reservationID *uuid.UUID
			if m.ReservationIndex != nil {
				reservationID = &group.Reservations[*m.ReservationIndex].ID
			}

			created, err := r.Members.Create(ctx, domain.Member{
				GroupID:       group.ID,
				ReservationID: reservationID,
				Name:          m.Name,
				Document:      m.Document,
				Phone:         m.Phone,
				BirthDate:     m.BirthDate,
			})
			if err != nil {
				return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
			}
			group.Members = append(group.Members, created)
		}

		seed, err := r.Events.Append(ctx, domain.Event{
			Subject:   domain.GroupRef(group.ID),
			Type:      domain.EventCreated,
			CreatedBy: userID,
		})
		if err != nil {
			return fmt.Errorf("service.GroupService.CreateGroup: %w", err)
		}
		group.Events = append(group.Events, seed)

		return nil
	})
	if err != nil {
		return domain.ReservationGroup{}, err
	}
	return group, nil
}

// CancelGroup is a convenience wrapper that appends CANCELED_REQUESTED to the
// group's ledger through the workflow engine. This is the single cancellation
// entry point; the actual CANCELED transition is an admin action.
func (s *GroupService) CancelGroup(ctx context.Context, groupID, actorID uuid.UUID) (domain.Event, error) {
	return s.workflow.AppendGroupEvent(ctx, groupID, domain.EventCancelRequested, actorID, "", nil)
}

// RegisterMembers adds participants to an existing group. Members carrying a
// ReservationID are attached to that reservation, which must belong to the
// group. Returns domain.ErrNotFound if the group or a referenced reservation
// does not exist.
func (s *GroupService) RegisterMembers(ctx context.Context, groupID uuid.UUID, members []NewMember) ([]domain.Member, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("service.GroupService.RegisterMembers: %w: at least one member is required", domain.ErrValidation)
	}
	if err := validateNewMembers(members); err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.ReservationIndex != nil {
			return nil, fmt.Errorf("%w: reservation_index is only valid at group creation, use reservation_id", domain.ErrValidation)
		}
	}

	var created []domain.Member
	err := s.store.InTx(ctx, func(r repo.Repos) error {
		if _, err := r.Groups.GetByID(ctx, groupID); err != nil {
			return fmt.Errorf("service.GroupService.RegisterMembers: %w", err)
		}
		for _, m := range members {
			if m.ReservationID != nil {
				// The group-scoped lookup doubles as the ownership check.
				if _, err := r.Reservations.GetByID(ctx, groupID, *m.ReservationID); err != nil {
					return fmt.Errorf("service.GroupService.RegisterMembers: %w", err)
				}
			}
			member, err := r.Members.Create(ctx, domain.Member{
				GroupID:       groupID,
				ReservationID: m.ReservationID,
				Name:          m.Name,
				Document:      m.Document,
				Phone:         m.Phone,
				BirthDate:     m.BirthDate,
			})
			if err != nil {
				return fmt.Errorf("service.GroupService.RegisterMembers: %w", err)
			}
			created = append(created, member)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveReservation soft-removes one reservation from a group and
// soft-deactivates its attached members (document nulled, active=false).
// Nothing is hard-deleted. No workflow event is appended: removing a single
// reservation is an aggregate edit, not a group lifecycle transition.
func (s *GroupService) RemoveReservation(ctx context.Context, groupID, reservationID uuid.UUID) error {
	return s.store.InTx(ctx, func(r repo.Repos) error {
		res, err := r.Reservations.GetByID(ctx, groupID, reservationID)
		if err != nil {
			return fmt.Errorf("service.GroupService.RemoveReservation: %w", err)
		}
		if err := r.Reservations.Deactivate(ctx, groupID, res.ID); err != nil {
			return fmt.Errorf("service.GroupService.RemoveReservation: %w", err)
		}
		if err := r.Members.DeactivateByReservation(ctx, res.ID); err != nil {
			return fmt.Errorf("service.GroupService.RemoveReservation: %w", err)
		}
		return nil
	})
}

// GetGroup returns the fully hydrated group: record, reservations, members,
// and event history.
func (s *GroupService) GetGroup(ctx context.Context, groupID uuid.UUID) (domain.ReservationGroup, error) {
	r := s.store.Repos()

	group, err := r.Groups.GetByID(ctx, groupID)
	if err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("service.GroupService.GetGroup: %w", err)
	}
	if group.Reservations, err = r.Reservations.ListByGroupID(ctx, groupID); err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("service.GroupService.GetGroup: %w", err)
	}
	if group.Members, err = r.Members.ListByGroupID(ctx, groupID); err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("service.GroupService.GetGroup: %w", err)
	}
	if group.Events, err = r.Events.History(ctx, domain.GroupRef(groupID)); err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("service.GroupService.GetGroup: %w", err)
	}

	return group, nil
}

// validateNewReservations enforces the input rules for reservation creation.
//   - At least one reservation per submission.
//   - MembersCount must be positive.
//   - EndDate must not be before StartDate.
func validateNewReservations(reservations []NewReservation) error {
	if len(reservations) == 0 {
		return fmt.Errorf("%w: at least one reservation is required", domain.ErrValidation)
	}
	for _, res := range reservations {
		if res.MembersCount <= 0 {
			return fmt.Errorf("%w: members_count must be positive", domain.ErrValidation)
		}
		if res.EndDate.Before(res.StartDate) {
			return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
		}
	}
	return nil
}

// validateNewMembers rejects members with blank names.
func validateNewMembers(members []NewMember) error {
	for _, m := range members {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w: member name is required", domain.ErrValidation)
		}
	}
	return nil
}

// distinctExperienceIDs returns the unique experience IDs referenced by the
// submission, preserving first-seen order.
func distinctExperienceIDs(reservations []NewReservation) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(reservations))
	var ids []uuid.UUID
	for _, res := range reservations {
		if _, ok := seen[res.ExperienceID]; ok {
			continue
		}
		seen[res.ExperienceID] = struct{}{}
		ids = append(ids, res.ExperienceID)
	}
	return ids
}
