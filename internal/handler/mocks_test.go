package handler_test

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/handler"
	"github.com/serraviva/backend/internal/service"
)

// mockGroupService is a hand-written test double for handler.GroupServicer.
type mockGroupService struct {
	createGroup       func(ctx context.Context, userID uuid.UUID, notes string, reservations []service.NewReservation, members []service.NewMember) (domain.ReservationGroup, error)
	cancelGroup       func(ctx context.Context, groupID, actorID uuid.UUID) (domain.Event, error)
	registerMembers   func(ctx context.Context, groupID uuid.UUID, members []service.NewMember) ([]domain.Member, error)
	removeReservation func(ctx context.Context, groupID, reservationID uuid.UUID) error
	getGroup          func(ctx context.Context, groupID uuid.UUID) (domain.ReservationGroup, error)
}

func (m *mockGroupService) CreateGroup(ctx context.Context, userID uuid.UUID, notes string, reservations []service.NewReservation, members []service.NewMember) (domain.ReservationGroup, error) {
	return m.createGroup(ctx, userID, notes, reservations, members)
}

func (m *mockGroupService) CancelGroup(ctx context.Context, groupID, actorID uuid.UUID) (domain.Event, error) {
	return m.cancelGroup(ctx, groupID, actorID)
}

func (m *mockGroupService) RegisterMembers(ctx context.Context, groupID uuid.UUID, members []service.NewMember) ([]domain.Member, error) {
	return m.registerMembers(ctx, groupID, members)
}

func (m *mockGroupService) RemoveReservation(ctx context.Context, groupID, reservationID uuid.UUID) error {
	return m.removeReservation(ctx, groupID, reservationID)
}

func (m *mockGroupService) GetGroup(ctx context.Context, groupID uuid.UUID) (domain.ReservationGroup, error) {
	return m.getGroup(ctx, groupID)
}

var _ handler.GroupServicer = (*mockGroupService)(nil)

// mockWorkflowService is a hand-written test double for handler.WorkflowServicer.
type mockWorkflowService struct {
	appendGroupEvent     func(ctx context.Context, groupID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, description string, fileURL *string) (domain.Event, error)
	appendProfessorEvent func(ctx context.Context, professorID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, fileURL *string, description string) (domain.Event, error)
	getGroupStatus       func(ctx context.Context, groupID uuid.UUID) (domain.SubjectStatus, error)
	getProfessorStatus   func(ctx context.Context, professorID uuid.UUID) (domain.SubjectStatus, error)
}

func (m *mockWorkflowService) AppendGroupEvent(ctx context.Context, groupID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, description string, fileURL *string) (domain.Event, error) {
	return m.appendGroupEvent(ctx, groupID, eventType, actorID, description, fileURL)
}

func (m *mockWorkflowService) AppendProfessorEvent(ctx context.Context, professorID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, fileURL *string, description string) (domain.Event, error) {
	return m.appendProfessorEvent(ctx, professorID, eventType, actorID, fileURL, description)
}

func (m *mockWorkflowService) GetGroupStatus(ctx context.Context, groupID uuid.UUID) (domain.SubjectStatus, error) {
	return m.getGroupStatus(ctx, groupID)
}

func (m *mockWorkflowService) GetProfessorStatus(ctx context.Context, professorID uuid.UUID) (domain.SubjectStatus, error) {
	return m.getProfessorStatus(ctx, professorID)
}

var _ handler.WorkflowServicer = (*mockWorkflowService)(nil)

// newRouter mounts a Server wired to the given mocks on a fresh chi router.
func newRouter(groups *mockGroupService, workflows *mockWorkflowService) chi.Router {
	r := chi.NewRouter()
	handler.NewServer(groups, workflows).Register(r)
	return r
}
