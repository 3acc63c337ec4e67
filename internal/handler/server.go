// Package handler implements the HTTP layer of the booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, group.go, professor.go) but all share the same Server
// struct so they can access its dependencies. Handlers only decode requests,
// call a service, and encode responses — no business rules live here.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/service"
)

// GroupServicer defines the aggregate operations the group handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type GroupServicer interface {
	CreateGroup(ctx context.Context, userID uuid.UUID, notes string, reservations []service.NewReservation, members []service.NewMember) (domain.ReservationGroup, error)
	CancelGroup(ctx context.Context, groupID, actorID uuid.UUID) (domain.Event, error)
	RegisterMembers(ctx context.Context, groupID uuid.UUID, members []service.NewMember) ([]domain.Member, error)
	RemoveReservation(ctx context.Context, groupID, reservationID uuid.UUID) error
	GetGroup(ctx context.Context, groupID uuid.UUID) (domain.ReservationGroup, error)
}

// WorkflowServicer defines the workflow-engine operations the handlers depend on.
type WorkflowServicer interface {
	AppendGroupEvent(ctx context.Context, groupID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, description string, fileURL *string) (domain.Event, error)
	AppendProfessorEvent(ctx context.Context, professorID uuid.UUID, eventType domain.EventType, actorID uuid.UUID, fileURL *string, description string) (domain.Event, error)
	GetGroupStatus(ctx context.Context, groupID uuid.UUID) (domain.SubjectStatus, error)
	GetProfessorStatus(ctx context.Context, professorID uuid.UUID) (domain.SubjectStatus, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	groups    GroupServicer
	workflows WorkflowServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(groups GroupServicer, workflows WorkflowServicer) *Server {
	return &Server{groups: groups, workflows: workflows}
}

// Register mounts all routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.getHealth)

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", s.createGroup)
		r.Route("/{groupID}", func(r chi.Router) {
			r.Get("/", s.getGroup)
			r.Get("/status", s.getGroupStatus)
			r.Post("/events", s.appendGroupEvent)
			r.Post("/cancel", s.cancelGroup)
			r.Post("/members", s.registerMembers)
			r.Delete("/reservations/{reservationID}", s.removeReservation)
		})
	})

	r.Route("/professors/{professorID}", func(r chi.Router) {
		r.Get("/status", s.getProfessorStatus)
		r.Post("/events", s.appendProfessorEvent)
	})
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// pathID parses the named chi URL parameter as a UUID.
func pathID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
