package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/service"
)

// --- request bodies ---------------------------------------------------------

type createGroupRequest struct {
	UserID       uuid.UUID            `json:"user_id"`
	Notes        string               `json:"notes,omitempty"`
	Reservations []reservationRequest `json:"reservations"`
	Members      []memberRequest      `json:"members,omitempty"`
}

type reservationRequest struct {
	ExperienceID uuid.UUID          `json:"experience_id"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	MembersCount int                `json:"members_count"`
}

// memberRequest optionally attaches the member to a reservation:
// reservation_index (position in the same request's reservations) at group
// creation, reservation_id (existing reservation) when registering members
// later.
type memberRequest struct {
	Name             string              `json:"name"`
	Document         *string             `json:"document,omitempty"`
	Phone            *string             `json:"phone,omitempty"`
	BirthDate        *openapi_types.Date `json:"birth_date,omitempty"`
	ReservationIndex *int                `json:"reservation_index,omitempty"`
	ReservationID    *uuid.UUID          `json:"reservation_id,omitempty"`
}

type registerMembersRequest struct {
	Members []memberRequest `json:"members"`
}

type cancelGroupRequest struct {
	ActorID uuid.UUID `json:"actor_id"`
}

// --- response bodies --------------------------------------------------------

type groupResponse struct {
	ID           uuid.UUID             `json:"id"`
	UserID       uuid.UUID             `json:"user_id"`
	ReceiptID    *uuid.UUID            `json:"receipt_id,omitempty"`
	Active       bool                  `json:"active"`
	Notes        string                `json:"notes,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Reservations []reservationResponse `json:"reservations"`
	Members      []memberResponse      `json:"members"`
	Events       []eventResponse       `json:"events"`
}

type reservationResponse struct {
	ID           uuid.UUID          `json:"id"`
	ExperienceID uuid.UUID          `json:"experience_id"`
	StartDate    openapi_types.Date `json:"start_date"`
	EndDate      openapi_types.Date `json:"end_date"`
	PriceCents   int64              `json:"price_cents"`
	MembersCount int                `json:"members_count"`
	Active       bool               `json:"active"`
}

type memberResponse struct {
	ID            uuid.UUID           `json:"id"`
	ReservationID *uuid.UUID          `json:"reservation_id,omitempty"`
	Name          string              `json:"name"`
	Document      *string             `json:"document,omitempty"`
	Phone         *string             `json:"phone,omitempty"`
	BirthDate     *openapi_types.Date `json:"birth_date,omitempty"`
	Active        bool                `json:"active"`
}

// --- handlers ---------------------------------------------------------------

// createGroup handles POST /groups.
func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var body createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	group, err := s.groups.CreateGroup(r.Context(), body.UserID, body.Notes,
		reservationsToInput(body.Reservations), membersToInput(body.Members))
	if err != nil {
		writeServiceError(w, err, "user not found")
		return
	}

	writeJSON(w, http.StatusCreated, groupToResponse(group))
}

// getGroup handles GET /groups/{groupID}.
func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}

	group, err := s.groups.GetGroup(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err, "group not found")
		return
	}

	writeJSON(w, http.StatusOK, groupToResponse(group))
}

// getGroupStatus handles GET /groups/{groupID}/status.
func (s *Server) getGroupStatus(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}

	status, err := s.workflows.GetGroupStatus(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err, "group not found")
		return
	}

	writeJSON(w, http.StatusOK, statusToResponse(status))
}

// appendGroupEvent handles POST /groups/{groupID}/events.
func (s *Server) appendGroupEvent(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}

	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	event, err := s.workflows.AppendGroupEvent(r.Context(), groupID,
		domain.EventType(body.Type), body.ActorID, body.Description, body.FileURL)
	if err != nil {
		writeServiceError(w, err, "group not found")
		return
	}

	writeJSON(w, http.StatusCreated, eventToResponse(event))
}

// cancelGroup handles POST /groups/{groupID}/cancel.
func (s *Server) cancelGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}

	var body cancelGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	event, err := s.groups.CancelGroup(r.Context(), groupID, body.ActorID)
	if err != nil {
		writeServiceError(w, err, "group not found")
		return
	}

	writeJSON(w, http.StatusCreated, eventToResponse(event))
}

// registerMembers handles POST /groups/{groupID}/members.
func (s *Server) registerMembers(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}

	var body registerMembersRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	members, err := s.groups.RegisterMembers(r.Context(), groupID, membersToInput(body.Members))
	if err != nil {
		writeServiceError(w, err, "group not found")
		return
	}

	out := make([]memberResponse, len(members))
	for i, m := range members {
		out[i] = memberToResponse(m)
	}
	writeJSON(w, http.StatusCreated, out)
}

// removeReservation handles DELETE /groups/{groupID}/reservations/{reservationID}.
func (s *Server) removeReservation(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		writeRequestError(w, "invalid group id")
		return
	}
	reservationID, err := pathID(r, "reservationID")
	if err != nil {
		writeRequestError(w, "invalid reservation id")
		return
	}

	if err := s.groups.RemoveReservation(r.Context(), groupID, reservationID); err != nil {
		writeServiceError(w, err, "reservation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

func reservationsToInput(reservations []reservationRequest) []service.NewReservation {
	out := make([]service.NewReservation, len(reservations))
	for i, res := range reservations {
		out[i] = service.NewReservation{
			ExperienceID: res.ExperienceID,
			StartDate:    res.StartDate.Time,
			EndDate:      res.EndDate.Time,
			MembersCount: res.MembersCount,
		}
	}
	return out
}

func membersToInput(members []memberRequest) []service.NewMember {
	out := make([]service.NewMember, len(members))
	for i, m := range members {
		out[i] = service.NewMember{
			Name:             m.Name,
			Document:         m.Document,
			Phone:            m.Phone,
			ReservationIndex: m.ReservationIndex,
			ReservationID:    m.ReservationID,
		}
		if m.BirthDate != nil {
			bd := m.BirthDate.Time
			out[i].BirthDate = &bd
		}
	}
	return out
}

func groupToResponse(g domain.ReservationGroup) groupResponse {
	resp := groupResponse{
		ID:           g.ID,
		UserID:       g.UserID,
		ReceiptID:    g.ReceiptID,
		Active:       g.Active,
		Notes:        g.Notes,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
		Reservations: make([]reservationResponse, len(g.Reservations)),
		Members:      make([]memberResponse, len(g.Members)),
		Events:       make([]eventResponse, len(g.Events)),
	}
	for i, res := range g.Reservations {
		resp.Reservations[i] = reservationResponse{
			ID:           res.ID,
			ExperienceID: res.ExperienceID,
			StartDate:    openapi_types.Date{Time: res.StartDate},
			EndDate:      openapi_types.Date{Time: res.EndDate},
			PriceCents:   res.PriceCents,
			MembersCount: res.MembersCount,
			Active:       res.Active,
		}
	}
	for i, m := range g.Members {
		resp.Members[i] = memberToResponse(m)
	}
	for i, e := range g.Events {
		resp.Events[i] = eventToResponse(e)
	}
	return resp
}

func memberToResponse(m domain.Member) memberResponse {
	resp := memberResponse{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		Name:          m.Name,
		Document:      m.Document,
		Phone:         m.Phone,
		Active:        m.Active,
	}
	if m.BirthDate != nil {
		resp.BirthDate = &openapi_types.Date{Time: *m.BirthDate}
	}
	return resp
}
