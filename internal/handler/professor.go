package handler

import (
	"encoding/json"
	"net/http"

	"github.com/serraviva/backend/internal/domain"
)

// appendProfessorEvent handles POST /professors/{professorID}/events.
// The seed DOCUMENT_REQUESTED submission and the admin approval/rejection
// both flow through here; side effects happen inside the workflow engine.
func (s *Server) appendProfessorEvent(w http.ResponseWriter, r *http.Request) {
	professorID, err := pathID(r, "professorID")
	if err != nil {
		writeRequestError(w, "invalid professor id")
		return
	}

	var body eventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeRequestError(w, "invalid request body")
		return
	}

	event, err := s.workflows.AppendProfessorEvent(r.Context(), professorID,
		domain.EventType(body.Type), body.ActorID, body.FileURL, body.Description)
	if err != nil {
		writeServiceError(w, err, "professor not found")
		return
	}

	writeJSON(w, http.StatusCreated, eventToResponse(event))
}

// getProfessorStatus handles GET /professors/{professorID}/status.
func (s *Server) getProfessorStatus(w http.ResponseWriter, r *http.Request) {
	professorID, err := pathID(r, "professorID")
	if err != nil {
		writeRequestError(w, "invalid professor id")
		return
	}

	status, err := s.workflows.GetProfessorStatus(r.Context(), professorID)
	if err != nil {
		writeServiceError(w, err, "professor not found")
		return
	}

	writeJSON(w, http.StatusOK, statusToResponse(status))
}
