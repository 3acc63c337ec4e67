package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/serraviva/backend/internal/domain"
)

// eventRequest is the body of the append-event endpoints.
type eventRequest struct {
	Type        string    `json:"type"`
	ActorID     uuid.UUID `json:"actor_id"`
	Description string    `json:"description,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
}

// eventResponse is the wire form of one ledger event.
type eventResponse struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	Seq         int64     `json:"seq"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// statusResponse is the body of the status endpoints: the projected current
// status plus the full ordered history.
type statusResponse struct {
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	History   []eventResponse `json:"history"`
}

// eventToResponse converts a domain.Event into its wire form.
func eventToResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Description: e.Description,
		FileURL:     e.FileURL,
		Seq:         e.Seq,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// statusToResponse converts a domain.SubjectStatus into its wire form.
// History is always a non-nil array in the response.
func statusToResponse(status domain.SubjectStatus) statusResponse {
	history := make([]eventResponse, len(status.History))
	for i, e := range status.History {
		history[i] = eventToResponse(e)
	}
	return statusResponse{
		Status:    string(status.Status),
		CreatedAt: status.CreatedAt,
		History:   history,
	}
}
