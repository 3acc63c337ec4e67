// Package domain contains the core data types for the Serra Viva booking
// backend. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (workflow, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType is the discriminated tag of a ledger event.
// The legal values form two closed vocabularies, one per subject kind;
// see the workflow package for the membership tables.
type EventType string

// Reservation-group vocabulary.
const (
	EventCreated          EventType = "CREATED"
	EventEdited           EventType = "EDITED"
	EventPeopleRequested  EventType = "PEOPLE_REQUESTED"
	EventPeopleSent       EventType = "PEOPLE_SENT"
	EventPaymentRequested EventType = "PAYMENT_REQUESTED"
	EventPaymentSent      EventType = "PAYMENT_SENT"
	EventPaymentApproved  EventType = "PAYMENT_APPROVED"
	EventPaymentRejected  EventType = "PAYMENT_REJECTED"
	EventCancelRequested  EventType = "CANCELED_REQUESTED"
	EventCanceled         EventType = "CANCELED"
	EventApproved         EventType = "APPROVED"
	EventRejected         EventType = "REJECTED"
)

// Professor vocabulary.
const (
	EventDocumentRequested EventType = "DOCUMENT_REQUESTED"
	EventDocumentApproved  EventType = "DOCUMENT_APPROVED"
	EventDocumentRejected  EventType = "DOCUMENT_REJECTED"
)

// SubjectKind discriminates which state machine a subject belongs to.
type SubjectKind string

const (
	KindReservationGroup SubjectKind = "reservation_group"
	KindProfessor        SubjectKind = "professor"
)

// SubjectRef identifies the entity an event applies to. It is a tagged union:
// exactly one state machine owns any given ref, decided by Kind. Construct
// values with GroupRef or ProfessorRef so the kind and ID always agree.
type SubjectRef struct {
	Kind SubjectKind
	ID   uuid.UUID
}

// GroupRef returns a SubjectRef for a reservation group.
func GroupRef(id uuid.UUID) SubjectRef {
	return SubjectRef{Kind: KindReservationGroup, ID: id}
}

// ProfessorRef returns a SubjectRef for a professor (user).
func ProfessorRef(id uuid.UUID) SubjectRef {
	return SubjectRef{Kind: KindProfessor, ID: id}
}

// Event is one immutable row of the workflow ledger. Events are append-only:
// once written they are never updated or deleted.
type Event struct {
	ID          uuid.UUID
	Subject     SubjectRef
	Type        EventType
	Description string
	FileURL     *string // only meaningful for document/payment submissions
	Seq         int64   // per-subject, assigned by the ledger on append
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
}

// SubjectStatus is the projection of a subject's current state from its
// ledger history. Status is the last event's type; CreatedAt is the first
// event's timestamp.
type SubjectStatus struct {
	Status    EventType
	CreatedAt time.Time
	History   []Event
}
