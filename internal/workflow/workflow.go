// Package workflow holds the static event-type tables for the two state
// machines (reservation-group lifecycle and professor credential lifecycle)
// and the pure validation rules built on them. It depends only on domain.
package workflow

import (
	"fmt"

	"github.com/serraviva/backend/internal/domain"
)

// groupTypes is the closed vocabulary of reservation-group events.
var groupTypes = map[domain.EventType]struct{}{
	domain.EventCreated:          {},
	domain.EventEdited:           {},
	domain.EventPeopleRequested:  {},
	domain.EventPeopleSent:       {},
	domain.EventPaymentRequested: {},
	domain.EventPaymentSent:      {},
	domain.EventPaymentApproved:  {},
	domain.EventPaymentRejected:  {},
	domain.EventCancelRequested:  {},
	domain.EventCanceled:         {},
	domain.EventApproved:         {},
	domain.EventRejected:         {},
}

// professorTypes is the closed vocabulary of professor document events.
var professorTypes = map[domain.EventType]struct{}{
	domain.EventDocumentRequested: {},
	domain.EventDocumentApproved:  {},
	domain.EventDocumentRejected:  {},
}

// ValidType reports whether t belongs to the vocabulary of the given subject
// kind.
func ValidType(kind domain.SubjectKind, t domain.EventType) bool {
	switch kind {
	case domain.KindReservationGroup:
		_, ok := groupTypes[t]
		return ok
	case domain.KindProfessor:
		_, ok := professorTypes[t]
		return ok
	default:
		return false
	}
}

// Validate rejects an event whose type does not belong to the subject's
// vocabulary. It is a precondition check, not a full transition-graph check:
// ordering guarantees that matter for side effects are enforced by the
// dispatcher's own preconditions.
func Validate(subject domain.SubjectRef, t domain.EventType) error {
	if ValidType(subject.Kind, t) {
		return nil
	}
	switch subject.Kind {
	case domain.KindReservationGroup:
		return fmt.Errorf("%w: event type %s is not valid for reservation requests", domain.ErrValidation, t)
	case domain.KindProfessor:
		return fmt.Errorf("%w: event type %s is not valid for professor requests", domain.ErrValidation, t)
	default:
		return fmt.Errorf("%w: unknown subject kind %q", domain.ErrValidation, subject.Kind)
	}
}

// Terminal reports whether t is a status from which the workflow defines no
// further legal transition.
func Terminal(t domain.EventType) bool {
	switch t {
	case domain.EventPaymentApproved, domain.EventPaymentRejected,
		domain.EventCanceled, domain.EventDocumentApproved:
		return true
	}
	return false
}

// Inactivates reports whether reaching t makes a reservation group inactive
// (no longer bookable/visible).
func Inactivates(t domain.EventType) bool {
	return t == domain.EventCanceled || t == domain.EventPaymentRejected
}
