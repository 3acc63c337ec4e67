package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationGroup is the unit of booking made by one user in one submission.
// It is the aggregate root for its reservations and members, and the subject
// of the reservation workflow. Active flips to false when the group reaches
// CANCELED or PAYMENT_REJECTED.
type ReservationGroup struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ReceiptID *uuid.UUID // set by the dispatcher on PAYMENT_APPROVED
	Active    bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Hydrated collections; populated by the service layer, not by every
	// repo read.
	Reservations []Reservation
	Members      []Member
	Events       []Event
}

// Reservation is one experience booking belonging to exactly one group.
// PriceCents is snapshotted from the experience at creation time and never
// recomputed afterwards.
type Reservation struct {
	ID           uuid.UUID
	GroupID      uuid.UUID
	ExperienceID uuid.UUID
	StartDate    time.Time
	EndDate      time.Time
	PriceCents   int64
	MembersCount int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Member is a named participant attached to a group. Members are not
// necessarily system users. They are never hard-deleted: when the owning
// reservation is removed the member is soft-deactivated (document nulled,
// Active=false).
type Member struct {
	ID            uuid.UUID
	GroupID       uuid.UUID
	ReservationID *uuid.UUID // nil for group-level members
	Name          string
	Document      *string
	Phone         *string
	BirthDate     *time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
