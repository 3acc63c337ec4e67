package domain

import (
	"time"

	"github.com/google/uuid"
)

// Experience is a bookable limited-capacity offering (trail, lodging, lab,
// event). The workflow engine only reads experiences: the active flag gates
// group creation and PriceCents is the source of the reservation snapshot.
type Experience struct {
	ID         uuid.UUID
	Name       string
	PriceCents int64
	Capacity   int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
