package domain

import (
	"time"

	"github.com/google/uuid"
)

// User holds the subset of account data the workflow engine touches.
// Verified is flipped by the professor document workflow and only by it.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
