package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/serraviva/backend/internal/domain"
)

// GroupRepo defines the persistence operations for reservation groups.
// The workflow engine is the only caller of SetActive and LinkReceipt;
// no handler path writes those columns directly.
type GroupRepo interface {
	// Create inserts a new group and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, group domain.ReservationGroup) (domain.ReservationGroup, error)

	// GetByID retrieves a single group by its UUID primary key.
	// Returns domain.ErrNotFound if no group with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationGroup, error)

	// SetActive flips the group's active flag.
	// Returns domain.ErrNotFound if the group does not exist.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// LinkReceipt sets the group's back-reference to a receipt.
	// Returns domain.ErrNotFound if the group does not exist.
	LinkReceipt(ctx context.Context, id, receiptID uuid.UUID) error
}

// pgGroupRepo is the Postgres implementation of GroupRepo.
type pgGroupRepo struct {
	db db
}

// NewGroupRepo constructs a GroupRepo backed by the provided db connection.
func NewGroupRepo(db db) GroupRepo {
	return &pgGroupRepo{db: db}
}

const groupColumns = `id, user_id, receipt_id, active, notes, created_at, updated_at`

// Create inserts a new group row and returns the full persisted record.
func (r *pgGroupRepo) Create(ctx context.Context, group domain.ReservationGroup) (domain.ReservationGroup, error) {
	const q = `
		INSERT INTO reservation_groups (user_id, notes)
		VALUES (@user_id, @notes)
		RETURNING ` + groupColumns

	args := pgx.NamedArgs{
		"user_id": group.UserID,
		"notes":   group.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanGroup(row)
	if err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("repo.GroupRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a group by primary key.
func (r *pgGroupRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.ReservationGroup, error) {
	const q = `SELECT ` + groupColumns + ` FROM reservation_groups WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanGroup(row)
	if err != nil {
		return domain.ReservationGroup{}, fmt.Errorf("repo.GroupRepo.GetByID: %w", err)
	}
	return result, nil
}

// SetActive flips the active flag of a group.
func (r *pgGroupRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	const q = `
		UPDATE reservation_groups
		SET active = @active, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "active": active})
	if err != nil {
		return fmt.Errorf("repo.GroupRepo.SetActive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GroupRepo.SetActive: %w", domain.ErrNotFound)
	}
	return nil
}

// LinkReceipt points the group at the receipt created for it.
func (r *pgGroupRepo) LinkReceipt(ctx context.Context, id, receiptID uuid.UUID) error {
	const q = `
		UPDATE reservation_groups
		SET receipt_id = @receipt_id, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "receipt_id": receiptID})
	if err != nil {
		return fmt.Errorf("repo.GroupRepo.LinkReceipt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.GroupRepo.LinkReceipt: %w", domain.ErrNotFound)
	}
	return nil
}

// scanGroup maps a single database row into a domain.ReservationGroup.
func scanGroup(s scanner) (domain.ReservationGroup, error) {
	var (
		g         domain.ReservationGroup
		id        pgtype.UUID
		userID    pgtype.UUID
		receiptID pgtype.UUID
	)

	err := s.Scan(&id, &userID, &receiptID, &g.Active, &g.Notes, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReservationGroup{}, domain.ErrNotFound
		}
		return domain.ReservationGroup{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	g.UserID = uuid.UUID(userID.Bytes)
	if receiptID.Valid {
		rid := uuid.UUID(receiptID.Bytes)
		g.ReceiptID = &rid
	}

	return g, nil
}
