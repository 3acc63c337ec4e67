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

// ReservationRepo defines the persistence operations for reservations.
// Reservations are never hard-deleted; Deactivate is the only removal path.
type ReservationRepo interface {
	// Create inserts a new reservation and returns the persisted record.
	// PriceCents must already carry the snapshotted experience price.
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)

	// GetByID retrieves a reservation by ID, scoped to the given group.
	// Returns domain.ErrNotFound if no reservation with that ID exists under
	// that group.
	GetByID(ctx context.Context, groupID, id uuid.UUID) (domain.Reservation, error)

	// ListByGroupID returns all reservations for a group, oldest first.
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Reservation, error)

	// Deactivate soft-removes a reservation, scoped to the given group.
	// Returns domain.ErrNotFound if it does not exist under that group.
	Deactivate(ctx context.Context, groupID, id uuid.UUID) error

	// SumActivePriceCents returns the total snapshotted price of the group's
	// active reservations. A group with no active reservations sums to zero.
	SumActivePriceCents(ctx context.Context, groupID uuid.UUID) (int64, error)
}

// pgReservationRepo is the Postgres implementation of ReservationRepo.
type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

const reservationColumns = `id, group_id, experience_id, start_date, end_date, price_cents, members_count, active, created_at, updated_at`

// Create inserts a new reservation row and returns the full persisted record.
func (r *pgReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		INSERT INTO reservations (group_id, experience_id, start_date, end_date, price_cents, members_count)
		VALUES (@group_id, @experience_id, @start_date, @end_date, @price_cents, @members_count)
		RETURNING ` + reservationColumns

	args := pgx.NamedArgs{
		"group_id":      res.GroupID,
		"experience_id": res.ExperienceID,
		"start_date":    res.StartDate,
		"end_date":      res.EndDate,
		"price_cents":   res.PriceCents,
		"members_count": res.MembersCount,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReservation(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a reservation by primary key, scoped to its group.
func (r *pgReservationRepo) GetByID(ctx context.Context, groupID, id uuid.UUID) (domain.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = @id AND group_id = @group_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "group_id": groupID})
	result, err := scanReservation(row)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByGroupID returns all reservations for a group ordered by creation time.
func (r *pgReservationRepo) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE group_id = @group_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByGroupID: %w", err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReservationRepo.ListByGroupID: scan: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByGroupID: rows: %w", err)
	}

	return reservations, nil
}

// Deactivate soft-removes a reservation under the given group.
func (r *pgReservationRepo) Deactivate(ctx context.Context, groupID, id uuid.UUID) error {
	const q = `
		UPDATE reservations
		SET active = false, updated_at = now()
		WHERE id = @id AND group_id = @group_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "group_id": groupID})
	if err != nil {
		return fmt.Errorf("repo.ReservationRepo.Deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReservationRepo.Deactivate: %w", domain.ErrNotFound)
	}
	return nil
}

// SumActivePriceCents totals the snapshotted prices of active reservations.
func (r *pgReservationRepo) SumActivePriceCents(ctx context.Context, groupID uuid.UUID) (int64, error) {
	const q = `
		SELECT COALESCE(SUM(price_cents), 0)
		FROM reservations
		WHERE group_id = @group_id AND active`

	var total int64
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"group_id": groupID}).Scan(&total); err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.SumActivePriceCents: %w", err)
	}
	return total, nil
}

// scanReservation maps a single database row into a domain.Reservation.
func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res          domain.Reservation
		id           pgtype.UUID
		groupID      pgtype.UUID
		experienceID pgtype.UUID
		startDate    pgtype.Date
		endDate      pgtype.Date
	)

	err := s.Scan(&id, &groupID, &experienceID, &startDate, &endDate,
		&res.PriceCents, &res.MembersCount, &res.Active, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Reservation{}, domain.ErrNotFound
		}
		return domain.Reservation{}, err
	}

	res.ID = uuid.UUID(id.Bytes)
	res.GroupID = uuid.UUID(groupID.Bytes)
	res.ExperienceID = uuid.UUID(experienceID.Bytes)
	res.StartDate = startDate.Time
	res.EndDate = endDate.Time

	return res, nil
}
