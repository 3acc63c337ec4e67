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

// MemberRepo defines the persistence operations for group members.
// Members are never deleted: DeactivateByReservation nulls the document and
// flips active=false, preserving the row for the group's audit history.
type MemberRepo interface {
	// Create inserts a new member and returns the persisted record.
	Create(ctx context.Context, member domain.Member) (domain.Member, error)

	// ListByGroupID returns all members of a group, oldest first.
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Member, error)

	// DeactivateByReservation soft-deactivates every member attached to the
	// given reservation: document set to NULL, active set to false.
	// Deactivating a reservation with no attached members is not an error.
	DeactivateByReservation(ctx context.Context, reservationID uuid.UUID) error
}

// pgMemberRepo is the Postgres implementation of MemberRepo.
type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided db connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

const memberColumns = `id, group_id, reservation_id, name, document, phone, birth_date, active, created_at, updated_at`

// Create inserts a new member row and returns the full persisted record.
func (r *pgMemberRepo) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	const q = `
		INSERT INTO members (group_id, reservation_id, name, document, phone, birth_date)
		VALUES (@group_id, @reservation_id, @name, @document, @phone, @birth_date)
		RETURNING ` + memberColumns

	args := pgx.NamedArgs{
		"group_id":       member.GroupID,
		"reservation_id": member.ReservationID, // nil becomes NULL
		"name":           member.Name,
		"document":       member.Document,
		"phone":          member.Phone,
		"birth_date":     member.BirthDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return result, nil
}

// ListByGroupID returns all members of a group ordered by creation time.
func (r *pgMemberRepo) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]domain.Member, error) {
	const q = `SELECT ` + memberColumns + ` FROM members WHERE group_id = @group_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"group_id": groupID})
	if err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByGroupID: %w", err)
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.MemberRepo.ListByGroupID: scan: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.MemberRepo.ListByGroupID: rows: %w", err)
	}

	return members, nil
}

// DeactivateByReservation nulls documents and deactivates members of a reservation.
func (r *pgMemberRepo) DeactivateByReservation(ctx context.Context, reservationID uuid.UUID) error {
	const q = `
		UPDATE members
		SET document = NULL, active = false, updated_at = now()
		WHERE reservation_id = @reservation_id`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"reservation_id": reservationID}); err != nil {
		return fmt.Errorf("repo.MemberRepo.DeactivateByReservation: %w", err)
	}
	return nil
}

// scanMember maps a single database row into a domain.Member.
func scanMember(s scanner) (domain.Member, error) {
	var (
		m             domain.Member
		id            pgtype.UUID
		groupID       pgtype.UUID
		reservationID pgtype.UUID
		document      pgtype.Text
		phone         pgtype.Text
		birthDate     pgtype.Date
	)

	err := s.Scan(&id, &groupID, &reservationID, &m.Name, &document, &phone, &birthDate,
		&m.Active, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}

	m.ID = uuid.UUID(id.Bytes)
	m.GroupID = uuid.UUID(groupID.Bytes)
	if reservationID.Valid {
		rid := uuid.UUID(reservationID.Bytes)
		m.ReservationID = &rid
	}
	if document.Valid {
		d := document.String
		m.Document = &d
	}
	if phone.Valid {
		p := phone.String
		m.Phone = &p
	}
	if birthDate.Valid {
		bd := birthDate.Time
		m.BirthDate = &bd
	}

	return m, nil
}
