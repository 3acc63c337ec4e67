package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/serraviva/backend/internal/domain"
)

// EventRepo is the append-only workflow ledger. There is deliberately no
// update or delete operation: corrections are made by appending further
// events, never by editing history.
type EventRepo interface {
	// Append inserts one immutable event row inside the caller's transaction
	// and returns the persisted record with its per-subject sequence number.
	// Returns domain.ErrConflict if a concurrent append claimed the same
	// sequence number for the same subject.
	Append(ctx context.Context, event domain.Event) (domain.Event, error)

	// History returns all events for one subject ordered by (seq, created_at)
	// ascending. An unknown subject yields an empty slice, not an error.
	History(ctx context.Context, subject domain.SubjectRef) ([]domain.Event, error)
}

// pgEventRepo is the Postgres implementation of EventRepo.
type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
// In production pass *pgxpool.Pool or a pgx.Tx; in tests pass a pgx.Tx for
// rollback isolation.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

const eventColumns = `id, type, description, file_url, reservation_group_id, professor_id, created_by, seq, created_at`

// Append inserts the event with seq = max(seq)+1 for its subject. The partial
// unique indexes on (reservation_group_id, seq) and (professor_id, seq) turn
// a lost race into a unique violation, surfaced as domain.ErrConflict.
func (r *pgEventRepo) Append(ctx context.Context, event domain.Event) (domain.Event, error) {
	var q string
	switch event.Subject.Kind {
	case domain.KindReservationGroup:
		q = `
		INSERT INTO events (type, description, file_url, reservation_group_id, created_by, seq)
		VALUES (@type, @description, @file_url, @subject_id, @created_by,
		        (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE reservation_group_id = @subject_id))
		RETURNING ` + eventColumns
	case domain.KindProfessor:
		q = `
		INSERT INTO events (type, description, file_url, professor_id, created_by, seq)
		VALUES (@type, @description, @file_url, @subject_id, @created_by,
		        (SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE professor_id = @subject_id))
		RETURNING ` + eventColumns
	default:
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Append: %w: unknown subject kind %q", domain.ErrValidation, event.Subject.Kind)
	}

	args := pgx.NamedArgs{
		"type":        string(event.Type),
		"description": event.Description,
		"file_url":    event.FileURL, // nil becomes NULL
		"subject_id":  event.Subject.ID,
		"created_by":  event.CreatedBy,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEvent(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Event{}, fmt.Errorf("repo.EventRepo.Append: concurrent transition: %w", domain.ErrConflict)
		}
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Append: %w", err)
	}
	return result, nil
}

// History returns the subject's events oldest-first.
func (r *pgEventRepo) History(ctx context.Context, subject domain.SubjectRef) ([]domain.Event, error) {
	var q string
	switch subject.Kind {
	case domain.KindReservationGroup:
		q = `SELECT ` + eventColumns + ` FROM events WHERE reservation_group_id = @subject_id ORDER BY seq, created_at`
	case domain.KindProfessor:
		q = `SELECT ` + eventColumns + ` FROM events WHERE professor_id = @subject_id ORDER BY seq, created_at`
	default:
		return nil, fmt.Errorf("repo.EventRepo.History: %w: unknown subject kind %q", domain.ErrValidation, subject.Kind)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"subject_id": subject.ID})
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.History: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.History: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.History: rows: %w", err)
	}

	return events, nil
}

// scanEvent maps a single database row into a domain.Event, rebuilding the
// SubjectRef union from the pair of nullable foreign keys. Exactly one of the
// two is non-null, enforced by a table CHECK constraint.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e           domain.Event
		id          pgtype.UUID
		fileURL     pgtype.Text
		groupID     pgtype.UUID
		professorID pgtype.UUID
		createdBy   pgtype.UUID
	)

	err := s.Scan(&id, &e.Type, &e.Description, &fileURL, &groupID, &professorID, &createdBy, &e.Seq, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.CreatedBy = uuid.UUID(createdBy.Bytes)
	if fileURL.Valid {
		u := fileURL.String
		e.FileURL = &u
	}
	switch {
	case groupID.Valid:
		e.Subject = domain.GroupRef(uuid.UUID(groupID.Bytes))
	case professorID.Valid:
		e.Subject = domain.ProfessorRef(uuid.UUID(professorID.Bytes))
	}

	return e, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
