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

// ExperienceRepo defines the persistence operations for experiences the
// workflow engine consumes. FindActiveByIDs backs the all-or-nothing check
// at group creation; the rest supports seeding and admin tooling.
type ExperienceRepo interface {
	// Create inserts a new experience and returns the persisted record.
	Create(ctx context.Context, exp domain.Experience) (domain.Experience, error)

	// GetByID retrieves an experience by its UUID primary key.
	// Returns domain.ErrNotFound if no experience with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Experience, error)

	// FindActiveByIDs returns the subset of the given experiences that exist
	// and are currently active, keyed by ID. Callers compare the result
	// against their input to detect inactive or missing experiences.
	FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Experience, error)

	// List returns all experiences ordered by name.
	List(ctx context.Context) ([]domain.Experience, error)
}

// pgExperienceRepo is the Postgres implementation of ExperienceRepo.
type pgExperienceRepo struct {
	db db
}

// NewExperienceRepo constructs an ExperienceRepo backed by the provided db connection.
func NewExperienceRepo(db db) ExperienceRepo {
	return &pgExperienceRepo{db: db}
}

const experienceColumns = `id, name, price_cents, capacity, active, created_at, updated_at`

// Create inserts a new experience row and returns the full persisted record.
func (r *pgExperienceRepo) Create(ctx context.Context, exp domain.Experience) (domain.Experience, error) {
	const q = `
		INSERT INTO experiences (name, price_cents, capacity, active)
		VALUES (@name, @price_cents, @capacity, @active)
		RETURNING ` + experienceColumns

	args := pgx.NamedArgs{
		"name":        exp.Name,
		"price_cents": exp.PriceCents,
		"capacity":    exp.Capacity,
		"active":      exp.Active,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanExperience(row)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("repo.ExperienceRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an experience by primary key.
func (r *pgExperienceRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Experience, error) {
	const q = `SELECT ` + experienceColumns + ` FROM experiences WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanExperience(row)
	if err != nil {
		return domain.Experience{}, fmt.Errorf("repo.ExperienceRepo.GetByID: %w", err)
	}
	return result, nil
}

// FindActiveByIDs returns the active subset of the requested experiences.
func (r *pgExperienceRepo) FindActiveByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Experience, error) {
	found := make(map[uuid.UUID]domain.Experience, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	const q = `SELECT ` + experienceColumns + ` FROM experiences WHERE id = ANY(@ids) AND active`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.FindActiveByIDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExperienceRepo.FindActiveByIDs: scan: %w", err)
		}
		found[exp.ID] = exp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.FindActiveByIDs: rows: %w", err)
	}

	return found, nil
}

// List returns all experiences ordered by name.
func (r *pgExperienceRepo) List(ctx context.Context) ([]domain.Experience, error) {
	const q = `SELECT ` + experienceColumns + ` FROM experiences ORDER BY name`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.List: %w", err)
	}
	defer rows.Close()

	var experiences []domain.Experience
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ExperienceRepo.List: scan: %w", err)
		}
		experiences = append(experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ExperienceRepo.List: rows: %w", err)
	}

	return experiences, nil
}

// scanExperience maps a single database row into a domain.Experience.
func scanExperience(s scanner) (domain.Experience, error) {
	var (
		exp domain.Experience
		id  pgtype.UUID
	)

	err := s.Scan(&id, &exp.Name, &exp.PriceCents, &exp.Capacity, &exp.Active, &exp.CreatedAt, &exp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Experience{}, domain.ErrNotFound
		}
		return domain.Experience{}, err
	}

	exp.ID = uuid.UUID(id.Bytes)

	return exp, nil
}
