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

// UserRepo defines the persistence operations for users the workflow engine
// needs: lookup (owner email, professor subject) and the verified flip.
// Account management itself lives outside this core.
type UserRepo interface {
	// Create inserts a new user and returns the persisted record.
	Create(ctx context.Context, user domain.User) (domain.User, error)

	// GetByID retrieves a user by its UUID primary key.
	// Returns domain.ErrNotFound if no user with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)

	// SetVerified flips the user's verified flag.
	// Returns domain.ErrNotFound if the user does not exist.
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, name, email, verified, created_at, updated_at`

// Create inserts a new user row and returns the full persisted record.
func (r *pgUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email)
		VALUES (@name, @email)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"name":  user.Name,
		"email": user.Email, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a user by primary key.
func (r *pgUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", err)
	}
	return result, nil
}

// SetVerified flips the verified flag of a user.
func (r *pgUserRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	const q = `
		UPDATE users
		SET verified = @verified, updated_at = now()
		WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id, "verified": verified})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.SetVerified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.SetVerified: %w", domain.ErrNotFound)
	}
	return nil
}

// scanUser maps a single database row into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u     domain.User
		id    pgtype.UUID
		email pgtype.Text
	)

	err := s.Scan(&id, &u.Name, &email, &u.Verified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}

	u.ID = uuid.UUID(id.Bytes)
	if email.Valid {
		e := email.String
		u.Email = &e
	}

	return u, nil
}
