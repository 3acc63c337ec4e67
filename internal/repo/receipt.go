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

// ReceiptRepo defines the persistence operations for receipts.
// Only the side-effect dispatcher creates receipts; no handler path does.
type ReceiptRepo interface {
	// Create inserts a new receipt and returns the persisted record.
	Create(ctx context.Context, receipt domain.Receipt) (domain.Receipt, error)

	// GetByID retrieves a receipt by its UUID primary key.
	// Returns domain.ErrNotFound if no receipt with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Receipt, error)

	// ListByUserID returns all receipts issued to a user, oldest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Receipt, error)
}

// pgReceiptRepo is the Postgres implementation of ReceiptRepo.
type pgReceiptRepo struct {
	db db
}

// NewReceiptRepo constructs a ReceiptRepo backed by the provided db connection.
func NewReceiptRepo(db db) ReceiptRepo {
	return &pgReceiptRepo{db: db}
}

const receiptColumns = `id, type, url, value_cents, status, user_id, created_at`

// Create inserts a new receipt row and returns the full persisted record.
func (r *pgReceiptRepo) Create(ctx context.Context, receipt domain.Receipt) (domain.Receipt, error) {
	const q = `
		INSERT INTO receipts (type, url, value_cents, status, user_id)
		VALUES (@type, @url, @value_cents, @status, @user_id)
		RETURNING ` + receiptColumns

	args := pgx.NamedArgs{
		"type":        string(receipt.Type),
		"url":         receipt.URL,
		"value_cents": receipt.ValueCents, // nil becomes NULL (DOCENCY receipts)
		"status":      string(receipt.Status),
		"user_id":     receipt.UserID,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanReceipt(row)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("repo.ReceiptRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a receipt by primary key.
func (r *pgReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Receipt, error) {
	const q = `SELECT ` + receiptColumns + ` FROM receipts WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanReceipt(row)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("repo.ReceiptRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByUserID returns all receipts for a user ordered by creation time.
func (r *pgReceiptRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Receipt, error) {
	const q = `SELECT ` + receiptColumns + ` FROM receipts WHERE user_id = @user_id ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.ReceiptRepo.ListByUserID: %w", err)
	}
	defer rows.Close()

	var receipts []domain.Receipt
	for rows.Next() {
		rec, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ReceiptRepo.ListByUserID: scan: %w", err)
		}
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ReceiptRepo.ListByUserID: rows: %w", err)
	}

	return receipts, nil
}

// scanReceipt maps a single database row into a domain.Receipt.
func scanReceipt(s scanner) (domain.Receipt, error) {
	var (
		rec        domain.Receipt
		id         pgtype.UUID
		valueCents pgtype.Int8
		userID     pgtype.UUID
	)

	err := s.Scan(&id, &rec.Type, &rec.URL, &valueCents, &rec.Status, &userID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Receipt{}, domain.ErrNotFound
		}
		return domain.Receipt{}, err
	}

	rec.ID = uuid.UUID(id.Bytes)
	rec.UserID = uuid.UUID(userID.Bytes)
	if valueCents.Valid {
		v := valueCents.Int64
		rec.ValueCents = &v
	}

	return rec, nil
}
