package repo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repos bundles one repository per resource, all bound to the same db handle.
// When constructed inside Store.InTx the handle is a single pgx.Tx, so ledger
// appends, side effects, and aggregate writes commit or roll back together.
type Repos struct {
	Events       EventRepo
	Groups       GroupRepo
	Reservations ReservationRepo
	Members      MemberRepo
	Receipts     ReceiptRepo
	Users        UserRepo
	Experiences  ExperienceRepo
}

// NewRepos constructs the full repository set on one db handle.
func NewRepos(db db) Repos {
	return Repos{
		Events:       NewEventRepo(db),
		Groups:       NewGroupRepo(db),
		Reservations: NewReservationRepo(db),
		Members:      NewMemberRepo(db),
		Receipts:     NewReceiptRepo(db),
		Users:        NewUserRepo(db),
		Experiences:  NewExperienceRepo(db),
	}
}

// Store is the transactional entry point the service layer depends on.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store over a pgx connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repos returns a repository set bound to the pool for single-statement reads.
func (s *Store) Repos() Repos {
	return NewRepos(s.pool)
}

// InTx runs fn with a repository set bound to one transaction. The transaction
// commits when fn returns nil and rolls back when fn returns an error or
// panics, so partial effects (e.g. a receipt without its event) are never
// observably committed. fn's error is returned unwrapped so sentinel checks
// and messages survive the transaction boundary.
func (s *Store) InTx(ctx context.Context, fn func(r Repos) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(NewRepos(tx))
	})
}
