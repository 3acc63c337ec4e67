package repo_test

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/repo"
	"github.com/serraviva/backend/migrations"
	"github.com/serraviva/backend/testutil"
)

// TestMain runs before any test in the repo_test package.
// It applies all pending migrations to the test database so individual tests
// never need to think about schema state.
func TestMain(m *testing.M) {
	if os.Getenv("TEST_DATABASE_URL") == "" {
		// No test DB configured — skip all tests in this package cleanly.
		os.Exit(m.Run())
	}

	// Use a plain *sql.DB for goose (it needs database/sql, not pgx pool).
	db := testutil.MustOpenSQLDB(os.Getenv("TEST_DATABASE_URL"))
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		log.Fatalf("TestMain: create goose provider: %v", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		log.Fatalf("TestMain: run migrations: %v", err)
	}

	os.Exit(m.Run())
}

// newTestRepos opens a transaction against the test database and returns the
// full repository set bound to that transaction. The transaction is rolled
// back when the test finishes, giving free per-test isolation. Binding every
// repo to the same tx also lets tests satisfy foreign keys by seeding through
// sibling repos.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestRepos(t *testing.T) repo.Repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewRepos(tx)
}

// seedUser inserts a user and returns it. Most tables reference users, so
// nearly every test starts here.
func seedUser(t *testing.T, r repo.Repos) domain.User {
	t.Helper()
	email := "visitor@example.org"
	u, err := r.Users.Create(context.Background(), domain.User{Name: "Test Visitor", Email: &email})
	require.NoError(t, err, "seed user")
	return u
}

// seedGroup inserts a reservation group owned by the given user.
func seedGroup(t *testing.T, r repo.Repos, userID uuid.UUID) domain.ReservationGroup {
	t.Helper()
	g, err := r.Groups.Create(context.Background(), domain.ReservationGroup{UserID: userID, Notes: "test group"})
	require.NoError(t, err, "seed group")
	return g
}

// seedExperience inserts an experience with the given price and active flag.
func seedExperience(t *testing.T, r repo.Repos, priceCents int64, active bool) domain.Experience {
	t.Helper()
	exp, err := r.Experiences.Create(context.Background(), domain.Experience{
		Name:       "Canopy Walk",
		PriceCents: priceCents,
		Capacity:   12,
		Active:     active,
	})
	require.NoError(t, err, "seed experience")
	return exp
}
