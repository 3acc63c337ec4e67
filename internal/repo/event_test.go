package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serraviva/backend/internal/domain"
)

func TestEventRepo_Append_AssignsIncreasingSeq(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := seedUser(t, r)
	group := seedGroup(t, r, user.ID)

	types := []domain.EventType{domain.EventCreated, domain.EventPaymentRequested, domain.EventPaymentSent}
	for i, eventType := range types {
		got, err := r.Events.Append(ctx, domain.Event{
			Subject:   domain.GroupRef(group.ID),
			Type:      eventType,
			CreatedBy: user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), got.Seq, "seq should increase per append")
		assert.Equal(t, eventType, got.Type)
		assert.Equal(t, domain.GroupRef(group.ID), got.Subject)
		assert.Equal(t, user.ID, got.CreatedBy)
		assert.NotEqual(t, uuid.Nil, got.ID)
		assert.False(t, got.CreatedAt.IsZero())
	}
}

func TestEventRepo_Append_SeqIsPerSubject(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := seedUser(t, r)
	g1 := seedGroup(t, r, user.ID)
	g2 := seedGroup(t, r, user.ID)

	first, err := r.Events.Append(ctx, domain.Event{Subject: domain.GroupRef(g1.ID), Type: domain.EventCreated, CreatedBy: user.ID})
	require.NoError(t, err)
	second, err := r.Events.Append(ctx, domain.Event{Subject: domain.GroupRef(g2.ID), Type: domain.EventCreated, CreatedBy: user.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(1), second.Seq, "each subject counts its own sequence")
}

func TestEventRepo_Append_ProfessorSubject(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	professor := seedUser(t, r)
	admin := seedUser(t, r)

	url := "https://files.example.org/diploma.pdf"
	got, err := r.Events.Append(ctx, domain.Event{
		Subject:     domain.ProfessorRef(professor.ID),
		Type:        domain.EventDocumentRequested,
		Description: "biology diploma",
		FileURL:     &url,
		CreatedBy:   admin.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ProfessorRef(professor.ID), got.Subject)
	assert.Equal(t, int64(1), got.Seq)
	require.NotNil(t, got.FileURL)
	assert.Equal(t, url, *got.FileURL)
	assert.Equal(t, "biology diploma", got.Description)
}

func TestEventRepo_Append_UnknownSubjectKind(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := seedUser(t, r)

	_, err := r.Events.Append(ctx, domain.Event{
		Subject:   domain.SubjectRef{Kind: "PLANET", ID: uuid.New()},
		Type:      domain.EventCreated,
		CreatedBy: user.ID,
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestEventRepo_History_OrderedOldestFirst(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := seedUser(t, r)
	group := seedGroup(t, r, user.ID)

	types := []domain.EventType{domain.EventCreated, domain.EventEdited, domain.EventCancelRequested}
	for _, eventType := range types {
		_, err := r.Events.Append(ctx, domain.Event{Subject: domain.GroupRef(group.ID), Type: eventType, CreatedBy: user.ID})
		require.NoError(t, err)
	}

	history, err := r.Events.History(ctx, domain.GroupRef(group.ID))

	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, eventType := range types {
		assert.Equal(t, eventType, history[i].Type)
		assert.Equal(t, int64(i+1), history[i].Seq)
	}
}

func TestEventRepo_History_UnknownSubjectIsEmpty(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	history, err := r.Events.History(ctx, domain.GroupRef(uuid.New()))

	require.NoError(t, err)
	assert.Empty(t, history, "unknown subject yields empty history, not an error")
}

func TestEventRepo_History_DoesNotMixSubjects(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	user := seedUser(t, r)
	group := seedGroup(t, r, user.ID)
	professor := seedUser(t, r)

	_, err := r.Events.Append(ctx, domain.Event{Subject: domain.GroupRef(group.ID), Type: domain.EventCreated, CreatedBy: user.ID})
	require.NoError(t, err)
	_, err = r.Events.Append(ctx, domain.Event{Subject: domain.ProfessorRef(professor.ID), Type: domain.EventDocumentRequested, CreatedBy: user.ID})
	require.NoError(t, err)

	groupHistory, err := r.Events.History(ctx, domain.GroupRef(group.ID))
	require.NoError(t, err)
	professorHistory, err := r.Events.History(ctx, domain.ProfessorRef(professor.ID))
	require.NoError(t, err)

	require.Len(t, groupHistory, 1)
	assert.Equal(t, domain.EventCreated, groupHistory[0].Type)
	require.Len(t, professorHistory, 1)
	assert.Equal(t, domain.EventDocumentRequested, professorHistory[0].Type)
}
