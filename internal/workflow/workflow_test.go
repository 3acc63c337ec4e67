package workflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serraviva/backend/internal/domain"
	"github.com/serraviva/backend/internal/workflow"
)

func TestValidate_GroupVocabulary(t *testing.T) {
	ref := domain.GroupRef(uuid.New())

	for _, typ := range []domain.EventType{
		domain.EventCreated,
		domain.EventEdited,
		domain.EventPeopleRequested,
		domain.EventPeopleSent,
		domain.EventPaymentRequested,
		domain.EventPaymentSent,
		domain.EventPaymentApproved,
		domain.EventPaymentRejected,
		domain.EventCancelRequested,
		domain.EventCanceled,
		domain.EventApproved,
		domain.EventRejected,
	} {
		assert.NoError(t, workflow.Validate(ref, typ), "type %s", typ)
	}
}

func TestValidate_ProfessorVocabulary(t *testing.T) {
	ref := domain.ProfessorRef(uuid.New())

	for _, typ := range []domain.EventType{
		domain.EventDocumentRequested,
		domain.EventDocumentApproved,
		domain.EventDocumentRejected,
	} {
		assert.NoError(t, workflow.Validate(ref, typ), "type %s", typ)
	}
}

// TestValidate_CrossVocabulary verifies the separation invariant: professor
// types are rejected on group subjects and vice versa, with ErrValidation.
func TestValidate_CrossVocabulary(t *testing.T) {
	err := workflow.Validate(domain.GroupRef(uuid.New()), domain.EventDocumentApproved)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "not valid for reservation requests")

	err = workflow.Validate(domain.ProfessorRef(uuid.New()), domain.EventPaymentApproved)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorContains(t, err, "not valid for professor requests")
}

func TestValidate_UnknownType(t *testing.T) {
	err := workflow.Validate(domain.GroupRef(uuid.New()), domain.EventType("SHIPPED"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTerminal(t *testing.T) {
	assert.True(t, workflow.Terminal(domain.EventPaymentApproved))
	assert.True(t, workflow.Terminal(domain.EventPaymentRejected))
	assert.True(t, workflow.Terminal(domain.EventCanceled))
	assert.True(t, workflow.Terminal(domain.EventDocumentApproved))

	assert.False(t, workflow.Terminal(domain.EventCreated))
	assert.False(t, workflow.Terminal(domain.EventCancelRequested))
	assert.False(t, workflow.Terminal(domain.EventDocumentRejected))
}

func TestInactivates(t *testing.T) {
	assert.True(t, workflow.Inactivates(domain.EventCanceled))
	assert.True(t, workflow.Inactivates(domain.EventPaymentRejected))

	assert.False(t, workflow.Inactivates(domain.EventPaymentApproved))
	assert.False(t, workflow.Inactivates(domain.EventCancelRequested))
}
