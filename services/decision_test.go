package services

import (
	"testing"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.org", models.RoleEditor)
	svc := NewDecisionService(db, NewCorrespondenceService(db))

	cases := []struct {
		decision   string
		wantStatus string
	}{
		{DecisionAccept, models.PaperStatusAccepted},
		{DecisionReject, models.PaperStatusRejected},
		{DecisionCorrection, models.PaperStatusCorrection},
	}

	for _, tc := range cases {
		t.Run(tc.decision, func(t *testing.T) {
			paper := createTestPaper(t, db, journal, author, models.PaperStatusReviewed)

			decided, err := svc.Decide(actorFor(editor), paper.PaperID, tc.decision, "see attached comments")
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, decided.Status)

			// Decision email to the author
			var mail models.PaperCorrespondence
			require.NoError(t, db.Where("paper_id = ? AND event_key = ?", paper.PaperID, EventKeyEditorDecision).
				First(&mail).Error)
			assert.Equal(t, author.Email, mail.Recipient)
		})
	}
}

func TestDecideOverrideIsRecorded(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.org", models.RoleEditor)
	paper := createTestPaper(t, db, journal, author, models.PaperStatusSubmitted)
	svc := NewDecisionService(db, NewCorrespondenceService(db))

	decided, err := svc.Decide(actorFor(editor), paper.PaperID, DecisionReject, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaperStatusRejected, decided.Status)

	var history models.PaperStatusHistory
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).First(&history).Error)
	require.NotNil(t, history.Notes)
	assert.Contains(t, *history.Notes, "without completed review stage")
}

func TestDecideGuards(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.org", models.RoleEditor)
	svc := NewDecisionService(db, NewCorrespondenceService(db))

	t.Run("author cannot decide", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusReviewed)
		_, err := svc.Decide(actorFor(author), paper.PaperID, DecisionAccept, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown decision", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusReviewed)
		_, err := svc.Decide(actorFor(editor), paper.PaperID, "maybe", "")
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("published is terminal", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusPublished)
		_, err := svc.Decide(actorFor(editor), paper.PaperID, DecisionAccept, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}
