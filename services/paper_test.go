package services

import (
	"strings"
	"testing"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPaper(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	svc := NewPaperService(db, NewCorrespondenceService(db))

	paper, err := svc.SubmitPaper(actorFor(author), SubmitPaperInput{
		JournalID:     journal.JournalID,
		Title:         "A Study of Things",
		Abstract:      "We study things and report findings.",
		Keywords:      "things, findings",
		TermsAccepted: true,
		CoAuthors: []CoAuthorInput{
			{Name: "Second Author", Email: "second@example.org", IsCorresponding: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaperStatusSubmitted, paper.Status)
	assert.Equal(t, 1, paper.VersionNumber)
	assert.Equal(t, 0, paper.RevisionCount)
	assert.True(t, strings.HasPrefix(paper.PaperCode, "IJCS-"))

	var versions []models.PaperVersion
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).Find(&versions).Error)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)

	var coAuthors []models.PaperCoAuthor
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).Find(&coAuthors).Error)
	require.Len(t, coAuthors, 1)
	assert.Equal(t, 1, coAuthors[0].AuthorOrder)

	var history []models.PaperStatusHistory
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).Find(&history).Error)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, models.PaperStatusSubmitted, history[0].NewStatus)

	// Confirmation email queued in the outbox
	var mail models.PaperCorrespondence
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).First(&mail).Error)
	assert.Equal(t, EventKeyPaperSubmitted, mail.EventKey)
	assert.Equal(t, models.DeliveryStatusPending, mail.DeliveryStatus)
	assert.Equal(t, author.Email, mail.Recipient)
	assert.NotEmpty(t, mail.WebhookID)
}

func TestSubmitPaperValidation(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	svc := NewPaperService(db, NewCorrespondenceService(db))
	actor := actorFor(author)

	valid := SubmitPaperInput{
		JournalID:     journal.JournalID,
		Title:         "Title",
		Abstract:      "Abstract",
		TermsAccepted: true,
	}

	t.Run("terms not accepted", func(t *testing.T) {
		input := valid
		input.TermsAccepted = false
		_, err := svc.SubmitPaper(actor, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing title", func(t *testing.T) {
		input := valid
		input.Title = "   "
		_, err := svc.SubmitPaper(actor, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("missing abstract", func(t *testing.T) {
		input := valid
		input.Abstract = ""
		_, err := svc.SubmitPaper(actor, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("bad co-author email", func(t *testing.T) {
		input := valid
		input.CoAuthors = []CoAuthorInput{{Name: "X", Email: "not-an-email"}}
		_, err := svc.SubmitPaper(actor, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown journal", func(t *testing.T) {
		input := valid
		input.JournalID = 9999
		_, err := svc.SubmitPaper(actor, input)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("inactive journal", func(t *testing.T) {
		require.NoError(t, db.Model(&models.Journal{}).
			Where("journal_id = ?", journal.JournalID).
			Update("is_active", false).Error)
		_, err := svc.SubmitPaper(actor, valid)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestResubmitPaper(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	paper := createTestPaper(t, db, journal, author, models.PaperStatusCorrection)
	svc := NewPaperService(db, NewCorrespondenceService(db))

	updated, err := svc.ResubmitPaper(actorFor(author), paper.PaperID, ResubmitPaperInput{
		Reason:        "Addressed reviewer comments",
		ChangeSummary: "Rewrote section 3 and added an evaluation",
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaperStatusResubmitted, updated.Status)
	assert.Equal(t, 2, updated.VersionNumber)
	assert.Equal(t, 1, updated.RevisionCount)
	assert.Equal(t, updated.RevisionCount, updated.VersionNumber-1)

	var versions []models.PaperVersion
	require.NoError(t, db.Where("paper_id = ?", paper.PaperID).
		Order("version_number ASC").Find(&versions).Error)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[1].VersionNumber)
	require.NotNil(t, versions[1].Reason)
	assert.Equal(t, "Addressed reviewer comments", *versions[1].Reason)
}

func TestResubmitPaperGuards(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	other := createTestUser(t, db, "other@example.org", models.RoleAuthor)
	svc := NewPaperService(db, NewCorrespondenceService(db))

	input := ResubmitPaperInput{Reason: "r", ChangeSummary: "s"}

	t.Run("not the owner", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusCorrection)
		_, err := svc.ResubmitPaper(actorFor(other), paper.PaperID, input)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("wrong status", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusUnderReview)
		_, err := svc.ResubmitPaper(actorFor(author), paper.PaperID, input)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusRejected)
		_, err := svc.ResubmitPaper(actorFor(author), paper.PaperID, input)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("missing reason", func(t *testing.T) {
		paper := createTestPaper(t, db, journal, author, models.PaperStatusCorrection)
		_, err := svc.ResubmitPaper(actorFor(author), paper.PaperID, ResubmitPaperInput{ChangeSummary: "s"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestPaperVersionUniquePerNumber(t *testing.T) {
	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	paper := createTestPaper(t, db, journal, author, models.PaperStatusSubmitted)

	dup := models.PaperVersion{
		PaperID:       paper.PaperID,
		VersionNumber: 1,
		UploadedBy:    author.UserID,
	}
	err := db.Create(&dup).Error
	assert.Error(t, err)
}
