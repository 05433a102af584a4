package services

import (
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupInvitationTest(t *testing.T) (*gorm.DB, *InvitationService, *models.Paper, *models.User, *models.User) {
	t.Helper()

	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	editor := createTestUser(t, db, "editor@example.org", models.RoleEditor)
	reviewer := createTestUser(t, db, "reviewer@example.org", models.RoleReviewer)
	paper := createTestPaper(t, db, journal, author, models.PaperStatusSubmitted)
	svc := NewInvitationService(db, NewCorrespondenceService(db))
	return db, svc, paper, editor, reviewer
}

func TestInviteReviewerByID(t *testing.T) {
	db, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
		Message:    "Please consider reviewing this manuscript",
	})
	require.NoError(t, err)

	assert.Equal(t, models.InvitationStatusPending, invitation.Status)
	require.NotNil(t, invitation.ReviewerID)
	assert.Equal(t, reviewer.UserID, *invitation.ReviewerID)
	assert.NotEmpty(t, invitation.Token)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), invitation.ExpiresAt, time.Minute)

	// Invitation email queued
	var mail models.PaperCorrespondence
	require.NoError(t, db.Where("paper_id = ? AND event_key = ?", paper.PaperID, EventKeyReviewerInvited).
		First(&mail).Error)
	assert.Equal(t, reviewer.Email, mail.Recipient)
}

func TestInviteReviewerByEmailResolvesKnownUser(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID: paper.PaperID,
		Email:   "Reviewer@Example.org",
	})
	require.NoError(t, err)

	require.NotNil(t, invitation.ReviewerID)
	assert.Equal(t, reviewer.UserID, *invitation.ReviewerID)
	assert.Nil(t, invitation.InvitedEmail)
}

func TestInviteReviewerByUnknownEmail(t *testing.T) {
	_, svc, paper, editor, _ := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID: paper.PaperID,
		Email:   "external@university.edu",
	})
	require.NoError(t, err)

	assert.Nil(t, invitation.ReviewerID)
	require.NotNil(t, invitation.InvitedEmail)
	assert.Equal(t, "external@university.edu", *invitation.InvitedEmail)
}

func TestInviteGuards(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	t.Run("non-editor forbidden", func(t *testing.T) {
		_, err := svc.Invite(actorFor(reviewer), InviteReviewerInput{
			PaperID:    paper.PaperID,
			ReviewerID: &reviewer.UserID,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("author cannot review own paper", func(t *testing.T) {
		_, err := svc.Invite(actorFor(editor), InviteReviewerInput{
			PaperID:    paper.PaperID,
			ReviewerID: &paper.AuthorID,
		})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("no target", func(t *testing.T) {
		_, err := svc.Invite(actorFor(editor), InviteReviewerInput{PaperID: paper.PaperID})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown paper", func(t *testing.T) {
		_, err := svc.Invite(actorFor(editor), InviteReviewerInput{
			PaperID:    9999,
			ReviewerID: &reviewer.UserID,
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestAcceptInvitationCreatesAssignment(t *testing.T) {
	db, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	assignment, err := svc.Accept(actorFor(reviewer), invitation.Token)
	require.NoError(t, err)

	assert.Equal(t, paper.PaperID, assignment.PaperID)
	assert.Equal(t, reviewer.UserID, assignment.ReviewerID)
	assert.Equal(t, models.ReviewStatusPending, assignment.ReviewStatus)
	require.NotNil(t, assignment.DueAt)

	// Invitation closed
	var stored models.ReviewerInvitation
	require.NoError(t, db.First(&stored, invitation.InvitationID).Error)
	assert.Equal(t, models.InvitationStatusAccepted, stored.Status)
	require.NotNil(t, stored.RespondedAt)

	// Paper moved into review
	var storedPaper models.Paper
	require.NoError(t, db.First(&storedPaper, paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusUnderReview, storedPaper.Status)
}

func TestAcceptInvitationWrongUser(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	_, err = svc.Accept(actorFor(editor), invitation.Token)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	db, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	// Push the deadline into the past
	require.NoError(t, db.Model(&models.ReviewerInvitation{}).
		Where("invitation_id = ?", invitation.InvitationID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Accept(actorFor(reviewer), invitation.Token)
	assert.ErrorIs(t, err, ErrInvitationExpired)

	// Past-deadline pending row marked expired
	var stored models.ReviewerInvitation
	require.NoError(t, db.First(&stored, invitation.InvitationID).Error)
	assert.Equal(t, models.InvitationStatusExpired, stored.Status)
}

func TestAcceptInvitationTwice(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	_, err = svc.Accept(actorFor(reviewer), invitation.Token)
	require.NoError(t, err)

	_, err = svc.Accept(actorFor(reviewer), invitation.Token)
	assert.ErrorIs(t, err, ErrInvitationClosed)
}

func TestAcceptSecondInvitationSamePaper(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	first, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)
	second, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	_, err = svc.Accept(actorFor(reviewer), first.Token)
	require.NoError(t, err)

	// The composite unique key forbids a second assignment for the pair
	_, err = svc.Accept(actorFor(reviewer), second.Token)
	assert.ErrorIs(t, err, ErrDuplicateAssignment)
}

func TestDeclineInvitation(t *testing.T) {
	db, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	declined, err := svc.Decline(actorFor(reviewer), invitation.Token)
	require.NoError(t, err)
	assert.Equal(t, models.InvitationStatusDeclined, declined.Status)

	// Paper untouched
	var storedPaper models.Paper
	require.NoError(t, db.First(&storedPaper, paper.PaperID).Error)
	assert.Equal(t, models.PaperStatusSubmitted, storedPaper.Status)

	// No assignment created
	var count int64
	db.Model(&models.ReviewAssignment{}).Where("paper_id = ?", paper.PaperID).Count(&count)
	assert.Zero(t, count)
}

func TestRevokeInvitation(t *testing.T) {
	_, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(actorFor(editor), invitation.InvitationID))

	// Withdrawal by the editor is recorded as revoked, not as a
	// reviewer decline.
	var stored models.ReviewerInvitation
	require.NoError(t, svc.db.First(&stored, invitation.InvitationID).Error)
	assert.Equal(t, models.InvitationStatusRevoked, stored.Status)

	// Revoking again finds no pending row
	err = svc.Revoke(actorFor(editor), invitation.InvitationID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = svc.Accept(actorFor(reviewer), invitation.Token)
	assert.ErrorIs(t, err, ErrInvitationClosed)
}

func TestExpireOverdue(t *testing.T) {
	db, svc, paper, editor, reviewer := setupInvitationTest(t)

	invitation, err := svc.Invite(actorFor(editor), InviteReviewerInput{
		PaperID:    paper.PaperID,
		ReviewerID: &reviewer.UserID,
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.ReviewerInvitation{}).
		Where("invitation_id = ?", invitation.InvitationID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	assert.Equal(t, 1, svc.ExpireOverdue())
	assert.Equal(t, 0, svc.ExpireOverdue())

	var stored models.ReviewerInvitation
	require.NoError(t, db.First(&stored, invitation.InvitationID).Error)
	assert.Equal(t, models.InvitationStatusExpired, stored.Status)
}
