package services

import (
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCorrespondenceTest(t *testing.T) (*gorm.DB, *CorrespondenceService, *models.Paper) {
	t.Helper()

	db := newTestDB(t)
	journal := createTestJournal(t, db)
	author := createTestUser(t, db, "author@example.org", models.RoleAuthor)
	paper := createTestPaper(t, db, journal, author, models.PaperStatusSubmitted)
	return db, NewCorrespondenceService(db), paper
}

func TestQueueCreatesPendingRow(t *testing.T) {
	_, svc, paper := setupCorrespondenceTest(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DeliveryStatusPending, record.DeliveryStatus)
	assert.NotEmpty(t, record.WebhookID)
	assert.Contains(t, record.Subject, paper.PaperCode)
	assert.Contains(t, record.Body, paper.Title)
	assert.Zero(t, record.RetryCount)
}

func TestQueuePrefersActiveTemplate(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)

	now := time.Now()
	template := models.EmailTemplate{
		EventKey:     EventKeyPaperSubmitted,
		Subject:      "Custom subject for {{paper_code}}",
		BodyTemplate: "Custom body about {{title}}",
		IsActive:     true,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	require.NoError(t, db.Create(&template).Error)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
	})
	require.NoError(t, err)
	assert.Equal(t, "Custom subject for "+paper.PaperCode, record.Subject)
	assert.Contains(t, record.Body, "Custom body about "+paper.Title)
}

func TestDispatchPendingMarksSent(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)
	sent := captureMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.DispatchPending(10))
	require.Len(t, *sent, 1)
	assert.Equal(t, []string{"author@example.org"}, (*sent)[0].To)

	var stored models.PaperCorrespondence
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.DeliveryStatusSent, stored.DeliveryStatus)
	require.NotNil(t, stored.SentAt)

	// Nothing pending on the next sweep
	assert.Equal(t, 0, svc.DispatchPending(10))
}

func TestDispatchPendingMarksFailed(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)
	failMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)

	assert.Equal(t, 0, svc.DispatchPending(10))

	var stored models.PaperCorrespondence
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.DeliveryStatusFailed, stored.DeliveryStatus)
	require.NotNil(t, stored.LastError)
	assert.Contains(t, *stored.LastError, "smtp unavailable")
}

func TestRetryFailedRespectsBudget(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)
	failMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)
	svc.DispatchPending(10)

	for i := 0; i < models.MaxDeliveryRetries; i++ {
		svc.RetryFailed(10)
	}

	var stored models.PaperCorrespondence
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.MaxDeliveryRetries, stored.RetryCount)
	assert.Equal(t, models.DeliveryStatusFailed, stored.DeliveryStatus)

	// Budget exhausted; the row is left alone
	svc.RetryFailed(10)
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.MaxDeliveryRetries, stored.RetryCount)
}

func TestRetryFailedEventualSuccess(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)
	failMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)
	svc.DispatchPending(10)

	captureMail(t)
	assert.Equal(t, 1, svc.RetryFailed(10))

	var stored models.PaperCorrespondence
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.DeliveryStatusSent, stored.DeliveryStatus)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Nil(t, stored.LastError)
}

func TestHandleDeliveryEvent(t *testing.T) {
	db, svc, paper := setupCorrespondenceTest(t)
	captureMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)
	svc.DispatchPending(10)

	err = svc.HandleDeliveryEvent(DeliveryEvent{
		WebhookID: record.WebhookID,
		EventType: "delivered",
	})
	require.NoError(t, err)

	var stored models.PaperCorrespondence
	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.DeliveryStatusDelivered, stored.DeliveryStatus)
	require.NotNil(t, stored.DeliveredAt)

	// Duplicate callbacks are idempotent, last write wins
	bounceErr := "mailbox full"
	err = svc.HandleDeliveryEvent(DeliveryEvent{
		WebhookID: record.WebhookID,
		EventType: "bounced",
		Error:     &bounceErr,
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&stored, record.CorrespondenceID).Error)
	assert.Equal(t, models.DeliveryStatusBounced, stored.DeliveryStatus)
	require.NotNil(t, stored.LastError)
	assert.Equal(t, "mailbox full", *stored.LastError)
}

func TestHandleDeliveryEventErrors(t *testing.T) {
	_, svc, paper := setupCorrespondenceTest(t)
	captureMail(t)

	record, err := svc.Queue(paper.PaperID, EventKeyPaperSubmitted, "author@example.org", nil)
	require.NoError(t, err)

	t.Run("unknown webhook id", func(t *testing.T) {
		err := svc.HandleDeliveryEvent(DeliveryEvent{
			WebhookID: "no-such-id",
			EventType: "delivered",
		})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("unknown event type", func(t *testing.T) {
		err := svc.HandleDeliveryEvent(DeliveryEvent{
			WebhookID: record.WebhookID,
			EventType: "opened",
		})
		assert.ErrorIs(t, err, ErrValidation)
	})
}
