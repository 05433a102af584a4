package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Correspondence event keys. Each maps to an email_templates row; the
// defaults below are used when no active template exists for the key.
const (
	EventKeyPaperSubmitted   = "paper_submitted"
	EventKeyPaperResubmitted = "paper_resubmitted"
	EventKeyReviewerInvited  = "reviewer_invited"
	EventKeyReviewSubmitted  = "review_submitted"
	EventKeyEditorDecision   = "editor_decision"
	EventKeyPaperPublished   = "paper_published"
	EventKeyReviewReminder   = "review_reminder"
)

// sendMailFunc is swapped out in tests.
var sendMailFunc = config.SendMail

type defaultTemplate struct {
	subject string
	body    string
}

var defaultTemplates = map[string]defaultTemplate{
	EventKeyPaperSubmitted: {
		subject: "Submission received: {{paper_code}}",
		body:    "Thank you for your submission \"{{title}}\". It has been registered as {{paper_code}} and will be assigned to reviewers shortly.",
	},
	EventKeyPaperResubmitted: {
		subject: "Revision received: {{paper_code}}",
		body:    "Your revised manuscript \"{{title}}\" (version {{version}}) has been received and re-entered the review process.",
	},
	EventKeyReviewerInvited: {
		subject: "Invitation to review {{paper_code}}",
		body:    "You have been invited to review the manuscript \"{{title}}\". Please respond before {{expires_at}} using the link below.\n\n{{invitation_url}}",
	},
	EventKeyReviewSubmitted: {
		subject: "Review completed for {{paper_code}}",
		body:    "A review for \"{{title}}\" (version {{version}}) has been submitted and is ready for your decision.",
	},
	EventKeyEditorDecision: {
		subject: "Decision on {{paper_code}}",
		body:    "The editorial decision on your manuscript \"{{title}}\" is: {{decision}}.\n\n{{comments}}",
	},
	EventKeyPaperPublished: {
		subject: "Your article has been published: {{paper_code}}",
		body:    "Your article \"{{title}}\" is now published with DOI {{doi}}.",
	},
	EventKeyReviewReminder: {
		subject: "Review reminder: {{paper_code}}",
		body:    "This is a friendly reminder that your review of \"{{title}}\" is due on {{due_at}}.",
	},
}

// CorrespondenceService implements the notification outbox: workflow code
// writes pending rows, the dispatcher drains them, the delivery webhook and
// retry job update them afterwards. Queue failures never propagate to the
// triggering business operation.
type CorrespondenceService struct {
	db *gorm.DB
}

// NewCorrespondenceService constructs a CorrespondenceService.
func NewCorrespondenceService(db *gorm.DB) *CorrespondenceService {
	if db == nil {
		db = config.DB
	}
	return &CorrespondenceService{db: db}
}

// renderTemplate substitutes {{key}} placeholders.
func renderTemplate(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// resolveTemplate prefers the active DB template for the event key and falls
// back to the built-in default.
func (s *CorrespondenceService) resolveTemplate(eventKey string) (subject, body string, err error) {
	var tmpl models.EmailTemplate
	dbErr := s.db.Where("event_key = ? AND is_active = ? AND delete_at IS NULL", eventKey, true).
		First(&tmpl).Error
	if dbErr == nil {
		return tmpl.Subject, tmpl.BodyTemplate, nil
	}
	if !errors.Is(dbErr, gorm.ErrRecordNotFound) {
		return "", "", dbErr
	}
	def, ok := defaultTemplates[eventKey]
	if !ok {
		return "", "", fmt.Errorf("no template for event key %s", eventKey)
	}
	return def.subject, def.body, nil
}

// Queue renders the template for the event and inserts a pending outbox row
// with a fresh webhook correlation id.
func (s *CorrespondenceService) Queue(paperID int, eventKey, recipient string, data map[string]string) (*models.PaperCorrespondence, error) {
	subject, body, err := s.resolveTemplate(eventKey)
	if err != nil {
		return nil, err
	}

	subject = renderTemplate(subject, data)
	body = BuildCorrespondenceHTML(subject, strings.Split(renderTemplate(body, data), "\n\n"))

	record := models.PaperCorrespondence{
		PaperID:        paperID,
		Recipient:      recipient,
		Subject:        subject,
		Body:           body,
		EventKey:       eventKey,
		DeliveryStatus: models.DeliveryStatusPending,
		WebhookID:      uuid.New().String(),
		CreateAt:       time.Now(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// QueueForPaper is the best-effort variant used from workflow code paths; a
// queue failure is logged and swallowed so it never blocks the triggering
// action.
func (s *CorrespondenceService) QueueForPaper(paper *models.Paper, eventKey, recipient string, data map[string]string) {
	if recipient == "" {
		return
	}
	if _, err := s.Queue(paper.PaperID, eventKey, recipient, data); err != nil {
		log.Printf("Warning: failed to queue %s correspondence for paper %s: %v", eventKey, paper.PaperCode, err)
	}
}

// trySend performs one SMTP attempt and records the outcome.
func (s *CorrespondenceService) trySend(record *models.PaperCorrespondence) bool {
	now := time.Now()
	err := sendMailFunc([]string{record.Recipient}, record.Subject, record.Body)

	updates := map[string]interface{}{"update_at": now}
	sent := err == nil
	if sent {
		updates["delivery_status"] = models.DeliveryStatusSent
		updates["sent_at"] = now
		updates["last_error"] = nil
	} else {
		msg := err.Error()
		updates["delivery_status"] = models.DeliveryStatusFailed
		updates["last_error"] = msg
		log.Printf("Warning: correspondence %d send failed: %v", record.CorrespondenceID, err)
	}

	if dbErr := s.db.Model(&models.PaperCorrespondence{}).
		Where("correspondence_id = ?", record.CorrespondenceID).
		Updates(updates).Error; dbErr != nil {
		log.Printf("Warning: failed to record send outcome for correspondence %d: %v", record.CorrespondenceID, dbErr)
		return false
	}
	return sent
}

// DispatchPending drains up to limit pending rows through SMTP. Returns the
// number of messages that went out.
func (s *CorrespondenceService) DispatchPending(limit int) int {
	if limit <= 0 {
		limit = 50
	}

	var pending []models.PaperCorrespondence
	if err := s.db.Where("delivery_status = ?", models.DeliveryStatusPending).
		Order("create_at ASC").
		Limit(limit).
		Find(&pending).Error; err != nil {
		log.Printf("Warning: failed to load pending correspondence: %v", err)
		return 0
	}

	sent := 0
	for i := range pending {
		if s.trySend(&pending[i]) {
			sent++
		}
	}
	return sent
}

// RetryFailed re-sends failed rows that still have retry budget, bumping
// retry_count per attempt.
func (s *CorrespondenceService) RetryFailed(limit int) int {
	if limit <= 0 {
		limit = 50
	}

	var failed []models.PaperCorrespondence
	if err := s.db.Where("delivery_status = ? AND retry_count < ?", models.DeliveryStatusFailed, models.MaxDeliveryRetries).
		Order("create_at ASC").
		Limit(limit).
		Find(&failed).Error; err != nil {
		log.Printf("Warning: failed to load failed correspondence: %v", err)
		return 0
	}

	sent := 0
	for i := range failed {
		record := &failed[i]
		if err := s.db.Model(&models.PaperCorrespondence{}).
			Where("correspondence_id = ?", record.CorrespondenceID).
			Update("retry_count", gorm.Expr("retry_count + 1")).Error; err != nil {
			log.Printf("Warning: failed to bump retry count for correspondence %d: %v", record.CorrespondenceID, err)
			continue
		}
		if s.trySend(record) {
			sent++
		}
	}
	return sent
}

// DeliveryEvent is the payload of the provider's delivery-status webhook.
type DeliveryEvent struct {
	WebhookID string     `json:"webhook_id" binding:"required"`
	EventType string     `json:"event_type" binding:"required"`
	Timestamp *time.Time `json:"timestamp"`
	Error     *string    `json:"error,omitempty"`
}

// HandleDeliveryEvent maps a provider callback onto the matching outbox row.
// Duplicate callbacks are applied idempotently (last write wins).
func (s *CorrespondenceService) HandleDeliveryEvent(event DeliveryEvent) error {
	var status string
	switch event.EventType {
	case "delivered":
		status = models.DeliveryStatusDelivered
	case "bounced", "bounce":
		status = models.DeliveryStatusBounced
	case "failed", "failure":
		status = models.DeliveryStatusFailed
	default:
		return fmt.Errorf("%w: unknown event type %q", ErrValidation, event.EventType)
	}

	var record models.PaperCorrespondence
	if err := s.db.Where("webhook_id = ?", event.WebhookID).First(&record).Error; err != nil {
		return err
	}

	now := time.Now()
	ts := now
	if event.Timestamp != nil {
		ts = *event.Timestamp
	}

	updates := map[string]interface{}{
		"delivery_status": status,
		"update_at":       now,
	}
	if status == models.DeliveryStatusDelivered {
		updates["delivered_at"] = ts
	}
	if event.Error != nil {
		updates["last_error"] = *event.Error
	}

	return s.db.Model(&models.PaperCorrespondence{}).
		Where("correspondence_id = ?", record.CorrespondenceID).
		Updates(updates).Error
}
