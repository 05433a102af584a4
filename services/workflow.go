package services

import (
	"errors"
	"fmt"
	"time"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// Event is a workflow trigger. Every paper status change is the result of
// exactly one event applied through Transition; handlers never write the
// status column directly.
type Event string

const (
	EventReviewerAssigned   Event = "reviewer_assigned"
	EventReviewCompleted    Event = "review_completed"
	EventEditorAccepted     Event = "editor_accepted"
	EventEditorRejected     Event = "editor_rejected"
	EventEditorCorrection   Event = "editor_correction"
	EventAuthorResubmitted  Event = "author_resubmitted"
	EventPublicationStarted Event = "publication_started"
	EventPaperPublished     Event = "paper_published"
)

// ErrInvalidTransition is returned when an event is not legal from the
// paper's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// transitions enumerates every legal (status, event) -> status edge.
// Editor decisions are additionally legal from pre-reviewed statuses; that
// is the documented editor-override path and is flagged by IsEditorOverride.
var transitions = map[string]map[Event]string{
	models.PaperStatusSubmitted: {
		EventReviewerAssigned: models.PaperStatusUnderReview,
		EventReviewCompleted:  models.PaperStatusReviewed,
		EventEditorAccepted:   models.PaperStatusAccepted,
		EventEditorRejected:   models.PaperStatusRejected,
		EventEditorCorrection: models.PaperStatusCorrection,
	},
	models.PaperStatusUnderReview: {
		EventReviewCompleted:  models.PaperStatusReviewed,
		EventEditorAccepted:   models.PaperStatusAccepted,
		EventEditorRejected:   models.PaperStatusRejected,
		EventEditorCorrection: models.PaperStatusCorrection,
	},
	models.PaperStatusReviewed: {
		EventEditorAccepted:   models.PaperStatusAccepted,
		EventEditorRejected:   models.PaperStatusRejected,
		EventEditorCorrection: models.PaperStatusCorrection,
	},
	models.PaperStatusCorrection: {
		EventAuthorResubmitted: models.PaperStatusResubmitted,
	},
	models.PaperStatusResubmitted: {
		EventReviewerAssigned: models.PaperStatusUnderReview,
		EventReviewCompleted:  models.PaperStatusReviewed,
		EventEditorAccepted:   models.PaperStatusAccepted,
		EventEditorRejected:   models.PaperStatusRejected,
		EventEditorCorrection: models.PaperStatusCorrection,
	},
	models.PaperStatusAccepted: {
		EventPublicationStarted: models.PaperStatusUnderPublication,
	},
	models.PaperStatusUnderPublication: {
		EventPaperPublished: models.PaperStatusPublished,
	},
}

// Transition resolves the next status for an event, or ErrInvalidTransition.
func Transition(current string, event Event) (string, error) {
	if edges, ok := transitions[current]; ok {
		if next, ok := edges[event]; ok {
			return next, nil
		}
	}
	return "", fmt.Errorf("%w: %s on %s", ErrInvalidTransition, event, current)
}

// editorDecisionEvents are the three editor decision outcomes.
func isEditorDecision(event Event) bool {
	switch event {
	case EventEditorAccepted, EventEditorRejected, EventEditorCorrection:
		return true
	}
	return false
}

// IsEditorOverride reports whether applying an editor decision from the given
// status skips the review stage. The override is permitted but is recorded in
// the status history so the decision trail shows it.
func IsEditorOverride(current string, event Event) bool {
	return isEditorDecision(event) && current != models.PaperStatusReviewed
}

// ApplyTransition moves the paper to the status the event resolves to,
// persists it and appends a status history row. Call inside a transaction
// when the event has companion writes.
func ApplyTransition(db *gorm.DB, paper *models.Paper, event Event, actor Actor, notes *string) error {
	next, err := Transition(paper.Status, event)
	if err != nil {
		return err
	}

	old := paper.Status
	now := time.Now()

	if IsEditorOverride(old, event) {
		note := "editor decision without completed review stage"
		if notes != nil && *notes != "" {
			note = *notes + " (" + note + ")"
		}
		notes = &note
	}

	paper.Status = next
	paper.UpdateAt = &now
	if err := db.Model(&models.Paper{}).
		Where("paper_id = ?", paper.PaperID).
		Updates(map[string]interface{}{
			"status":    next,
			"update_at": now,
		}).Error; err != nil {
		return err
	}

	history := models.PaperStatusHistory{
		PaperID:   paper.PaperID,
		OldStatus: &old,
		NewStatus: next,
		Event:     string(event),
		ChangedBy: actor.UserID,
		Notes:     notes,
		CreatedAt: now,
	}
	return db.Create(&history).Error
}
