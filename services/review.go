package services

import (
	"errors"
	"fmt"
	"time"

	"journal-management-api/models"
	"journal-management-api/utils"

	"gorm.io/gorm"
)

// ReviewService owns review drafting and submission. A review is always
// keyed to the paper's current version_number, so every resubmission opens a
// fresh review row while prior versions keep theirs.
type ReviewService struct {
	db             *gorm.DB
	correspondence *CorrespondenceService
}

// NewReviewService constructs a ReviewService.
func NewReviewService(db *gorm.DB, correspondence *CorrespondenceService) *ReviewService {
	if correspondence == nil {
		correspondence = NewCorrespondenceService(db)
	}
	return &ReviewService{db: db, correspondence: correspondence}
}

// ReviewInput is the reviewer-facing review payload.
type ReviewInput struct {
	RatingOriginality    int    `json:"rating_originality"`
	RatingMethodology    int    `json:"rating_methodology"`
	RatingClarity        int    `json:"rating_clarity"`
	RatingSignificance   int    `json:"rating_significance"`
	RatingReferences     int    `json:"rating_references"`
	CommentsToAuthor     string `json:"comments_to_author"`
	ConfidentialComments string `json:"confidential_comments"`
	Recommendation       string `json:"recommendation"`
}

func (in ReviewInput) ratings() []int {
	return []int{
		in.RatingOriginality,
		in.RatingMethodology,
		in.RatingClarity,
		in.RatingSignificance,
		in.RatingReferences,
	}
}

func validRecommendation(r string) bool {
	switch r {
	case models.RecommendationAccept,
		models.RecommendationMinorRevise,
		models.RecommendationMajorRevise,
		models.RecommendationReject:
		return true
	}
	return false
}

// loadAssignment fetches the assignment with its paper and enforces that the
// actor is the assigned reviewer.
func (s *ReviewService) loadAssignment(actor Actor, assignmentID int) (*models.ReviewAssignment, error) {
	var assignment models.ReviewAssignment
	if err := s.db.Preload("Paper").
		Where("assignment_id = ?", assignmentID).
		First(&assignment).Error; err != nil {
		return nil, err
	}
	if assignment.ReviewerID != actor.UserID {
		return nil, ErrForbidden
	}
	return &assignment, nil
}

// ListAssignments returns the actor's review assignments, newest first.
func (s *ReviewService) ListAssignments(actor Actor) ([]models.ReviewAssignment, error) {
	var assignments []models.ReviewAssignment
	err := s.db.Preload("Paper").Preload("Paper.Journal").
		Where("reviewer_id = ?", actor.UserID).
		Order("assigned_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// GetOrCreateDraft returns the submission row for the paper's current
// version, creating a draft when none exists. Opening the first draft moves
// the assignment from pending to in_progress.
func (s *ReviewService) GetOrCreateDraft(actor Actor, assignmentID int) (*models.ReviewSubmission, error) {
	assignment, err := s.loadAssignment(actor, assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var submission models.ReviewSubmission
	err = s.db.Where("assignment_id = ? AND reviewer_id = ? AND paper_version = ?",
		assignment.AssignmentID, actor.UserID, assignment.Paper.VersionNumber).
		First(&submission).Error
	if err == nil {
		return &submission, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submission = models.ReviewSubmission{
		AssignmentID: assignment.AssignmentID,
		ReviewerID:   actor.UserID,
		PaperVersion: assignment.Paper.VersionNumber,
		Status:       models.SubmissionStatusDraft,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		if assignment.ReviewStatus == models.ReviewStatusPending {
			return tx.Model(&models.ReviewAssignment{}).
				Where("assignment_id = ?", assignment.AssignmentID).
				Updates(map[string]interface{}{
					"review_status": models.ReviewStatusInProgress,
					"update_at":     now,
				}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// SaveDraft stores the work-in-progress review without validation beyond the
// rating scale; unset (zero) ratings are fine until Submit. Draft saves on
// an already submitted version are rejected.
func (s *ReviewService) SaveDraft(actor Actor, assignmentID int, input ReviewInput) (*models.ReviewSubmission, error) {
	if err := utils.ValidateDraftRatings(input.ratings()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	submission, err := s.GetOrCreateDraft(actor, assignmentID)
	if err != nil {
		return nil, err
	}
	if submission.Status == models.SubmissionStatusSubmitted {
		return nil, fmt.Errorf("%w: review already submitted for this version", ErrValidation)
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewSubmission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"rating_originality":    input.RatingOriginality,
			"rating_methodology":    input.RatingMethodology,
			"rating_clarity":        input.RatingClarity,
			"rating_significance":   input.RatingSignificance,
			"rating_references":     input.RatingReferences,
			"comments_to_author":    input.CommentsToAuthor,
			"confidential_comments": input.ConfidentialComments,
			"recommendation":        input.Recommendation,
			"update_at":             now,
		}).Error; err != nil {
		return nil, err
	}

	return s.GetOrCreateDraft(actor, assignmentID)
}

// Submit finalizes the review for the paper's current version: validates the
// ratings and minimum comment length, marks the submission submitted, flips
// the assignment to completed and advances the paper to reviewed when it was
// still in a pre-review status. Submitting twice for the same version
// updates the existing row.
func (s *ReviewService) Submit(actor Actor, assignmentID int, input ReviewInput) (*models.ReviewSubmission, error) {
	if err := utils.ValidateRatings(input.ratings()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if err := utils.ValidateReviewComments(input.CommentsToAuthor, input.ConfidentialComments); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	if !validRecommendation(input.Recommendation) {
		return nil, fmt.Errorf("%w: unknown recommendation %q", ErrValidation, input.Recommendation)
	}

	assignment, err := s.loadAssignment(actor, assignmentID)
	if err != nil {
		return nil, err
	}

	submission, err := s.GetOrCreateDraft(actor, assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ReviewSubmission{}).
			Where("submission_id = ?", submission.SubmissionID).
			Updates(map[string]interface{}{
				"rating_originality":    input.RatingOriginality,
				"rating_methodology":    input.RatingMethodology,
				"rating_clarity":        input.RatingClarity,
				"rating_significance":   input.RatingSignificance,
				"rating_references":     input.RatingReferences,
				"comments_to_author":    input.CommentsToAuthor,
				"confidential_comments": input.ConfidentialComments,
				"recommendation":        input.Recommendation,
				"status":                models.SubmissionStatusSubmitted,
				"submitted_at":          now,
				"update_at":             now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.ReviewAssignment{}).
			Where("assignment_id = ?", assignment.AssignmentID).
			Updates(map[string]interface{}{
				"review_status": models.ReviewStatusCompleted,
				"completed_at":  now,
				"update_at":     now,
			}).Error; err != nil {
			return err
		}

		switch assignment.Paper.Status {
		case models.PaperStatusSubmitted, models.PaperStatusUnderReview, models.PaperStatusResubmitted:
			return ApplyTransition(tx, &assignment.Paper, EventReviewCompleted, actor, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyEditor(assignment)

	var final models.ReviewSubmission
	if err := s.db.Where("submission_id = ?", submission.SubmissionID).First(&final).Error; err != nil {
		return nil, err
	}
	return &final, nil
}

// AttachReport links an uploaded report file to the current-version review
// and bumps the report version counter.
func (s *ReviewService) AttachReport(actor Actor, assignmentID, fileID int) (*models.ReviewSubmission, error) {
	submission, err := s.GetOrCreateDraft(actor, assignmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewSubmission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(map[string]interface{}{
			"report_file_id": fileID,
			"report_version": gorm.Expr("report_version + 1"),
			"update_at":      now,
		}).Error; err != nil {
		return nil, err
	}

	var final models.ReviewSubmission
	if err := s.db.Where("submission_id = ?", submission.SubmissionID).First(&final).Error; err != nil {
		return nil, err
	}
	return &final, nil
}

// notifyEditor queues the review-completed email to the inviting editor.
// Best effort; a missing invitation or editor is silently skipped.
func (s *ReviewService) notifyEditor(assignment *models.ReviewAssignment) {
	if assignment.InvitationID == nil {
		return
	}

	var invitation models.ReviewerInvitation
	if err := s.db.Where("invitation_id = ?", *assignment.InvitationID).First(&invitation).Error; err != nil {
		return
	}

	var editor models.User
	if err := s.db.Where("user_id = ? AND delete_at IS NULL", invitation.InvitedBy).First(&editor).Error; err != nil {
		return
	}

	s.correspondence.QueueForPaper(&assignment.Paper, EventKeyReviewSubmitted, editor.Email, map[string]string{
		"paper_code": assignment.Paper.PaperCode,
		"title":      assignment.Paper.Title,
		"version":    fmt.Sprintf("%d", assignment.Paper.VersionNumber),
	})
}
