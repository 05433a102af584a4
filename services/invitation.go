package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"journal-management-api/models"
	"journal-management-api/utils"

	"gorm.io/gorm"
)

const (
	// invitationExpiryDays is how long a reviewer has to respond.
	invitationExpiryDays = 14
	// defaultReviewDueDays is the review deadline after acceptance, unless
	// REVIEW_DUE_DAYS overrides it.
	defaultReviewDueDays = 21
)

// InvitationService owns the reviewer invitation lifecycle and the creation
// of review assignments on acceptance.
type InvitationService struct {
	db             *gorm.DB
	correspondence *CorrespondenceService
}

// NewInvitationService constructs an InvitationService.
func NewInvitationService(db *gorm.DB, correspondence *CorrespondenceService) *InvitationService {
	if correspondence == nil {
		correspondence = NewCorrespondenceService(db)
	}
	return &InvitationService{db: db, correspondence: correspondence}
}

// InviteReviewerInput targets a reviewer either by user id or, for reviewers
// without an account yet, by bare email.
type InviteReviewerInput struct {
	PaperID    int    `json:"paper_id"`
	ReviewerID *int   `json:"reviewer_id"`
	Email      string `json:"email"`
	Message    string `json:"message"`
}

// Invite creates a pending invitation with a secure token and a 14-day
// response window, then queues the invitation email.
func (s *InvitationService) Invite(actor Actor, input InviteReviewerInput) (*models.ReviewerInvitation, error) {
	if !actor.IsEditor() {
		return nil, ErrForbidden
	}

	var paper models.Paper
	if err := s.db.Where("paper_id = ? AND delete_at IS NULL", input.PaperID).First(&paper).Error; err != nil {
		return nil, err
	}

	var reviewerID *int
	recipient := strings.TrimSpace(strings.ToLower(input.Email))

	if input.ReviewerID != nil {
		var reviewer models.User
		if err := s.db.Where("user_id = ? AND delete_at IS NULL", *input.ReviewerID).First(&reviewer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: reviewer not found", ErrValidation)
			}
			return nil, err
		}
		reviewerID = &reviewer.UserID
		recipient = reviewer.Email
	} else {
		if !utils.ValidateEmail(recipient) {
			return nil, fmt.Errorf("%w: a reviewer id or valid email is required", ErrValidation)
		}
		// A known address becomes a direct user invitation.
		var reviewer models.User
		if err := s.db.Where("email = ? AND delete_at IS NULL", recipient).First(&reviewer).Error; err == nil {
			reviewerID = &reviewer.UserID
		}
	}

	if reviewerID != nil && *reviewerID == paper.AuthorID {
		return nil, fmt.Errorf("%w: the author cannot review their own paper", ErrValidation)
	}

	token, err := utils.GenerateSecureToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invitation := models.ReviewerInvitation{
		PaperID:    paper.PaperID,
		ReviewerID: reviewerID,
		Token:      token,
		Status:     models.InvitationStatusPending,
		InvitedBy:  actor.UserID,
		ExpiresAt:  now.Add(invitationExpiryDays * 24 * time.Hour),
		CreateAt:   &now,
		UpdateAt:   &now,
	}
	if reviewerID == nil {
		invitation.InvitedEmail = &recipient
	}
	if msg := utils.SanitizeInput(input.Message); msg != "" {
		invitation.Message = &msg
	}

	if err := s.db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	s.correspondence.QueueForPaper(&paper, EventKeyReviewerInvited, recipient, map[string]string{
		"paper_code":     paper.PaperCode,
		"title":          paper.Title,
		"expires_at":     invitation.ExpiresAt.Format("2 January 2006"),
		"invitation_url": invitationURL(token),
	})

	return &invitation, nil
}

func invitationURL(token string) string {
	base := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/")
	if base == "" {
		base = "http://localhost:3000"
	}
	return base + "/review-invitations/" + token
}

// FindByToken loads an invitation with its paper for the public landing page.
func (s *InvitationService) FindByToken(token string) (*models.ReviewerInvitation, error) {
	var invitation models.ReviewerInvitation
	if err := s.db.Preload("Paper").Preload("Paper.Journal").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// validateResponse runs the shared accept/decline guards: target identity,
// pending status and expiry (marking the row expired when past deadline).
func (s *InvitationService) validateResponse(actor Actor, invitation *models.ReviewerInvitation) error {
	if invitation.ReviewerID != nil {
		if *invitation.ReviewerID != actor.UserID {
			return ErrForbidden
		}
	} else if invitation.InvitedEmail == nil || !strings.EqualFold(*invitation.InvitedEmail, actor.Email) {
		return ErrForbidden
	}

	switch invitation.Status {
	case models.InvitationStatusPending:
		// fall through to expiry check
	case models.InvitationStatusExpired:
		return ErrInvitationExpired
	default:
		return ErrInvitationClosed
	}

	if invitation.IsExpired(time.Now()) {
		now := time.Now()
		if err := s.db.Model(&models.ReviewerInvitation{}).
			Where("invitation_id = ? AND status = ?", invitation.InvitationID, models.InvitationStatusPending).
			Updates(map[string]interface{}{
				"status":    models.InvitationStatusExpired,
				"update_at": now,
			}).Error; err != nil {
			log.Printf("Warning: failed to mark invitation %d expired: %v", invitation.InvitationID, err)
		}
		invitation.Status = models.InvitationStatusExpired
		return ErrInvitationExpired
	}

	return nil
}

// Accept turns a pending invitation into a review assignment. The composite
// unique index on (paper_id, reviewer_id) backs the duplicate pre-check, so
// two concurrent accepts cannot both insert.
func (s *InvitationService) Accept(actor Actor, token string) (*models.ReviewAssignment, error) {
	invitation, err := s.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if err := s.validateResponse(actor, invitation); err != nil {
		return nil, err
	}

	now := time.Now()
	dueDays := defaultReviewDueDays
	if v, err := strconv.Atoi(os.Getenv("REVIEW_DUE_DAYS")); err == nil && v > 0 {
		dueDays = v
	}
	dueAt := now.Add(time.Duration(dueDays) * 24 * time.Hour)

	assignment := models.ReviewAssignment{
		PaperID:      invitation.PaperID,
		ReviewerID:   actor.UserID,
		InvitationID: &invitation.InvitationID,
		ReviewStatus: models.ReviewStatusPending,
		DueAt:        &dueAt,
		AssignedAt:   now,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.ReviewAssignment{}).
			Where("paper_id = ? AND reviewer_id = ?", invitation.PaperID, actor.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateAssignment
		}

		if err := tx.Create(&assignment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateAssignment
			}
			return err
		}

		if err := tx.Model(&models.ReviewerInvitation{}).
			Where("invitation_id = ?", invitation.InvitationID).
			Updates(map[string]interface{}{
				"status":       models.InvitationStatusAccepted,
				"reviewer_id":  actor.UserID,
				"responded_at": now,
				"update_at":    now,
			}).Error; err != nil {
			return err
		}

		// The first accepted assignment moves the paper into review.
		paper := invitation.Paper
		switch paper.Status {
		case models.PaperStatusSubmitted, models.PaperStatusResubmitted:
			return ApplyTransition(tx, &paper, EventReviewerAssigned, actor, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &assignment, nil
}

// Decline marks the invitation declined. Same guards as Accept.
func (s *InvitationService) Decline(actor Actor, token string) (*models.ReviewerInvitation, error) {
	invitation, err := s.FindByToken(token)
	if err != nil {
		return nil, err
	}
	if err := s.validateResponse(actor, invitation); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewerInvitation{}).
		Where("invitation_id = ?", invitation.InvitationID).
		Updates(map[string]interface{}{
			"status":       models.InvitationStatusDeclined,
			"responded_at": now,
			"update_at":    now,
		}).Error; err != nil {
		return nil, err
	}

	invitation.Status = models.InvitationStatusDeclined
	invitation.RespondedAt = &now
	return invitation, nil
}

// Revoke lets the inviting editor withdraw a pending invitation.
func (s *InvitationService) Revoke(actor Actor, invitationID int) error {
	if !actor.IsEditor() {
		return ErrForbidden
	}

	result := s.db.Model(&models.ReviewerInvitation{}).
		Where("invitation_id = ? AND status = ?", invitationID, models.InvitationStatusPending).
		Updates(map[string]interface{}{
			"status":    models.InvitationStatusRevoked,
			"update_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ExpireOverdue flips pending invitations past their deadline to expired.
// Run periodically by the scheduler; returns how many rows were updated.
func (s *InvitationService) ExpireOverdue() int {
	result := s.db.Model(&models.ReviewerInvitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationStatusPending, time.Now()).
		Updates(map[string]interface{}{
			"status":    models.InvitationStatusExpired,
			"update_at": time.Now(),
		})
	if result.Error != nil {
		log.Printf("Warning: invitation expiry sweep failed: %v", result.Error)
		return 0
	}
	return int(result.RowsAffected)
}
