package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// ListPapers returns papers for the editorial desk, filterable by
// status and journal.
func ListPapers(c *gin.Context) {
	query := config.DB.Model(&models.Paper{}).
		Preload("Journal").Preload("Author").
		Where("papers.delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("papers.status = ?", status)
	}
	if journalID := c.Query("journal_id"); journalID != "" {
		query = query.Where("papers.journal_id = ?", journalID)
	}

	var papers []models.Paper
	if err := query.Order("papers.create_at DESC").Find(&papers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch papers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"papers": papers,
		"total":  len(papers),
	})
}

// GetPaper returns a paper with its versions, co-authors, invitations,
// assignments and submitted reviews, confidential comments included.
func GetPaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	var paper models.Paper
	if err := config.DB.
		Preload("Journal").Preload("Author").Preload("File").
		Preload("Versions").Preload("CoAuthors").
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}

	var invitations []models.ReviewerInvitation
	config.DB.Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("create_at DESC").
		Find(&invitations)

	var assignments []models.ReviewAssignment
	config.DB.Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Find(&assignments)

	var reviews []models.ReviewSubmission
	config.DB.Preload("Assignment.Reviewer").
		Joins("JOIN review_assignments ON review_assignments.assignment_id = review_submissions.assignment_id").
		Where("review_assignments.paper_id = ? AND review_submissions.status = ?", paperID, models.SubmissionStatusSubmitted).
		Order("review_submissions.paper_version DESC").
		Find(&reviews)

	var history []models.PaperStatusHistory
	if err := config.DB.Where("paper_id = ?", paperID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	// Editors see confidential comments, so reviews are returned as an
	// explicit payload rather than through the json-hidden struct field.
	reviewPayload := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		reviewPayload = append(reviewPayload, gin.H{
			"submission_id":         r.SubmissionID,
			"reviewer":              r.Assignment.Reviewer,
			"paper_version":         r.PaperVersion,
			"rating_originality":    r.RatingOriginality,
			"rating_methodology":    r.RatingMethodology,
			"rating_clarity":        r.RatingClarity,
			"rating_significance":   r.RatingSignificance,
			"rating_references":     r.RatingReferences,
			"comments_to_author":    r.CommentsToAuthor,
			"confidential_comments": r.ConfidentialComments,
			"recommendation":        r.Recommendation,
			"submitted_at":          r.SubmittedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"paper":       paper,
		"invitations": invitations,
		"assignments": assignments,
		"reviews":     reviewPayload,
		"history":     history,
	})
}

// InviteReviewer creates a reviewer invitation for a paper.
func InviteReviewer(c *gin.Context) {
	var input services.InviteReviewerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}
	input.PaperID = paperID

	svc := services.NewInvitationService(config.DB, services.NewCorrespondenceService(config.DB))
	invitation, err := svc.Invite(currentActor(c), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Reviewer invited",
		"invitation": invitation,
	})
}

// ListInvitations lists all invitations for a paper.
func ListInvitations(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	var invitations []models.ReviewerInvitation
	if err := config.DB.Preload("Reviewer").
		Where("paper_id = ?", paperID).
		Order("create_at DESC").
		Find(&invitations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitations": invitations,
		"total":       len(invitations),
	})
}

// RevokeInvitation withdraws a still-pending invitation.
func RevokeInvitation(c *gin.Context) {
	invitationID, err := strconv.Atoi(c.Param("invitation_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invitation id"})
		return
	}

	svc := services.NewInvitationService(config.DB, nil)
	if err := svc.Revoke(currentActor(c), invitationID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invitation revoked"})
}

// DecidePaper records the editorial decision on a paper.
func DecidePaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	var req struct {
		Decision string `json:"decision" binding:"required"`
		Comments string `json:"comments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision is required"})
		return
	}

	svc := services.NewDecisionService(config.DB, services.NewCorrespondenceService(config.DB))
	paper, err := svc.Decide(currentActor(c), paperID, req.Decision, req.Comments)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Decision recorded",
		"paper":   paper,
	})
}

// StartPublication moves an accepted paper into production.
func StartPublication(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	svc := services.NewPublishingService(config.DB, nil, nil)
	paper, err := svc.StartPublication(currentActor(c), paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Publication started",
		"paper":   paper,
	})
}

// PublishPaper places the paper in an issue, mints the DOI and fires the
// Crossref deposit.
func PublishPaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	var input services.PublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	svc := services.NewPublishingService(config.DB, services.NewCorrespondenceService(config.DB), services.NewCrossrefClient(nil))
	published, err := svc.Publish(currentActor(c), paperID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Paper published successfully",
		"published": published,
	})
}

// CheckDOIStatus queries Crossref for the deposit batch result.
func CheckDOIStatus(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	svc := services.NewPublishingService(config.DB, nil, services.NewCrossrefClient(nil))
	status, err := svc.CheckDOIStatus(currentActor(c), paperID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"doi_status": status})
}
