package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// GetInvitation returns the invitation behind a token together with the
// paper it concerns. The route is public so invited reviewers without an
// account can still read what they were asked to review.
func GetInvitation(c *gin.Context) {
	token := c.Param("token")

	svc := services.NewInvitationService(config.DB, nil)
	invitation, err := svc.FindByToken(token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invitation": invitation,
		"paper": gin.H{
			"paper_id":   invitation.Paper.PaperID,
			"paper_code": invitation.Paper.PaperCode,
			"title":      invitation.Paper.Title,
			"abstract":   invitation.Paper.Abstract,
			"journal":    invitation.Paper.Journal,
		},
	})
}

// AcceptInvitation accepts a pending invitation and creates the review
// assignment.
func AcceptInvitation(c *gin.Context) {
	token := c.Param("token")

	svc := services.NewInvitationService(config.DB, services.NewCorrespondenceService(config.DB))
	assignment, err := svc.Accept(currentActor(c), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation accepted",
		"assignment": assignment,
	})
}

// DeclineInvitation declines a pending invitation.
func DeclineInvitation(c *gin.Context) {
	token := c.Param("token")

	svc := services.NewInvitationService(config.DB, services.NewCorrespondenceService(config.DB))
	invitation, err := svc.Decline(currentActor(c), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invitation declined",
		"invitation": invitation,
	})
}

// ListMyAssignments returns the caller's review assignments with papers.
func ListMyAssignments(c *gin.Context) {
	svc := services.NewReviewService(config.DB, nil)
	assignments, err := svc.ListAssignments(currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": assignments,
		"total":       len(assignments),
	})
}

func assignmentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignment id"})
		return 0, false
	}
	return id, true
}

// GetReviewDraft returns the draft review for the paper's current
// version, creating an empty one on first access.
func GetReviewDraft(c *gin.Context) {
	assignmentID, ok := assignmentIDParam(c)
	if !ok {
		return
	}

	svc := services.NewReviewService(config.DB, nil)
	draft, err := svc.GetOrCreateDraft(currentActor(c), assignmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": draft})
}

// SaveReviewDraft stores work-in-progress review content.
func SaveReviewDraft(c *gin.Context) {
	assignmentID, ok := assignmentIDParam(c)
	if !ok {
		return
	}

	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	svc := services.NewReviewService(config.DB, nil)
	draft, err := svc.SaveDraft(currentActor(c), assignmentID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Draft saved",
		"review":  draft,
	})
}

// SubmitReview finalizes the review for the current paper version.
func SubmitReview(c *gin.Context) {
	assignmentID, ok := assignmentIDParam(c)
	if !ok {
		return
	}

	var input services.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	svc := services.NewReviewService(config.DB, services.NewCorrespondenceService(config.DB))
	review, err := svc.Submit(currentActor(c), assignmentID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// UploadReviewReport links an uploaded file to the review as the
// reviewer's annotated report.
func UploadReviewReport(c *gin.Context) {
	assignmentID, ok := assignmentIDParam(c)
	if !ok {
		return
	}

	var req struct {
		FileID int `json:"file_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id is required"})
		return
	}

	svc := services.NewReviewService(config.DB, nil)
	review, err := svc.AttachReport(currentActor(c), assignmentID, req.FileID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Report attached",
		"review":  review,
	})
}
