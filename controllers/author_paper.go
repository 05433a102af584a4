package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/services"

	"github.com/gin-gonic/gin"
)

// SubmitPaper creates a new manuscript submission for the authenticated
// author.
func SubmitPaper(c *gin.Context) {
	var input services.SubmitPaperInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := currentActor(c)
	svc := services.NewPaperService(config.DB, nil)
	paper, err := svc.SubmitPaper(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Paper submitted successfully",
		"paper":   paper,
	})
}

// ListMyPapers returns the author's papers, newest first.
func ListMyPapers(c *gin.Context) {
	actor := currentActor(c)

	var papers []models.Paper
	if err := config.DB.Preload("Journal").
		Where("author_id = ? AND delete_at IS NULL", actor.UserID).
		Order("submitted_at DESC").
		Find(&papers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load papers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"papers": papers})
}

// GetMyPaper returns one of the author's papers with versions, co-authors
// and the author-visible review fields.
func GetMyPaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	actor := currentActor(c)

	var paper models.Paper
	if err := config.DB.Preload("Journal").Preload("Versions").Preload("CoAuthors").Preload("File").
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	if paper.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	// Only submitted reviews, and only the author-visible fields; the json
	// tags on ReviewSubmission already hide confidential comments.
	var reviews []models.ReviewSubmission
	if err := config.DB.
		Joins("JOIN review_assignments ON review_assignments.assignment_id = review_submissions.assignment_id").
		Where("review_assignments.paper_id = ? AND review_submissions.status = ?",
			paper.PaperID, models.SubmissionStatusSubmitted).
		Find(&reviews).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"paper": paper, "reviews": reviews})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paper": paper})
}

// ResubmitPaper records a revised version of a paper in correction status.
func ResubmitPaper(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	var input services.ResubmitPaperInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := currentActor(c)
	svc := services.NewPaperService(config.DB, nil)
	paper, err := svc.ResubmitPaper(actor, paperID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Paper resubmitted successfully",
		"paper":   paper,
	})
}

// GetPaperHistory returns the status history of the author's paper.
func GetPaperHistory(c *gin.Context) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return
	}

	actor := currentActor(c)

	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return
	}
	if paper.AuthorID != actor.UserID && !actor.IsEditor() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	var history []models.PaperStatusHistory
	if err := config.DB.Where("paper_id = ?", paper.PaperID).
		Order("created_at ASC").
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
