package controllers

import (
	"net/http"
	"strconv"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

// ListJournals returns the active journals. Public endpoint used by the
// submission form.
func ListJournals(c *gin.Context) {
	var journals []models.Journal
	if err := config.DB.Where("is_active = ? AND delete_at IS NULL", true).
		Order("journal_name ASC").
		Find(&journals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"journals": journals,
		"total":    len(journals),
	})
}

// GetJournal returns one journal with its volumes and issues.
func GetJournal(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal id"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ? AND delete_at IS NULL", journalID).
		First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	var volumes []models.JournalVolume
	config.DB.Where("journal_id = ? AND delete_at IS NULL", journalID).
		Order("volume_number DESC").
		Find(&volumes)

	volumeIDs := make([]int, 0, len(volumes))
	for _, v := range volumes {
		volumeIDs = append(volumeIDs, v.VolumeID)
	}

	var issues []models.JournalIssue
	if len(volumeIDs) > 0 {
		config.DB.Where("volume_id IN ? AND delete_at IS NULL", volumeIDs).
			Order("issue_number DESC").
			Find(&issues)
	}

	c.JSON(http.StatusOK, gin.H{
		"journal": journal,
		"volumes": volumes,
		"issues":  issues,
	})
}

// ListIssueArticles returns the published papers of one issue with their
// DOIs. Public endpoint backing the table of contents.
func ListIssueArticles(c *gin.Context) {
	issueID, err := strconv.Atoi(c.Param("issue_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue id"})
		return
	}

	var issue models.JournalIssue
	if err := config.DB.Preload("Volume.Journal").
		Where("issue_id = ? AND delete_at IS NULL", issueID).
		First(&issue).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	var published []models.PaperPublished
	if err := config.DB.Preload("Paper.Author").Preload("Paper.CoAuthors").
		Where("issue_id = ?", issueID).
		Order("paper_number ASC").
		Find(&published).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch articles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issue":    issue,
		"articles": published,
		"total":    len(published),
	})
}
