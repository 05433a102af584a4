package controllers

import (
	"net/http"
	"strconv"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadOwnedPaper fetches a paper and checks the actor owns it.
func loadOwnedPaper(c *gin.Context) (*models.Paper, bool) {
	paperID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid paper id"})
		return nil, false
	}

	actor := currentActor(c)
	var paper models.Paper
	if err := config.DB.Where("paper_id = ? AND delete_at IS NULL", paperID).First(&paper).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Paper not found"})
		return nil, false
	}
	if paper.AuthorID != actor.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return nil, false
	}
	return &paper, true
}

type coAuthorRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Affiliation     string `json:"affiliation"`
	IsCorresponding bool   `json:"is_corresponding"`
}

// AddCoAuthor appends a co-author to the paper.
func AddCoAuthor(c *gin.Context) {
	paper, ok := loadOwnedPaper(c)
	if !ok {
		return
	}

	var req coAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-author email"})
		return
	}

	var maxOrder int64
	config.DB.Model(&models.PaperCoAuthor{}).
		Where("paper_id = ?", paper.PaperID).
		Count(&maxOrder)

	now := time.Now()
	row := models.PaperCoAuthor{
		PaperID:         paper.PaperID,
		Name:            utils.SanitizeInput(req.Name),
		Email:           utils.SanitizeInput(req.Email),
		AuthorOrder:     int(maxOrder) + 1,
		IsCorresponding: req.IsCorresponding,
		CreateAt:        &now,
	}
	if aff := utils.SanitizeInput(req.Affiliation); aff != "" {
		row.Affiliation = &aff
	}

	if err := config.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add co-author"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"co_author": row})
}

// UpdateCoAuthor edits a co-author record.
func UpdateCoAuthor(c *gin.Context) {
	paper, ok := loadOwnedPaper(c)
	if !ok {
		return
	}

	coAuthorID, err := strconv.Atoi(c.Param("co_author_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-author id"})
		return
	}

	var req coAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-author email"})
		return
	}

	var row models.PaperCoAuthor
	if err := config.DB.Where("co_author_id = ? AND paper_id = ?", coAuthorID, paper.PaperID).
		First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Co-author not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"name":             utils.SanitizeInput(req.Name),
		"email":            utils.SanitizeInput(req.Email),
		"is_corresponding": req.IsCorresponding,
		"update_at":        now,
	}
	if aff := utils.SanitizeInput(req.Affiliation); aff != "" {
		updates["affiliation"] = aff
	}

	if err := config.DB.Model(&models.PaperCoAuthor{}).
		Where("co_author_id = ?", row.CoAuthorID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update co-author"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Co-author updated successfully"})
}

// DeleteCoAuthor removes a co-author and closes the order gap.
func DeleteCoAuthor(c *gin.Context) {
	paper, ok := loadOwnedPaper(c)
	if !ok {
		return
	}

	coAuthorID, err := strconv.Atoi(c.Param("co_author_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid co-author id"})
		return
	}

	var row models.PaperCoAuthor
	if err := config.DB.Where("co_author_id = ? AND paper_id = ?", coAuthorID, paper.PaperID).
		First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Co-author not found"})
		return
	}

	if err := config.DB.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete co-author"})
		return
	}

	config.DB.Model(&models.PaperCoAuthor{}).
		Where("paper_id = ? AND author_order > ?", paper.PaperID, row.AuthorOrder).
		Update("author_order", gorm.Expr("author_order - 1"))

	c.JSON(http.StatusOK, gin.H{"message": "Co-author removed successfully"})
}
