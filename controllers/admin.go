package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

// === Journal management ===

type journalRequest struct {
	JournalName string  `json:"journal_name" binding:"required"`
	ShortCode   string  `json:"short_code" binding:"required"`
	DOIPrefix   string  `json:"doi_prefix" binding:"required"`
	ISSN        *string `json:"issn"`
	EISSN       *string `json:"eissn"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// CreateJournal registers a new journal.
func CreateJournal(c *gin.Context) {
	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "journal_name, short_code and doi_prefix are required"})
		return
	}

	shortCode := strings.ToUpper(strings.TrimSpace(req.ShortCode))

	var count int64
	config.DB.Model(&models.Journal{}).
		Where("short_code = ? AND delete_at IS NULL", shortCode).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Short code already in use"})
		return
	}

	now := time.Now()
	journal := models.Journal{
		JournalName: strings.TrimSpace(req.JournalName),
		ShortCode:   shortCode,
		DOIPrefix:   strings.TrimSpace(req.DOIPrefix),
		ISSN:        req.ISSN,
		EISSN:       req.EISSN,
		Description: req.Description,
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if req.IsActive != nil {
		journal.IsActive = *req.IsActive
	}

	if err := config.DB.Create(&journal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Journal created successfully",
		"journal": journal,
	})
}

// UpdateJournal updates journal details.
func UpdateJournal(c *gin.Context) {
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

	var req journalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	updates := map[string]interface{}{
		"journal_name": strings.TrimSpace(req.JournalName),
		"doi_prefix":   strings.TrimSpace(req.DOIPrefix),
		"issn":         req.ISSN,
		"eissn":        req.EISSN,
		"description":  req.Description,
		"update_at":    time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := config.DB.Model(&journal).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Journal updated successfully",
		"journal": journal,
	})
}

// CreateVolume adds a volume to a journal.
func CreateVolume(c *gin.Context) {
	journalID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid journal id"})
		return
	}

	var req struct {
		VolumeNumber int `json:"volume_number" binding:"required"`
		Year         int `json:"year" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volume_number and year are required"})
		return
	}

	var journal models.Journal
	if err := config.DB.Where("journal_id = ? AND delete_at IS NULL", journalID).
		First(&journal).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}

	var count int64
	config.DB.Model(&models.JournalVolume{}).
		Where("journal_id = ? AND volume_number = ? AND delete_at IS NULL", journalID, req.VolumeNumber).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Volume number already exists for this journal"})
		return
	}

	now := time.Now()
	volume := models.JournalVolume{
		JournalID:    journalID,
		VolumeNumber: req.VolumeNumber,
		Year:         req.Year,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := config.DB.Create(&volume).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create volume"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Volume created successfully",
		"volume":  volume,
	})
}

// CreateIssue adds an issue to a volume.
func CreateIssue(c *gin.Context) {
	volumeID, err := strconv.Atoi(c.Param("volume_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid volume id"})
		return
	}

	var req struct {
		IssueNumber int     `json:"issue_number" binding:"required"`
		Title       *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "issue_number is required"})
		return
	}

	var volume models.JournalVolume
	if err := config.DB.Where("volume_id = ? AND delete_at IS NULL", volumeID).
		First(&volume).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Volume not found"})
		return
	}

	var count int64
	config.DB.Model(&models.JournalIssue{}).
		Where("volume_id = ? AND issue_number = ? AND delete_at IS NULL", volumeID, req.IssueNumber).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Issue number already exists for this volume"})
		return
	}

	now := time.Now()
	issue := models.JournalIssue{
		VolumeID:    volumeID,
		IssueNumber: req.IssueNumber,
		Title:       req.Title,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := config.DB.Create(&issue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Issue created successfully",
		"issue":   issue,
	})
}

// === User management ===

// ListUsers returns all users, filterable by role.
func ListUsers(c *gin.Context) {
	query := config.DB.Preload("Role").Where("delete_at IS NULL")
	if roleID := c.Query("role_id"); roleID != "" {
		query = query.Where("role_id = ?", roleID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ?", like, like, like)
	}

	var users []models.User
	if err := query.Order("user_id ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": len(users),
	})
}

// UpdateUserRole changes a user's role, typically promoting an author to
// reviewer or editor.
func UpdateUserRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req struct {
		RoleID int `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role_id is required"})
		return
	}
	if req.RoleID < models.RoleAuthor || req.RoleID > models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := config.DB.Model(&user).Updates(map[string]interface{}{
		"role_id":   req.RoleID,
		"update_at": time.Now(),
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User role updated successfully",
		"user":    user,
	})
}

// === Email templates ===

// ListEmailTemplates returns the stored overrides for outgoing email.
func ListEmailTemplates(c *gin.Context) {
	var templates []models.EmailTemplate
	if err := config.DB.Where("delete_at IS NULL").
		Order("event_key ASC").
		Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"templates": templates,
		"total":     len(templates),
	})
}

// UpsertEmailTemplate creates or replaces the template for one event key.
// Built-in defaults apply for event keys without an active override.
func UpsertEmailTemplate(c *gin.Context) {
	var req struct {
		EventKey     string `json:"event_key" binding:"required"`
		Subject      string `json:"subject" binding:"required"`
		BodyTemplate string `json:"body_template" binding:"required"`
		IsActive     *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_key, subject and body_template are required"})
		return
	}

	now := time.Now()
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	var template models.EmailTemplate
	err := config.DB.Where("event_key = ? AND delete_at IS NULL", req.EventKey).
		First(&template).Error
	if err != nil {
		template = models.EmailTemplate{
			EventKey:     req.EventKey,
			Subject:      req.Subject,
			BodyTemplate: req.BodyTemplate,
			IsActive:     active,
			CreateAt:     &now,
			UpdateAt:     &now,
		}
		if err := config.DB.Create(&template).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save template"})
			return
		}
	} else {
		if err := config.DB.Model(&template).Updates(map[string]interface{}{
			"subject":       req.Subject,
			"body_template": req.BodyTemplate,
			"is_active":     active,
			"update_at":     now,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save template"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Template saved successfully",
		"template": template,
	})
}

// === Correspondence log ===

// ListCorrespondence returns the email outbox, filterable by paper and
// delivery status.
func ListCorrespondence(c *gin.Context) {
	query := config.DB.Model(&models.PaperCorrespondence{})

	if paperID := c.Query("paper_id"); paperID != "" {
		query = query.Where("paper_id = ?", paperID)
	}
	if status := c.Query("delivery_status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}

	var rows []models.PaperCorrespondence
	if err := query.Order("create_at DESC").Limit(200).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch correspondence"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"correspondence": rows,
		"total":          len(rows),
	})
}
