package controllers

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = int64(20 * 1024 * 1024) // 20MB

var allowedUploadTypes = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// UploadFile stores a manuscript or review report file and records it
// in file_uploads. The returned file_id is referenced by paper
// submissions, resubmissions and review reports.
func UploadFile(c *gin.Context) {
	userID, _ := c.Get("userID")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File size exceeds 20MB limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadTypes[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed, use PDF or Word"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}

	// Shard by year/month like the rest of the archive
	subDir := filepath.Join(uploadPath, time.Now().Format("2006/01"))
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory"})
		return
	}

	storedName := uuid.New().String() + ext
	fullPath := filepath.Join(subDir, storedName)

	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	hash, err := hashFile(fullPath)
	if err != nil {
		os.Remove(fullPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read saved file"})
		return
	}

	now := time.Now()
	upload := models.FileUpload{
		OriginalName: file.Filename,
		StoredPath:   fullPath,
		FileSize:     file.Size,
		MimeType:     file.Header.Get("Content-Type"),
		FileHash:     hash,
		UploadedBy:   userID.(int),
		UploadedAt:   now,
		CreateAt:     now,
		UpdateAt:     now,
	}

	if err := config.DB.Create(&upload).Error; err != nil {
		os.Remove(fullPath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file info"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"file":    upload,
	})
}

// DownloadFile streams a stored file back to the caller. Access is
// granted to the uploader, editors and admins, and reviewers assigned
// to a paper that references the file.
func DownloadFile(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var upload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !canAccessFile(&upload, userID.(int), roleID.(int)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if _, err := os.Stat(upload.StoredPath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found on disk"})
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", upload.OriginalName))
	c.Header("Content-Type", "application/octet-stream")
	c.File(upload.StoredPath)
}

// DeleteFile soft deletes an uploaded file. Only the uploader may
// delete it, and only while no paper or review references it.
func DeleteFile(c *gin.Context) {
	fileID, err := strconv.Atoi(c.Param("file_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}
	userID, _ := c.Get("userID")

	var upload models.FileUpload
	if err := config.DB.Where("file_id = ? AND delete_at IS NULL", fileID).
		First(&upload).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if upload.UploadedBy != userID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	if fileReferenceCount(fileID) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is referenced by a paper or review"})
		return
	}

	now := time.Now()
	upload.DeleteAt = &now
	if err := config.DB.Save(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func canAccessFile(upload *models.FileUpload, userID, roleID int) bool {
	if upload.UploadedBy == userID {
		return true
	}
	if roleID == models.RoleEditor || roleID == models.RoleAdmin {
		return true
	}

	// Reviewers can read manuscript versions of papers assigned to them.
	var count int64
	config.DB.Model(&models.ReviewAssignment{}).
		Joins("JOIN paper_versions ON paper_versions.paper_id = review_assignments.paper_id").
		Where("review_assignments.reviewer_id = ? AND paper_versions.file_id = ?", userID, upload.FileID).
		Count(&count)
	if count > 0 {
		return true
	}

	config.DB.Model(&models.ReviewAssignment{}).
		Joins("JOIN papers ON papers.paper_id = review_assignments.paper_id").
		Where("review_assignments.reviewer_id = ? AND papers.file_id = ?", userID, upload.FileID).
		Count(&count)
	return count > 0
}

func fileReferenceCount(fileID int) int64 {
	var total, count int64
	config.DB.Model(&models.Paper{}).Where("file_id = ?", fileID).Count(&count)
	total += count
	config.DB.Model(&models.PaperVersion{}).Where("file_id = ?", fileID).Count(&count)
	total += count
	config.DB.Model(&models.ReviewSubmission{}).Where("report_file_id = ?", fileID).Count(&count)
	total += count
	return total
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
