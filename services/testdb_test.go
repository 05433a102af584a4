package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory sqlite database with the full schema
// migrated, so the composite unique indexes are enforced in tests.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Journal{},
		&models.JournalVolume{},
		&models.JournalIssue{},
		&models.FileUpload{},
		&models.Paper{},
		&models.PaperVersion{},
		&models.PaperCoAuthor{},
		&models.PaperStatusHistory{},
		&models.ReviewerInvitation{},
		&models.ReviewAssignment{},
		&models.ReviewSubmission{},
		&models.PaperCorrespondence{},
		&models.EmailTemplate{},
		&models.PaperPublished{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// captureMail swaps the SMTP send function for the duration of the test and
// records every outgoing message.
type sentMail struct {
	To      []string
	Subject string
	Body    string
}

func captureMail(t *testing.T) *[]sentMail {
	t.Helper()

	var sent []sentMail
	original := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error {
		sent = append(sent, sentMail{To: to, Subject: subject, Body: html})
		return nil
	}
	t.Cleanup(func() { sendMailFunc = original })
	return &sent
}

func failMail(t *testing.T) {
	t.Helper()

	original := sendMailFunc
	sendMailFunc = func(to []string, subject, html string) error {
		return fmt.Errorf("smtp unavailable")
	}
	t.Cleanup(func() { sendMailFunc = original })
}

// Fixture helpers.

func createTestUser(t *testing.T, db *gorm.DB, email string, roleID int) *models.User {
	t.Helper()

	now := time.Now()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "not-a-real-hash",
		RoleID:    roleID,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func createTestJournal(t *testing.T, db *gorm.DB) *models.Journal {
	t.Helper()

	now := time.Now()
	journal := models.Journal{
		JournalName: "International Journal of Computer Science",
		ShortCode:   "IJCS",
		DOIPrefix:   "10.5555",
		IsActive:    true,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if err := db.Create(&journal).Error; err != nil {
		t.Fatalf("failed to create journal: %v", err)
	}
	return &journal
}

var paperCodeSeq int64

func createTestPaper(t *testing.T, db *gorm.DB, journal *models.Journal, author *models.User, status string) *models.Paper {
	t.Helper()

	now := time.Now()
	paper := models.Paper{
		PaperCode:     fmt.Sprintf("IJCS-2026-%04d", atomic.AddInt64(&paperCodeSeq, 1)),
		JournalID:     journal.JournalID,
		AuthorID:      author.UserID,
		Title:         "A Study of Things",
		Abstract:      "We study things and report findings.",
		Status:        status,
		VersionNumber: 1,
		RevisionCount: 0,
		TermsAccepted: true,
		SubmittedAt:   &now,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if err := db.Create(&paper).Error; err != nil {
		t.Fatalf("failed to create paper: %v", err)
	}

	version := models.PaperVersion{
		PaperID:       paper.PaperID,
		VersionNumber: 1,
		UploadedBy:    author.UserID,
		UploadedAt:    now,
	}
	if err := db.Create(&version).Error; err != nil {
		t.Fatalf("failed to create paper version: %v", err)
	}
	return &paper
}

func createTestAssignment(t *testing.T, db *gorm.DB, paper *models.Paper, reviewer *models.User) *models.ReviewAssignment {
	t.Helper()

	now := time.Now()
	due := now.Add(21 * 24 * time.Hour)
	assignment := models.ReviewAssignment{
		PaperID:      paper.PaperID,
		ReviewerID:   reviewer.UserID,
		ReviewStatus: models.ReviewStatusPending,
		DueAt:        &due,
		AssignedAt:   now,
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("failed to create assignment: %v", err)
	}
	return &assignment
}

func actorFor(user *models.User) Actor {
	return Actor{UserID: user.UserID, Email: user.Email, RoleID: user.RoleID}
}
