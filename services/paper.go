package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"journal-management-api/models"
	"journal-management-api/utils"

	"gorm.io/gorm"
)

// PaperService owns paper submission and resubmission.
type PaperService struct {
	db             *gorm.DB
	correspondence *CorrespondenceService
}

// NewPaperService constructs a PaperService.
func NewPaperService(db *gorm.DB, correspondence *CorrespondenceService) *PaperService {
	if correspondence == nil {
		correspondence = NewCorrespondenceService(db)
	}
	return &PaperService{db: db, correspondence: correspondence}
}

// CoAuthorInput is one structured co-author record on submission.
type CoAuthorInput struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Affiliation     string `json:"affiliation"`
	IsCorresponding bool   `json:"is_corresponding"`
}

// SubmitPaperInput carries the author-facing submission payload.
type SubmitPaperInput struct {
	JournalID       int             `json:"journal_id"`
	Title           string          `json:"title"`
	Abstract        string          `json:"abstract"`
	Keywords        string          `json:"keywords"`
	ResearchArea    string          `json:"research_area"`
	MessageToEditor string          `json:"message_to_editor"`
	TermsAccepted   bool            `json:"terms_accepted"`
	FileID          *int            `json:"file_id"`
	CoAuthors       []CoAuthorInput `json:"co_authors"`
}

// ResubmitPaperInput carries the resubmission payload. Only papers in
// correction status may be resubmitted.
type ResubmitPaperInput struct {
	FileID        *int   `json:"file_id"`
	Reason        string `json:"reason"`
	ChangeSummary string `json:"change_summary"`
}

// SubmitPaper creates the paper at version 1 with status submitted, the
// initial version snapshot and its co-author rows, then queues the
// confirmation email.
func (s *PaperService) SubmitPaper(actor Actor, input SubmitPaperInput) (*models.Paper, error) {
	if !input.TermsAccepted {
		return nil, fmt.Errorf("%w: submission terms must be accepted", ErrValidation)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(input.Abstract) == "" {
		return nil, fmt.Errorf("%w: abstract is required", ErrValidation)
	}
	for _, ca := range input.CoAuthors {
		if !utils.ValidateEmail(ca.Email) {
			return nil, fmt.Errorf("%w: invalid co-author email %q", ErrValidation, ca.Email)
		}
	}

	var journal models.Journal
	if err := s.db.Where("journal_id = ? AND is_active = ? AND delete_at IS NULL", input.JournalID, true).
		First(&journal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: journal not found or inactive", ErrValidation)
		}
		return nil, err
	}

	now := time.Now()
	paper := models.Paper{
		PaperCode:     s.generatePaperCode(journal.ShortCode, now.Year()),
		JournalID:     journal.JournalID,
		AuthorID:      actor.UserID,
		Title:         utils.SanitizeInput(input.Title),
		Abstract:      utils.SanitizeInput(input.Abstract),
		Keywords:      utils.SanitizeInput(input.Keywords),
		Status:        models.PaperStatusSubmitted,
		VersionNumber: 1,
		RevisionCount: 0,
		FileID:        input.FileID,
		TermsAccepted: true,
		SubmittedAt:   &now,
		CreateAt:      &now,
		UpdateAt:      &now,
	}
	if v := utils.SanitizeInput(input.ResearchArea); v != "" {
		paper.ResearchArea = &v
	}
	if v := utils.SanitizeInput(input.MessageToEditor); v != "" {
		paper.MessageToEditor = &v
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&paper).Error; err != nil {
			return err
		}

		version := models.PaperVersion{
			PaperID:       paper.PaperID,
			VersionNumber: 1,
			FileID:        input.FileID,
			UploadedBy:    actor.UserID,
			UploadedAt:    now,
		}
		if err := tx.Create(&version).Error; err != nil {
			return err
		}

		for i, ca := range input.CoAuthors {
			row := models.PaperCoAuthor{
				PaperID:         paper.PaperID,
				Name:            utils.SanitizeInput(ca.Name),
				Email:           utils.SanitizeInput(ca.Email),
				AuthorOrder:     i + 1,
				IsCorresponding: ca.IsCorresponding,
				CreateAt:        &now,
			}
			if aff := utils.SanitizeInput(ca.Affiliation); aff != "" {
				row.Affiliation = &aff
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		history := models.PaperStatusHistory{
			PaperID:   paper.PaperID,
			NewStatus: models.PaperStatusSubmitted,
			Event:     "paper_submitted",
			ChangedBy: actor.UserID,
			CreatedAt: now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}

	s.correspondence.QueueForPaper(&paper, EventKeyPaperSubmitted, actor.Email, map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
	})

	return &paper, nil
}

// ResubmitPaper bumps the version, appends the immutable version snapshot and
// moves the paper from correction to resubmitted. version_number only
// increases; revision_count always equals version_number - 1.
func (s *PaperService) ResubmitPaper(actor Actor, paperID int, input ResubmitPaperInput) (*models.Paper, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, fmt.Errorf("%w: resubmission reason is required", ErrValidation)
	}
	if strings.TrimSpace(input.ChangeSummary) == "" {
		return nil, fmt.Errorf("%w: change summary is required", ErrValidation)
	}

	var paper models.Paper
	if err := s.db.Where("paper_id = ? AND delete_at IS NULL", paperID).First(&paper).Error; err != nil {
		return nil, err
	}
	if paper.AuthorID != actor.UserID {
		return nil, ErrForbidden
	}

	now := time.Now()
	reason := utils.SanitizeInput(input.Reason)
	summary := utils.SanitizeInput(input.ChangeSummary)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ApplyTransition(tx, &paper, EventAuthorResubmitted, actor, &reason); err != nil {
			return err
		}

		newVersion := paper.VersionNumber + 1
		if err := tx.Model(&models.Paper{}).
			Where("paper_id = ?", paper.PaperID).
			Updates(map[string]interface{}{
				"version_number": newVersion,
				"revision_count": newVersion - 1,
				"file_id":        input.FileID,
				"update_at":      now,
			}).Error; err != nil {
			return err
		}
		paper.VersionNumber = newVersion
		paper.RevisionCount = newVersion - 1
		paper.FileID = input.FileID

		version := models.PaperVersion{
			PaperID:       paper.PaperID,
			VersionNumber: newVersion,
			FileID:        input.FileID,
			Reason:        &reason,
			ChangeSummary: &summary,
			UploadedBy:    actor.UserID,
			UploadedAt:    now,
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return nil, err
	}

	s.correspondence.QueueForPaper(&paper, EventKeyPaperResubmitted, actor.Email, map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
		"version":    fmt.Sprintf("%d", paper.VersionNumber),
	})

	return &paper, nil
}

// generatePaperCode produces codes like "IJCS-2026-0042". Sequence collisions
// under concurrency fall back to a random suffix.
func (s *PaperService) generatePaperCode(shortCode string, year int) string {
	prefix := strings.ToUpper(shortCode)
	prefixYearLike := fmt.Sprintf("%s-%d-%%", prefix, year)

	var count int64
	s.db.Model(&models.Paper{}).
		Where("paper_code LIKE ?", prefixYearLike).
		Count(&count)

	for i := int64(1); i <= 10; i++ {
		candidate := fmt.Sprintf("%s-%d-%04d", prefix, year, count+i)

		var existing int64
		s.db.Model(&models.Paper{}).
			Where("paper_code = ?", candidate).
			Count(&existing)

		if existing == 0 {
			return candidate
		}
	}

	bytes := make([]byte, 3)
	rand.Read(bytes)
	return fmt.Sprintf("%s-%d-R-%s", prefix, year, strings.ToUpper(hex.EncodeToString(bytes)))
}
