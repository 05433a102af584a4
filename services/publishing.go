package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"journal-management-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishingService handles the accepted -> under_publication -> published
// tail of the workflow: issue placement, DOI minting and the Crossref
// deposit.
type PublishingService struct {
	db             *gorm.DB
	correspondence *CorrespondenceService
	crossref       *CrossrefClient
}

// NewPublishingService constructs a PublishingService.
func NewPublishingService(db *gorm.DB, correspondence *CorrespondenceService, crossref *CrossrefClient) *PublishingService {
	if correspondence == nil {
		correspondence = NewCorrespondenceService(db)
	}
	if crossref == nil {
		crossref = NewCrossrefClient(nil)
	}
	return &PublishingService{db: db, correspondence: correspondence, crossref: crossref}
}

// StartPublication moves an accepted paper into production.
func (s *PublishingService) StartPublication(actor Actor, paperID int) (*models.Paper, error) {
	if !actor.IsEditor() {
		return nil, ErrForbidden
	}

	var paper models.Paper
	if err := s.db.Where("paper_id = ? AND delete_at IS NULL", paperID).First(&paper).Error; err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return ApplyTransition(tx, &paper, EventPublicationStarted, actor, nil)
	})
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// PublishInput places the paper inside an issue.
type PublishInput struct {
	IssueID     int  `json:"issue_id"`
	PaperNumber int  `json:"paper_number"`
	PageStart   *int `json:"page_start"`
	PageEnd     *int `json:"page_end"`
}

// Publish mints the DOI, writes the papers_published record and flips the
// paper to published, then fires the Crossref deposit best effort. A failed
// deposit leaves doi_status=pending for a later manual re-check; publication
// itself never fails because of Crossref.
func (s *PublishingService) Publish(actor Actor, paperID int, input PublishInput) (*models.PaperPublished, error) {
	if !actor.IsEditor() {
		return nil, ErrForbidden
	}
	if input.PaperNumber < 1 || input.PaperNumber > 99 {
		return nil, fmt.Errorf("%w: paper number must be between 1 and 99", ErrValidation)
	}

	var paper models.Paper
	if err := s.db.Preload("Author").Preload("Journal").Preload("CoAuthors").
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		return nil, err
	}

	var issue models.JournalIssue
	if err := s.db.Preload("Volume").
		Where("issue_id = ? AND delete_at IS NULL", input.IssueID).
		First(&issue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: issue not found", ErrValidation)
		}
		return nil, err
	}
	if issue.Volume.JournalID != paper.JournalID {
		return nil, fmt.Errorf("%w: issue belongs to a different journal", ErrValidation)
	}

	doi := FormatDOI(
		paper.Journal.DOIPrefix,
		paper.Journal.ShortCode,
		issue.Volume.Year,
		issue.Volume.VolumeNumber,
		issue.IssueNumber,
		input.PaperNumber,
	)

	now := time.Now()
	batchID := uuid.New().String()
	published := models.PaperPublished{
		PaperID:      paper.PaperID,
		IssueID:      issue.IssueID,
		PaperNumber:  input.PaperNumber,
		DOI:          doi,
		DOIStatus:    models.DOIStatusPending,
		DepositBatch: &batchID,
		PageStart:    input.PageStart,
		PageEnd:      input.PageEnd,
		PublishedAt:  &now,
		CreateAt:     &now,
		UpdateAt:     &now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&published).Error; err != nil {
			return err
		}
		return ApplyTransition(tx, &paper, EventPaperPublished, actor, nil)
	})
	if err != nil {
		return nil, err
	}

	s.depositDOI(&paper, &issue, &published)

	s.correspondence.QueueForPaper(&paper, EventKeyPaperPublished, paper.Author.Email, map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
		"doi":        doi,
	})

	return &published, nil
}

// depositDOI builds and submits the Crossref deposit, recording the outcome
// on the published row. Best effort by design.
func (s *PublishingService) depositDOI(paper *models.Paper, issue *models.JournalIssue, published *models.PaperPublished) {
	if !s.crossref.Configured() {
		log.Printf("Crossref deposit skipped for %s: credentials not configured", published.DOI)
		return
	}

	deposit := ArticleDeposit{
		BatchID:      *published.DepositBatch,
		JournalTitle: paper.Journal.JournalName,
		Year:         issue.Volume.Year,
		Volume:       issue.Volume.VolumeNumber,
		Issue:        issue.IssueNumber,
		ArticleTitle: paper.Title,
		DOI:          published.DOI,
		ResourceURL:  articleURL(paper.PaperCode),
		PageStart:    published.PageStart,
		PageEnd:      published.PageEnd,
		Authors:      depositAuthors(paper),
	}
	if paper.Journal.ISSN != nil {
		deposit.ISSN = *paper.Journal.ISSN
	}

	status := models.DOIStatusRegistered
	if err := s.crossref.Deposit(deposit); err != nil {
		log.Printf("Warning: crossref deposit for %s failed: %v", published.DOI, err)
		status = models.DOIStatusFailed
	}

	if err := s.db.Model(&models.PaperPublished{}).
		Where("published_id = ?", published.PublishedID).
		Updates(map[string]interface{}{
			"doi_status": status,
			"update_at":  time.Now(),
		}).Error; err != nil {
		log.Printf("Warning: failed to record doi status for %s: %v", published.DOI, err)
		return
	}
	published.DOIStatus = status
}

// CheckDOIStatus fetches the Crossref submission result for a paper's
// deposit batch.
func (s *PublishingService) CheckDOIStatus(actor Actor, paperID int) (string, error) {
	if !actor.IsEditor() {
		return "", ErrForbidden
	}

	var published models.PaperPublished
	if err := s.db.Where("paper_id = ?", paperID).First(&published).Error; err != nil {
		return "", err
	}
	if published.DepositBatch == nil {
		return "", fmt.Errorf("%w: no deposit batch recorded for this paper", ErrValidation)
	}

	return s.crossref.CheckStatus(*published.DepositBatch)
}

func depositAuthors(paper *models.Paper) []DepositAuthor {
	authors := []DepositAuthor{{
		GivenName: paper.Author.FirstName,
		Surname:   paper.Author.LastName,
	}}
	for _, ca := range paper.CoAuthors {
		given, surname := splitName(ca.Name)
		authors = append(authors, DepositAuthor{GivenName: given, Surname: surname})
	}
	return authors
}

// splitName breaks a display name into given name and surname, keeping the
// last token as the surname.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func articleURL(paperCode string) string {
	base := strings.TrimRight(os.Getenv("FRONTEND_URL"), "/")
	if base == "" {
		base = "http://localhost:3000"
	}
	return base + "/articles/" + paperCode
}
