package services

import (
	"fmt"

	"journal-management-api/models"

	"gorm.io/gorm"
)

// DecisionService applies editorial decisions to papers.
type DecisionService struct {
	db             *gorm.DB
	correspondence *CorrespondenceService
}

// NewDecisionService constructs a DecisionService.
func NewDecisionService(db *gorm.DB, correspondence *CorrespondenceService) *DecisionService {
	if correspondence == nil {
		correspondence = NewCorrespondenceService(db)
	}
	return &DecisionService{db: db, correspondence: correspondence}
}

// Editorial decisions accepted by Decide.
const (
	DecisionAccept     = "accept"
	DecisionReject     = "reject"
	DecisionCorrection = "correction"
)

func decisionEvent(decision string) (Event, error) {
	switch decision {
	case DecisionAccept:
		return EventEditorAccepted, nil
	case DecisionReject:
		return EventEditorRejected, nil
	case DecisionCorrection:
		return EventEditorCorrection, nil
	}
	return "", fmt.Errorf("%w: unknown decision %q", ErrValidation, decision)
}

// Decide records the editor's decision. Deciding a paper that never reached
// reviewed status is permitted (editor override) and is flagged as such in
// the status history by ApplyTransition.
func (s *DecisionService) Decide(actor Actor, paperID int, decision, comments string) (*models.Paper, error) {
	if !actor.IsEditor() {
		return nil, ErrForbidden
	}

	event, err := decisionEvent(decision)
	if err != nil {
		return nil, err
	}

	var paper models.Paper
	if err := s.db.Preload("Author").
		Where("paper_id = ? AND delete_at IS NULL", paperID).
		First(&paper).Error; err != nil {
		return nil, err
	}

	var notes *string
	if comments != "" {
		notes = &comments
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return ApplyTransition(tx, &paper, event, actor, notes)
	})
	if err != nil {
		return nil, err
	}

	s.correspondence.QueueForPaper(&paper, EventKeyEditorDecision, paper.Author.Email, map[string]string{
		"paper_code": paper.PaperCode,
		"title":      paper.Title,
		"decision":   decision,
		"comments":   comments,
	})

	return &paper, nil
}
