package services

import (
	"log"
	"time"

	"journal-management-api/models"
)

// reminderWindow is how far ahead of the due date the reminder goes out.
const reminderWindow = 3 * 24 * time.Hour

// SendDueReminders queues a reminder email for every incomplete assignment
// whose due date falls inside the reminder window. One reminder per
// assignment window; returns how many were queued.
func (s *ReviewService) SendDueReminders() int {
	now := time.Now()

	var assignments []models.ReviewAssignment
	if err := s.db.Preload("Paper").Preload("Reviewer").
		Where("review_status <> ? AND due_at IS NOT NULL AND due_at BETWEEN ? AND ?",
			models.ReviewStatusCompleted, now, now.Add(reminderWindow)).
		Find(&assignments).Error; err != nil {
		log.Printf("Warning: failed to load assignments for reminders: %v", err)
		return 0
	}

	queued := 0
	for i := range assignments {
		assignment := &assignments[i]
		if assignment.Reviewer.Email == "" {
			continue
		}

		// Skip if a reminder already went out for this window.
		var existing int64
		if err := s.db.Model(&models.PaperCorrespondence{}).
			Where("paper_id = ? AND recipient = ? AND event_key = ? AND create_at > ?",
				assignment.PaperID, assignment.Reviewer.Email, EventKeyReviewReminder,
				assignment.DueAt.Add(-reminderWindow)).
			Count(&existing).Error; err != nil || existing > 0 {
			continue
		}

		s.correspondence.QueueForPaper(&assignment.Paper, EventKeyReviewReminder, assignment.Reviewer.Email, map[string]string{
			"paper_code": assignment.Paper.PaperCode,
			"title":      assignment.Paper.Title,
			"due_at":     assignment.DueAt.Format("2 January 2006"),
		})
		queued++
	}
	return queued
}
