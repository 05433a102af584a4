package jobs

import (
	"log"

	"journal-management-api/services"
)

// ReviewReminderJob nudges reviewers whose review due date is approaching.
type ReviewReminderJob struct {
	reviews *services.ReviewService
}

// NewReviewReminderJob constructs a ReviewReminderJob.
func NewReviewReminderJob(reviews *services.ReviewService) *ReviewReminderJob {
	return &ReviewReminderJob{reviews: reviews}
}

func (j *ReviewReminderJob) Name() string {
	return "review_reminder"
}

func (j *ReviewReminderJob) Schedule() string {
	return "@daily"
}

func (j *ReviewReminderJob) Run() {
	if queued := j.reviews.SendDueReminders(); queued > 0 {
		log.Printf("Review reminders: %d queued", queued)
	}
}
