package jobs

import (
	"log"

	"journal-management-api/services"
)

// CorrespondenceJob drains the notification outbox and retries failed
// deliveries on every tick.
type CorrespondenceJob struct {
	correspondence *services.CorrespondenceService
}

// NewCorrespondenceJob constructs a CorrespondenceJob.
func NewCorrespondenceJob(correspondence *services.CorrespondenceService) *CorrespondenceJob {
	return &CorrespondenceJob{correspondence: correspondence}
}

func (j *CorrespondenceJob) Name() string {
	return "correspondence_dispatch"
}

func (j *CorrespondenceJob) Schedule() string {
	return "@every 1m"
}

func (j *CorrespondenceJob) Run() {
	sent := j.correspondence.DispatchPending(50)
	retried := j.correspondence.RetryFailed(50)
	if sent > 0 || retried > 0 {
		log.Printf("Correspondence dispatch: %d sent, %d retried successfully", sent, retried)
	}
}
