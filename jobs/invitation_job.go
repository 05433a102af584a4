package jobs

import (
	"log"

	"journal-management-api/services"
)

// InvitationExpiryJob sweeps pending reviewer invitations past their
// response deadline.
type InvitationExpiryJob struct {
	invitations *services.InvitationService
}

// NewInvitationExpiryJob constructs an InvitationExpiryJob.
func NewInvitationExpiryJob(invitations *services.InvitationService) *InvitationExpiryJob {
	return &InvitationExpiryJob{invitations: invitations}
}

func (j *InvitationExpiryJob) Name() string {
	return "invitation_expiry"
}

func (j *InvitationExpiryJob) Schedule() string {
	return "@hourly"
}

func (j *InvitationExpiryJob) Run() {
	if expired := j.invitations.ExpireOverdue(); expired > 0 {
		log.Printf("Invitation expiry sweep: %d invitations expired", expired)
	}
}
