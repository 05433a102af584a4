package models

import "time"

// Invitation statuses.
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
	InvitationStatusExpired  = "expired"
	InvitationStatusRevoked  = "revoked"
)

// Assignment review statuses.
const (
	ReviewStatusPending    = "pending"
	ReviewStatusInProgress = "in_progress"
	ReviewStatusCompleted  = "completed"
)

// Review submission statuses.
const (
	SubmissionStatusDraft     = "draft"
	SubmissionStatusSubmitted = "submitted"
)

// Reviewer recommendations.
const (
	RecommendationAccept       = "accept"
	RecommendationMinorRevise  = "minor_revision"
	RecommendationMajorRevise  = "major_revision"
	RecommendationReject       = "reject"
)

// ReviewerInvitation is an offer to review one paper. The reviewer is
// addressed either by user id or, for reviewers without an account yet,
// by bare email.
type ReviewerInvitation struct {
	InvitationID int        `gorm:"primaryKey;column:invitation_id" json:"invitation_id"`
	PaperID      int        `gorm:"column:paper_id" json:"paper_id"`
	ReviewerID   *int       `gorm:"column:reviewer_id" json:"reviewer_id,omitempty"`
	InvitedEmail *string    `gorm:"column:invited_email" json:"invited_email,omitempty"`
	Token        string     `gorm:"column:token;unique" json:"-"`
	Status       string     `gorm:"column:status" json:"status"`
	InvitedBy    int        `gorm:"column:invited_by" json:"invited_by"`
	Message      *string    `gorm:"column:message" json:"message,omitempty"`
	ExpiresAt    time.Time  `gorm:"column:expires_at" json:"expires_at"`
	RespondedAt  *time.Time `gorm:"column:responded_at" json:"responded_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`

	Paper    Paper `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// IsExpired reports whether the invitation deadline has passed.
func (i *ReviewerInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// ReviewAssignment links one reviewer to one paper for a review cycle.
// The composite unique index is the authoritative guard against a reviewer
// being assigned to the same paper twice.
type ReviewAssignment struct {
	AssignmentID int        `gorm:"primaryKey;column:assignment_id" json:"assignment_id"`
	PaperID      int        `gorm:"column:paper_id;uniqueIndex:uniq_paper_reviewer" json:"paper_id"`
	ReviewerID   int        `gorm:"column:reviewer_id;uniqueIndex:uniq_paper_reviewer" json:"reviewer_id"`
	InvitationID *int       `gorm:"column:invitation_id" json:"invitation_id,omitempty"`
	ReviewStatus string     `gorm:"column:review_status" json:"review_status"`
	DueAt        *time.Time `gorm:"column:due_at" json:"due_at,omitempty"`
	AssignedAt   time.Time  `gorm:"column:assigned_at" json:"assigned_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`

	Paper    Paper `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
	Reviewer User  `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// ReviewSubmission holds the actual review content, scoped to the paper
// version it was written against so resubmissions get a fresh review row
// without destroying prior history. Unique per (assignment, reviewer,
// paper_version) at the storage layer.
type ReviewSubmission struct {
	SubmissionID         int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	AssignmentID         int        `gorm:"column:assignment_id;uniqueIndex:uniq_assignment_version" json:"assignment_id"`
	ReviewerID           int        `gorm:"column:reviewer_id;uniqueIndex:uniq_assignment_version" json:"reviewer_id"`
	PaperVersion         int        `gorm:"column:paper_version;uniqueIndex:uniq_assignment_version" json:"paper_version"`
	RatingOriginality    int        `gorm:"column:rating_originality" json:"rating_originality"`
	RatingMethodology    int        `gorm:"column:rating_methodology" json:"rating_methodology"`
	RatingClarity        int        `gorm:"column:rating_clarity" json:"rating_clarity"`
	RatingSignificance   int        `gorm:"column:rating_significance" json:"rating_significance"`
	RatingReferences     int        `gorm:"column:rating_references" json:"rating_references"`
	CommentsToAuthor     string     `gorm:"column:comments_to_author" json:"comments_to_author"`
	ConfidentialComments string     `gorm:"column:confidential_comments" json:"-"`
	Recommendation       *string    `gorm:"column:recommendation" json:"recommendation,omitempty"`
	ReportFileID         *int       `gorm:"column:report_file_id" json:"report_file_id,omitempty"`
	ReportVersion        int        `gorm:"column:report_version" json:"report_version"`
	Status               string     `gorm:"column:status" json:"status"`
	SubmittedAt          *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt             *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt             *time.Time `gorm:"column:update_at" json:"update_at"`

	Assignment ReviewAssignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
}

// Ratings returns the five ratings in a fixed order for validation.
func (s *ReviewSubmission) Ratings() []int {
	return []int{
		s.RatingOriginality,
		s.RatingMethodology,
		s.RatingClarity,
		s.RatingSignificance,
		s.RatingReferences,
	}
}

// TableName overrides
func (ReviewerInvitation) TableName() string {
	return "reviewer_invitations"
}

func (ReviewAssignment) TableName() string {
	return "review_assignments"
}

func (ReviewSubmission) TableName() string {
	return "review_submissions"
}
