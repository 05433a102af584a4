package models

import "time"

// Paper statuses. Transitions between them are owned by services/workflow.go;
// nothing else should write paper.status directly.
const (
	PaperStatusSubmitted        = "submitted"
	PaperStatusUnderReview      = "under_review"
	PaperStatusReviewed         = "reviewed"
	PaperStatusAccepted         = "accepted"
	PaperStatusRejected         = "rejected"
	PaperStatusCorrection       = "correction"
	PaperStatusResubmitted      = "resubmitted"
	PaperStatusUnderPublication = "under_publication"
	PaperStatusPublished        = "published"
)

type Paper struct {
	PaperID         int        `gorm:"primaryKey;column:paper_id" json:"paper_id"`
	PaperCode       string     `gorm:"column:paper_code;unique" json:"paper_code"`
	JournalID       int        `gorm:"column:journal_id" json:"journal_id"`
	AuthorID        int        `gorm:"column:author_id" json:"author_id"`
	Title           string     `gorm:"column:title" json:"title"`
	Abstract        string     `gorm:"column:abstract" json:"abstract"`
	Keywords        string     `gorm:"column:keywords" json:"keywords"`
	ResearchArea    *string    `gorm:"column:research_area" json:"research_area,omitempty"`
	Status          string     `gorm:"column:status" json:"status"`
	VersionNumber   int        `gorm:"column:version_number" json:"version_number"`
	RevisionCount   int        `gorm:"column:revision_count" json:"revision_count"`
	FileID          *int       `gorm:"column:file_id" json:"file_id,omitempty"`
	MessageToEditor *string    `gorm:"column:message_to_editor" json:"message_to_editor,omitempty"`
	TermsAccepted   bool       `gorm:"column:terms_accepted" json:"terms_accepted"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt        *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Journal   Journal         `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
	Author    User            `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	File      *FileUpload     `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Versions  []PaperVersion  `gorm:"foreignKey:PaperID" json:"versions,omitempty"`
	CoAuthors []PaperCoAuthor `gorm:"foreignKey:PaperID;constraint:OnDelete:CASCADE" json:"co_authors,omitempty"`
}

// PaperVersion is an append-only snapshot created once per resubmission.
type PaperVersion struct {
	VersionID     int       `gorm:"primaryKey;column:version_id" json:"version_id"`
	PaperID       int       `gorm:"column:paper_id;uniqueIndex:uniq_paper_version_number" json:"paper_id"`
	VersionNumber int       `gorm:"column:version_number;uniqueIndex:uniq_paper_version_number" json:"version_number"`
	FileID        *int      `gorm:"column:file_id" json:"file_id,omitempty"`
	Reason        *string   `gorm:"column:reason" json:"reason,omitempty"`
	ChangeSummary *string   `gorm:"column:change_summary" json:"change_summary,omitempty"`
	UploadedBy    int       `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`

	File *FileUpload `gorm:"foreignKey:FileID" json:"file,omitempty"`
}

type PaperCoAuthor struct {
	CoAuthorID      int        `gorm:"primaryKey;column:co_author_id" json:"co_author_id"`
	PaperID         int        `gorm:"column:paper_id" json:"paper_id"`
	Name            string     `gorm:"column:name" json:"name"`
	Email           string     `gorm:"column:email" json:"email"`
	Affiliation     *string    `gorm:"column:affiliation" json:"affiliation,omitempty"`
	AuthorOrder     int        `gorm:"column:author_order" json:"author_order"`
	IsCorresponding bool       `gorm:"column:is_corresponding" json:"is_corresponding"`
	CreateAt        *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt        *time.Time `gorm:"column:update_at" json:"update_at"`
}

// PaperStatusHistory tracks historical status changes for papers.
type PaperStatusHistory struct {
	HistoryID int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	PaperID   int       `gorm:"column:paper_id" json:"paper_id"`
	OldStatus *string   `gorm:"column:old_status" json:"old_status"`
	NewStatus string    `gorm:"column:new_status" json:"new_status"`
	Event     string    `gorm:"column:event" json:"event"`
	ChangedBy int       `gorm:"column:changed_by" json:"changed_by"`
	Notes     *string   `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Paper) TableName() string {
	return "papers"
}

func (PaperVersion) TableName() string {
	return "paper_versions"
}

func (PaperCoAuthor) TableName() string {
	return "paper_co_authors"
}

func (PaperStatusHistory) TableName() string {
	return "paper_status_history"
}
