package models

import "time"

// DOI registration statuses.
const (
	DOIStatusPending    = "pending"
	DOIStatusRegistered = "registered"
	DOIStatusFailed     = "failed"
)

// PaperPublished is the post-acceptance record carrying the DOI and its
// placement inside a volume/issue.
type PaperPublished struct {
	PublishedID   int        `gorm:"primaryKey;column:published_id" json:"published_id"`
	PaperID       int        `gorm:"column:paper_id;unique" json:"paper_id"`
	IssueID       int        `gorm:"column:issue_id" json:"issue_id"`
	PaperNumber   int        `gorm:"column:paper_number" json:"paper_number"`
	DOI           string     `gorm:"column:doi;unique" json:"doi"`
	DOIStatus     string     `gorm:"column:doi_status" json:"doi_status"`
	DepositBatch  *string    `gorm:"column:deposit_batch" json:"deposit_batch,omitempty"`
	PageStart     *int       `gorm:"column:page_start" json:"page_start,omitempty"`
	PageEnd       *int       `gorm:"column:page_end" json:"page_end,omitempty"`
	PublishedAt   *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`

	Paper Paper        `gorm:"foreignKey:PaperID" json:"paper,omitempty"`
	Issue JournalIssue `gorm:"foreignKey:IssueID" json:"issue,omitempty"`
}

// TableName override
func (PaperPublished) TableName() string {
	return "papers_published"
}
