package models

import "time"

type Journal struct {
	JournalID   int        `gorm:"primaryKey;column:journal_id" json:"journal_id"`
	JournalName string     `gorm:"column:journal_name" json:"journal_name"`
	ShortCode   string     `gorm:"column:short_code;unique" json:"short_code"`
	ISSN        *string    `gorm:"column:issn" json:"issn,omitempty"`
	EISSN       *string    `gorm:"column:eissn" json:"eissn,omitempty"`
	DOIPrefix   string     `gorm:"column:doi_prefix" json:"doi_prefix"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

type JournalVolume struct {
	VolumeID     int        `gorm:"primaryKey;column:volume_id" json:"volume_id"`
	JournalID    int        `gorm:"column:journal_id" json:"journal_id"`
	VolumeNumber int        `gorm:"column:volume_number" json:"volume_number"`
	Year         int        `gorm:"column:year" json:"year"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Journal Journal `gorm:"foreignKey:JournalID" json:"journal,omitempty"`
}

type JournalIssue struct {
	IssueID     int        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	VolumeID    int        `gorm:"column:volume_id" json:"volume_id"`
	IssueNumber int        `gorm:"column:issue_number" json:"issue_number"`
	Title       *string    `gorm:"column:title" json:"title,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	Volume JournalVolume `gorm:"foreignKey:VolumeID" json:"volume,omitempty"`
}

// TableName overrides
func (Journal) TableName() string {
	return "journals"
}

func (JournalVolume) TableName() string {
	return "journal_volumes"
}

func (JournalIssue) TableName() string {
	return "journal_issues"
}
