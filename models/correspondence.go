package models

import "time"

// Correspondence delivery statuses. pending -> sent/failed locally, then the
// provider webhook may move sent -> delivered/bounced/failed.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusSent      = "sent"
	DeliveryStatusFailed    = "failed"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusBounced   = "bounced"
)

// MaxDeliveryRetries caps how often the retry job re-sends a failed record.
const MaxDeliveryRetries = 3

// PaperCorrespondence is an outbox row: written pending by the workflow,
// drained by the dispatcher, updated by the delivery webhook.
type PaperCorrespondence struct {
	CorrespondenceID int        `gorm:"primaryKey;column:correspondence_id" json:"correspondence_id"`
	PaperID          int        `gorm:"column:paper_id" json:"paper_id"`
	Recipient        string     `gorm:"column:recipient" json:"recipient"`
	Subject          string     `gorm:"column:subject" json:"subject"`
	Body             string     `gorm:"column:body" json:"-"`
	EventKey         string     `gorm:"column:event_key" json:"event_key"`
	DeliveryStatus   string     `gorm:"column:delivery_status" json:"delivery_status"`
	RetryCount       int        `gorm:"column:retry_count" json:"retry_count"`
	WebhookID        string     `gorm:"column:webhook_id;unique" json:"webhook_id"`
	LastError        *string    `gorm:"column:last_error" json:"last_error,omitempty"`
	SentAt           *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	DeliveredAt      *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CreateAt         time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
}

// EmailTemplate holds the per-event subject/body templates with
// {{placeholder}} substitution.
type EmailTemplate struct {
	TemplateID   int        `gorm:"primaryKey;column:template_id" json:"template_id"`
	EventKey     string     `gorm:"column:event_key;unique" json:"event_key"`
	Subject      string     `gorm:"column:subject" json:"subject"`
	BodyTemplate string     `gorm:"column:body_template" json:"body_template"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (PaperCorrespondence) TableName() string {
	return "paper_correspondence"
}

func (EmailTemplate) TableName() string {
	return "email_templates"
}
