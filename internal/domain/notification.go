package domain

import "time"

type Notification struct {
	ID             int32             `json:"id"`
	UserID         int32             `json:"user_id"`
	SenderID       *int32            `json:"sender_id"`
	OrganizationID *int32            `json:"organization_id"`
	Title          string            `json:"title"`
	Content        string            `json:"content"`
	Type           string            `json:"type"`
	Priority       string            `json:"priority"`
	IsRead         bool              `json:"is_read"`
	Attributes     map[string]string `json:"attributes"`
	CreatedOn      time.Time         `json:"created_on"`
}

const (
	NotificationMembership = "MEMBERSHIP"
	NotificationTask       = "TASK"
	NotificationScore      = "SCORE"
)
