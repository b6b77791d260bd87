package domain

import "time"

type ScoreTransactionType string

const (
	ScoreTaskReward      ScoreTransactionType = "TASK_REWARD"
	ScoreAdminAdjustment ScoreTransactionType = "ADMIN_ADJUSTMENT"
)

// ScoreTransaction is one credited delta. A user's score is the sum of its transactions.
type ScoreTransaction struct {
	ID            int32                `json:"id"`
	UserID        int32                `json:"user_id"`
	Amount        int32                `json:"amount"` // positive for credit, negative for debit
	Type          ScoreTransactionType `json:"type"`
	RelatedTaskID *int32               `json:"related_task_id,omitempty"`
	CreatedByID   *int32               `json:"created_by_id,omitempty"`
	Reason        string               `json:"reason"`
	CreatedOn     time.Time            `json:"created_on"`
}
