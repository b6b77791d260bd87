package domain

import (
	"time"

	"himpunan-backend/internal/apperror"
)

type TaskStatus string

const (
	TaskAvailable  TaskStatus = "available"
	TaskClaimed    TaskStatus = "claimed"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskAvailable, TaskClaimed, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ApprovalStatus only matters for tasks with RequiresApproval set.
type ApprovalStatus string

const (
	ApprovalNone     ApprovalStatus = "none"
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

type Task struct {
	ID                 int32          `json:"id"`
	OrganizationID     int32          `json:"organization_id"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	Status             TaskStatus     `json:"status"`
	Priority           TaskPriority   `json:"priority"`
	AssignedToID       *int32         `json:"assigned_to_id"`
	Assignees          []int32        `json:"assignees"`
	CreatedByID        *int32         `json:"created_by_id"`
	ScoreReward        int32          `json:"score_reward"`
	ProgressPercentage int32          `json:"progress_percentage"`
	MaxAssignees       int32          `json:"max_assignees"`
	CurrentAssignees   int32          `json:"current_assignees"`
	RequiresApproval   bool           `json:"requires_approval"`
	ApprovalStatus     ApprovalStatus `json:"approval_status"`
	Category           string         `json:"category"`
	Tags               []string       `json:"tags"`
	DueDate            *time.Time     `json:"due_date"`
	StartDate          *time.Time     `json:"start_date"`
	ClaimedAt          *time.Time     `json:"claimed_at"`
	CompletionDate     *time.Time     `json:"completion_date"`
	ScoreCreditedAt    *time.Time     `json:"score_credited_at"`
	CreatedOn          time.Time      `json:"created_on"`
	UpdatedOn          time.Time      `json:"updated_on"`
}

var (
	ErrTaskNotClaimable   = apperror.Conflict("task is not available for claiming")
	ErrTaskAlreadyClaimed = apperror.Conflict("you have already claimed this task")
	ErrTaskFull           = apperror.Conflict("task has reached its maximum number of assignees")
	ErrTaskCancelled      = apperror.Conflict("cancelled tasks cannot be changed")
	ErrTaskCompleted      = apperror.Conflict("completed tasks cannot be cancelled")
)

// IsAssignee reports whether userID has claimed or was assigned the task.
func (t *Task) IsAssignee(userID int32) bool {
	if t.AssignedToID != nil && *t.AssignedToID == userID {
		return true
	}
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

// CheckClaim validates that userID may take the task right now.
func (t *Task) CheckClaim(userID int32) error {
	if t.IsAssignee(userID) {
		return ErrTaskAlreadyClaimed
	}
	maxAssignees := t.MaxAssignees
	if maxAssignees < 1 {
		maxAssignees = 1
	}
	switch t.Status {
	case TaskAvailable:
	case TaskClaimed:
		if maxAssignees == 1 {
			return ErrTaskNotClaimable
		}
	default:
		return ErrTaskNotClaimable
	}
	if t.CurrentAssignees >= maxAssignees {
		return ErrTaskFull
	}
	return nil
}

// ProgressFor derives the progress percentage for a status. Re-entering
// in_progress never lowers progress below its current value.
func ProgressFor(status TaskStatus, current int32) int32 {
	switch status {
	case TaskAvailable:
		return 0
	case TaskClaimed:
		return 10
	case TaskInProgress:
		if current > 25 && current < 100 {
			return current
		}
		return 25
	case TaskCompleted:
		return 100
	default:
		return current
	}
}

// ValidateStatusChange rejects transitions out of cancelled and from completed to cancelled.
func ValidateStatusChange(from, to TaskStatus) error {
	if from == to {
		return nil
	}
	if !to.Valid() {
		return apperror.Validation("invalid task status")
	}
	if from == TaskCancelled {
		return ErrTaskCancelled
	}
	if from == TaskCompleted && to == TaskCancelled {
		return ErrTaskCompleted
	}
	return nil
}

// CreditDue reports whether the reward should be credited now. The store
// still guards against double crediting through score_credited_at.
func (t *Task) CreditDue() bool {
	if t.Status != TaskCompleted || t.ScoreCreditedAt != nil {
		return false
	}
	if !t.HasAssignees() {
		return false
	}
	return !t.RequiresApproval || t.ApprovalStatus == ApprovalApproved
}

// HasAssignees reports whether anyone holds the task.
func (t *Task) HasAssignees() bool {
	return t.AssignedToID != nil || len(t.Assignees) > 0
}

// release drops every assignee so the task can be claimed again.
func (t *Task) release() {
	t.AssignedToID = nil
	t.Assignees = nil
	t.CurrentAssignees = 0
	t.ClaimedAt = nil
}

// Recipients lists the users credited when the task completes.
func (t *Task) Recipients() []int32 {
	seen := make(map[int32]bool)
	var ids []int32
	if t.AssignedToID != nil {
		seen[*t.AssignedToID] = true
		ids = append(ids, *t.AssignedToID)
	}
	for _, id := range t.Assignees {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// TaskUpdate carries the mutable fields of a task. Nil means unchanged.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *TaskPriority
	AssignedToID *int32
	DueDate      *time.Time
	StartDate    *time.Time
	ScoreReward  *int32
	Category     *string
	Tags         []string
}

// Apply merges u into the task and derives progress, completion date and
// approval state for a status change. Assigning a user to an available task
// claims it, and a task that goes back to available loses its assignees.
func (t *Task) Apply(u TaskUpdate, now time.Time) error {
	target := t.Status
	if u.Status != nil {
		if err := ValidateStatusChange(t.Status, *u.Status); err != nil {
			return err
		}
		target = *u.Status
	}
	if u.AssignedToID != nil {
		if u.Status != nil && *u.Status == TaskAvailable {
			return apperror.Validation("an available task cannot have an assignee")
		}
		if target == TaskAvailable {
			target = TaskClaimed
		}
	} else if target == TaskClaimed && t.Status != TaskClaimed && !t.HasAssignees() {
		return apperror.Validation("a task cannot be claimed without an assignee")
	}
	if u.Priority != nil && !u.Priority.Valid() {
		return apperror.Validation("invalid task priority")
	}
	if u.ScoreReward != nil && *u.ScoreReward < 0 {
		return apperror.Validation("score reward cannot be negative")
	}

	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.AssignedToID != nil {
		id := *u.AssignedToID
		t.AssignedToID = &id
	}
	if u.DueDate != nil {
		t.DueDate = u.DueDate
	}
	if u.StartDate != nil {
		t.StartDate = u.StartDate
	}
	if u.ScoreReward != nil {
		t.ScoreReward = *u.ScoreReward
	}
	if u.Category != nil {
		t.Category = *u.Category
	}
	if u.Tags != nil {
		t.Tags = u.Tags
	}

	if target != t.Status {
		switch target {
		case TaskAvailable:
			t.release()
		case TaskClaimed:
			if t.ClaimedAt == nil {
				claimed := now
				t.ClaimedAt = &claimed
			}
		case TaskCompleted:
			completed := now
			t.CompletionDate = &completed
			if t.RequiresApproval && t.ApprovalStatus != ApprovalApproved {
				t.ApprovalStatus = ApprovalPending
			}
		}
		t.Status = target
		t.ProgressPercentage = ProgressFor(target, t.ProgressPercentage)
	}
	return nil
}
