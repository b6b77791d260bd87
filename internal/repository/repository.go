package repository

import (
	"context"
	"time"

	"himpunan-backend/internal/domain"
)

// Transactor runs fn as a single atomic unit. Repository calls made with the
// context passed to fn join the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetActor(ctx context.Context, id int32) (*domain.Actor, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
	ListByOrganization(ctx context.Context, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error)
	List(ctx context.Context, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error)

	// Membership
	JoinOrganization(ctx context.Context, userID, orgID int32, status domain.MembershipStatus, at time.Time) error
	Detach(ctx context.Context, userID int32) (int32, error)
	UpdateMembershipStatus(ctx context.Context, userID int32, status domain.MembershipStatus) error

	// AdjustScore adds delta to the user's score and returns the new score.
	AdjustScore(ctx context.Context, userID, delta int32) (int32, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error)
	Update(ctx context.Context, org *domain.Organization) error
	Delete(ctx context.Context, id int32) error
	SetAdmin(ctx context.Context, orgID int32, adminID *int32) error
	// RecomputeCounters rewrites total_members, total_activities and total_tasks from the source rows.
	RecomputeCounters(ctx context.Context, orgID int32) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id int32) (*domain.Activity, error)
	// GetOpenByQRCode finds an activity by id and QR token that still accepts check-ins.
	GetOpenByQRCode(ctx context.Context, id int32, qrCode string) (*domain.Activity, error)
	ListByOrganization(ctx context.Context, orgID int32, status domain.ActivityStatus, page, pageSize int32) ([]domain.Activity, int32, error)
	Update(ctx context.Context, activity *domain.Activity) error
	UpdateStatus(ctx context.Context, id int32, status domain.ActivityStatus) error
	Delete(ctx context.Context, id int32) error
	RefreshStatuses(ctx context.Context, now time.Time) (int64, error)
}

type AttendanceRepository interface {
	Create(ctx context.Context, attendance *domain.Attendance) error
	GetByID(ctx context.Context, id int32) (*domain.Attendance, error)
	// GetOpenForUpdate locks the user's attendance for the activity that has not been checked out.
	GetOpenForUpdate(ctx context.Context, activityID, userID int32) (*domain.Attendance, error)
	RecordCheckOut(ctx context.Context, attendance *domain.Attendance) error
	ListByActivity(ctx context.Context, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error)
	ListByUser(ctx context.Context, userID int32, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error)
	Update(ctx context.Context, attendance *domain.Attendance) error
	Delete(ctx context.Context, id int32) error
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int32) (*domain.Task, error)
	GetForUpdate(ctx context.Context, id int32) (*domain.Task, error)
	ListByOrganization(ctx context.Context, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error)
	ListByAssignee(ctx context.Context, userID int32) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int32) error
	// AddAssignee claims the task for userID, guarded by the task's current status and capacity.
	AddAssignee(ctx context.Context, taskID, userID int32, at time.Time) (*domain.Task, error)
	ReplaceAssignee(ctx context.Context, taskID, userID int32) error
	// ClearAssignees drops every claim on the task.
	ClearAssignees(ctx context.Context, taskID int32) error
	// ReleaseUser gives back the claim slots userID holds on open tasks and
	// returns the organizations those tasks belong to.
	ReleaseUser(ctx context.Context, userID int32) ([]int32, error)
	// MarkScoreCredited stamps the task as credited and reports whether this call did it.
	MarkScoreCredited(ctx context.Context, taskID int32, at time.Time) (bool, error)
}

type ScoreRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.ScoreTransaction) error
	ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.ScoreTransaction, int32, error)
	Sum(ctx context.Context, userID int32) (int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, userID int32) (int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
	MarkAllAsRead(ctx context.Context, userID int32) (int64, error)
	Delete(ctx context.Context, id, userID int32) error
}
