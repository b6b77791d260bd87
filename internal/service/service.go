package service

import (
	"context"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/policy"
)

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	// Authenticate resolves a bearer access token to the caller's identity.
	Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error)
}

type UserService interface {
	GetUser(ctx context.Context, actor domain.Actor, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in ProfileUpdate) (*domain.User, error)
	DeleteUser(ctx context.Context, actor domain.Actor, userID int32) error

	// Account management, super admins only.
	ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error)
	CreateAdmin(ctx context.Context, actor domain.Actor, in RegisterInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor domain.Actor, userID int32, in AccountUpdate) (*domain.User, error)
	SetActive(ctx context.Context, actor domain.Actor, userID int32, active bool) (*domain.User, error)
}

type OrganizationService interface {
	CreateOrganization(ctx context.Context, actor domain.Actor, org *domain.Organization, adminID *int32) (*domain.Organization, error)
	GetOrganization(ctx context.Context, id int32) (*domain.Organization, error)
	ListOrganizations(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error)
	UpdateOrganization(ctx context.Context, actor domain.Actor, id int32, in OrganizationUpdate) (*domain.Organization, error)
	DeleteOrganization(ctx context.Context, actor domain.Actor, id int32) error
}

type ActivityService interface {
	CreateActivity(ctx context.Context, actor domain.Actor, in CreateActivityInput) (*domain.Activity, error)
	GetActivity(ctx context.Context, actor domain.Actor, id int32) (*domain.Activity, error)
	ListActivities(ctx context.Context, actor domain.Actor, orgID int32, status domain.ActivityStatus, page, pageSize int32) ([]domain.Activity, int32, error)
	UpdateActivity(ctx context.Context, actor domain.Actor, id int32, in ActivityUpdate) (*domain.Activity, error)
	UpdateActivityStatus(ctx context.Context, actor domain.Actor, id int32, status domain.ActivityStatus) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, actor domain.Actor, id int32) error
	GetQRCode(ctx context.Context, actor domain.Actor, id int32) (*QRCode, error)
	RefreshStatuses(ctx context.Context) (int64, error)
}

type AttendanceService interface {
	CheckIn(ctx context.Context, actor domain.Actor, activityID int32, qrCode, location, notes string) (*domain.Attendance, error)
	CheckOut(ctx context.Context, actor domain.Actor, activityID int32, location string) (*domain.Attendance, error)
	GetActivityAttendances(ctx context.Context, actor domain.Actor, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error)
	GetMyAttendances(ctx context.Context, actor domain.Actor, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error)
	GetAttendance(ctx context.Context, actor domain.Actor, id int32) (*domain.Attendance, error)
	UpdateAttendance(ctx context.Context, actor domain.Actor, id int32, in domain.AttendanceUpdate) (*domain.Attendance, error)
	DeleteAttendance(ctx context.Context, actor domain.Actor, id int32) error
}

type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, in CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error)
	ListTasks(ctx context.Context, actor domain.Actor, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error)
	ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error)
	ClaimTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id int32, in domain.TaskUpdate) (*domain.Task, error)
	CompleteTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error)
	ApproveTask(ctx context.Context, actor domain.Actor, id int32, approve bool) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Actor, id int32) error
}

type MembershipService interface {
	JoinOrganization(ctx context.Context, actor domain.Actor, orgID int32) (*domain.User, error)
	UpdateMembershipStatus(ctx context.Context, actor domain.Actor, userID int32, status domain.MembershipStatus) (*domain.User, error)
	LeaveOrganization(ctx context.Context, actor domain.Actor) error
	RemoveMember(ctx context.Context, actor domain.Actor, userID int32) error
	ChangeOrgAdmin(ctx context.Context, actor domain.Actor, orgID, newAdminID int32) (*domain.Organization, error)
	GetMyMembership(ctx context.Context, actor domain.Actor) (*Membership, error)
	ListMembers(ctx context.Context, actor domain.Actor, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error)
	ListJoinRequests(ctx context.Context, actor domain.Actor, orgID int32, page, pageSize int32) ([]domain.User, int32, error)
}

type ScoreService interface {
	SetScore(ctx context.Context, actor domain.Actor, userID, score int32, reason string) (*domain.User, error)
	GetScoreHistory(ctx context.Context, actor domain.Actor, userID int32, page, pageSize int32) ([]domain.ScoreTransaction, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.Notification, int32, error)
	CountUnread(ctx context.Context, actor domain.Actor) (int32, error)
	MarkAsRead(ctx context.Context, actor domain.Actor, notificationID int32) error
	MarkAllAsRead(ctx context.Context, actor domain.Actor) (int64, error)
	DeleteNotification(ctx context.Context, actor domain.Actor, notificationID int32) error
}

type RegisterInput struct {
	Email       string
	Password    string
	FullName    string
	Username    string
	PhoneNumber string
}

type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// ProfileUpdate carries the self-editable user fields. Nil means unchanged.
type ProfileUpdate struct {
	FullName    *string
	Username    *string
	PhoneNumber *string
}

// AccountUpdate is the administrative edit of an account. Nil means unchanged.
type AccountUpdate struct {
	FullName    *string
	Email       *string
	Username    *string
	PhoneNumber *string
	Role        *domain.Role
	IsActive    *bool
}

type OrganizationUpdate struct {
	Name         *string
	Aka          *string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	Status       *domain.OrganizationStatus
}

type CreateActivityInput struct {
	OrganizationID int32
	Title          string
	Description    string
	Type           string
	StartDateTime  time.Time
	EndDateTime    time.Time
	Location       string
	AttendanceMode domain.AttendanceMode
}

type ActivityUpdate struct {
	Title          *string
	Description    *string
	Type           *string
	StartDateTime  *time.Time
	EndDateTime    *time.Time
	Location       *string
	AttendanceMode *domain.AttendanceMode
}

// QRCode is the check-in token of an activity and its renderable reference.
type QRCode struct {
	ActivityID int32  `json:"activity_id"`
	Token      string `json:"qr_code"`
	URL        string `json:"qr_code_url"`
}

type CreateTaskInput struct {
	OrganizationID   int32
	Title            string
	Description      string
	Priority         domain.TaskPriority
	AssignedToID     *int32
	ScoreReward      int32
	MaxAssignees     int32
	RequiresApproval bool
	Category         string
	Tags             []string
	DueDate          *time.Time
	StartDate        *time.Time
}

// Membership is a user's affiliation together with the organization record.
type Membership struct {
	User         *domain.User         `json:"user"`
	Organization *domain.Organization `json:"organization"`
}

// clock is swapped in tests.
type clock func() time.Time

func authorize(actor domain.Actor, action policy.Action, res policy.Resource) error {
	if !policy.Can(actor, action, res) {
		return apperror.Forbidden("you are not allowed to perform this action")
	}
	return nil
}

// memberResource targets a user within their organization.
func memberResource(u *domain.User) policy.Resource {
	res := policy.Resource{SubjectID: u.ID}
	if u.OrganizationID != nil {
		res.OrganizationID = *u.OrganizationID
	}
	return res
}
