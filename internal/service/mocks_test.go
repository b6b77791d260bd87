package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"himpunan-backend/internal/domain"
)

// fakeTx runs fn inline and records whether it was used.
type fakeTx struct {
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetActor(ctx context.Context, id int32) (*domain.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) ListByOrganization(ctx context.Context, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, orgID, status, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) List(ctx context.Context, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) JoinOrganization(ctx context.Context, userID, orgID int32, status domain.MembershipStatus, at time.Time) error {
	args := m.Called(ctx, userID, orgID, status, at)
	return args.Error(0)
}
func (m *MockUserRepo) Detach(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockUserRepo) UpdateMembershipStatus(ctx context.Context, userID int32, status domain.MembershipStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}
func (m *MockUserRepo) AdjustScore(ctx context.Context, userID, delta int32) (int32, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(int32), args.Error(1)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Organization), args.Get(1).(int32), args.Error(2)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOrganizationRepo) SetAdmin(ctx context.Context, orgID int32, adminID *int32) error {
	args := m.Called(ctx, orgID, adminID)
	return args.Error(0)
}
func (m *MockOrganizationRepo) RecomputeCounters(ctx context.Context, orgID int32) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}
func (m *MockActivityRepo) GetByID(ctx context.Context, id int32) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}
func (m *MockActivityRepo) GetOpenByQRCode(ctx context.Context, id int32, qrCode string) (*domain.Activity, error) {
	args := m.Called(ctx, id, qrCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}
func (m *MockActivityRepo) ListByOrganization(ctx context.Context, orgID int32, status domain.ActivityStatus, page, pageSize int32) ([]domain.Activity, int32, error) {
	args := m.Called(ctx, orgID, status, page, pageSize)
	return args.Get(0).([]domain.Activity), args.Get(1).(int32), args.Error(2)
}
func (m *MockActivityRepo) Update(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}
func (m *MockActivityRepo) UpdateStatus(ctx context.Context, id int32, status domain.ActivityStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockActivityRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockActivityRepo) RefreshStatuses(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockAttendanceRepo
type MockAttendanceRepo struct {
	mock.Mock
}

func (m *MockAttendanceRepo) Create(ctx context.Context, attendance *domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}
func (m *MockAttendanceRepo) GetByID(ctx context.Context, id int32) (*domain.Attendance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}
func (m *MockAttendanceRepo) GetOpenForUpdate(ctx context.Context, activityID, userID int32) (*domain.Attendance, error) {
	args := m.Called(ctx, activityID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}
func (m *MockAttendanceRepo) RecordCheckOut(ctx context.Context, attendance *domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}
func (m *MockAttendanceRepo) ListByActivity(ctx context.Context, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error) {
	args := m.Called(ctx, activityID, status, page, pageSize)
	return args.Get(0).([]domain.Attendance), args.Get(1).(int32), args.Error(2)
}
func (m *MockAttendanceRepo) ListByUser(ctx context.Context, userID int32, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error) {
	args := m.Called(ctx, userID, orgID, page, pageSize)
	return args.Get(0).([]domain.Attendance), args.Get(1).(int32), args.Error(2)
}
func (m *MockAttendanceRepo) Update(ctx context.Context, attendance *domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}
func (m *MockAttendanceRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskRepo) ListByOrganization(ctx context.Context, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error) {
	args := m.Called(ctx, orgID, status, page, pageSize)
	return args.Get(0).([]domain.Task), args.Get(1).(int32), args.Error(2)
}
func (m *MockTaskRepo) ListByAssignee(ctx context.Context, userID int32) ([]domain.Task, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Task), args.Error(1)
}
func (m *MockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockTaskRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockTaskRepo) AddAssignee(ctx context.Context, taskID, userID int32, at time.Time) (*domain.Task, error) {
	args := m.Called(ctx, taskID, userID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}
func (m *MockTaskRepo) ReplaceAssignee(ctx context.Context, taskID, userID int32) error {
	args := m.Called(ctx, taskID, userID)
	return args.Error(0)
}
func (m *MockTaskRepo) ClearAssignees(ctx context.Context, taskID int32) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}
func (m *MockTaskRepo) ReleaseUser(ctx context.Context, userID int32) ([]int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockTaskRepo) MarkScoreCredited(ctx context.Context, taskID int32, at time.Time) (bool, error) {
	args := m.Called(ctx, taskID, at)
	return args.Bool(0), args.Error(1)
}

// MockScoreRepo
type MockScoreRepo struct {
	mock.Mock
}

func (m *MockScoreRepo) CreateTransaction(ctx context.Context, tx *domain.ScoreTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}
func (m *MockScoreRepo) ListByUser(ctx context.Context, userID int32, page, pageSize int32) ([]domain.ScoreTransaction, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.ScoreTransaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockScoreRepo) Sum(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
func (m *MockNotificationRepo) MarkAllAsRead(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationRepo) Delete(ctx context.Context, id, userID int32) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func fixedClock(t time.Time) clock {
	return func() time.Time { return t }
}

func int32Ptr(v int32) *int32 { return &v }

func member(userID, orgID int32) domain.Actor {
	return domain.Actor{UserID: userID, Role: domain.RoleMember, OrganizationID: int32Ptr(orgID), IsActive: true}
}

func orgAdmin(userID, orgID int32) domain.Actor {
	return domain.Actor{UserID: userID, Role: domain.RoleAdmin, OrganizationID: int32Ptr(orgID), IsOrgAdmin: true, IsActive: true}
}
