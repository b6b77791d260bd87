package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Actor), args.Error(1)
}

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) CreateOrganization(ctx context.Context, actor domain.Actor, org *domain.Organization, adminID *int32) (*domain.Organization, error) {
	args := m.Called(ctx, actor, org, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) GetOrganization(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) ListOrganizations(ctx context.Context, page, pageSize int32) ([]domain.Organization, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Organization), args.Get(1).(int32), args.Error(2)
}

func (m *MockOrganizationService) UpdateOrganization(ctx context.Context, actor domain.Actor, id int32, in service.OrganizationUpdate) (*domain.Organization, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) DeleteOrganization(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockMembershipService struct {
	mock.Mock
}

func (m *MockMembershipService) JoinOrganization(ctx context.Context, actor domain.Actor, orgID int32) (*domain.User, error) {
	args := m.Called(ctx, actor, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockMembershipService) UpdateMembershipStatus(ctx context.Context, actor domain.Actor, userID int32, status domain.MembershipStatus) (*domain.User, error) {
	args := m.Called(ctx, actor, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockMembershipService) LeaveOrganization(ctx context.Context, actor domain.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockMembershipService) RemoveMember(ctx context.Context, actor domain.Actor, userID int32) error {
	return m.Called(ctx, actor, userID).Error(0)
}

func (m *MockMembershipService) ChangeOrgAdmin(ctx context.Context, actor domain.Actor, orgID, newAdminID int32) (*domain.Organization, error) {
	args := m.Called(ctx, actor, orgID, newAdminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockMembershipService) GetMyMembership(ctx context.Context, actor domain.Actor) (*service.Membership, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Membership), args.Error(1)
}

func (m *MockMembershipService) ListMembers(ctx context.Context, actor domain.Actor, orgID int32, status domain.MembershipStatus, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, actor, orgID, status, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

func (m *MockMembershipService) ListJoinRequests(ctx context.Context, actor domain.Actor, orgID int32, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, actor, orgID, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) CheckIn(ctx context.Context, actor domain.Actor, activityID int32, qrCode, location, notes string) (*domain.Attendance, error) {
	args := m.Called(ctx, actor, activityID, qrCode, location, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceService) CheckOut(ctx context.Context, actor domain.Actor, activityID int32, location string) (*domain.Attendance, error) {
	args := m.Called(ctx, actor, activityID, location)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceService) GetActivityAttendances(ctx context.Context, actor domain.Actor, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error) {
	args := m.Called(ctx, actor, activityID, status, page, pageSize)
	return args.Get(0).([]domain.Attendance), args.Get(1).(int32), args.Error(2)
}

func (m *MockAttendanceService) GetMyAttendances(ctx context.Context, actor domain.Actor, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error) {
	args := m.Called(ctx, actor, orgID, page, pageSize)
	return args.Get(0).([]domain.Attendance), args.Get(1).(int32), args.Error(2)
}

func (m *MockAttendanceService) GetAttendance(ctx context.Context, actor domain.Actor, id int32) (*domain.Attendance, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceService) UpdateAttendance(ctx context.Context, actor domain.Actor, id int32, in domain.AttendanceUpdate) (*domain.Attendance, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceService) DeleteAttendance(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, actor domain.Actor, in service.CreateTaskInput) (*domain.Task, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, actor domain.Actor, orgID int32, status domain.TaskStatus, page, pageSize int32) ([]domain.Task, int32, error) {
	args := m.Called(ctx, actor, orgID, status, page, pageSize)
	return args.Get(0).([]domain.Task), args.Get(1).(int32), args.Error(2)
}

func (m *MockTaskService) ListMyTasks(ctx context.Context, actor domain.Actor) ([]domain.Task, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskService) ClaimTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, actor domain.Actor, id int32, in domain.TaskUpdate) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) CompleteTask(ctx context.Context, actor domain.Actor, id int32) (*domain.Task, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) ApproveTask(ctx context.Context, actor domain.Actor, id int32, approve bool) (*domain.Task, error) {
	args := m.Called(ctx, actor, id, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, actor domain.Actor, id int32) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, actor domain.Actor, userID int32) (*domain.User, error) {
	return m.user(m.Called(ctx, actor, userID))
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor domain.Actor, in service.ProfileUpdate) (*domain.User, error) {
	return m.user(m.Called(ctx, actor, in))
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor domain.Actor, userID int32) error {
	args := m.Called(ctx, actor, userID)
	return args.Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, actor domain.Actor, filter domain.UserFilter, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, actor, filter, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

func (m *MockUserService) CreateAdmin(ctx context.Context, actor domain.Actor, in service.RegisterInput) (*domain.User, error) {
	return m.user(m.Called(ctx, actor, in))
}

func (m *MockUserService) UpdateUser(ctx context.Context, actor domain.Actor, userID int32, in service.AccountUpdate) (*domain.User, error) {
	return m.user(m.Called(ctx, actor, userID, in))
}

func (m *MockUserService) SetActive(ctx context.Context, actor domain.Actor, userID int32, active bool) (*domain.User, error) {
	return m.user(m.Called(ctx, actor, userID, active))
}
