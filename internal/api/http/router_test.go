package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/service"
)

type routerFixture struct {
	auth       *MockAuthService
	users      *MockUserService
	orgs       *MockOrganizationService
	membership *MockMembershipService
	attendance *MockAttendanceService
	tasks      *MockTaskService
	router     http.Handler
	actor      domain.Actor
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	orgID := int32(1)
	f := &routerFixture{
		auth:       new(MockAuthService),
		users:      new(MockUserService),
		orgs:       new(MockOrganizationService),
		membership: new(MockMembershipService),
		attendance: new(MockAttendanceService),
		tasks:      new(MockTaskService),
		actor:      domain.Actor{UserID: 7, Role: domain.RoleMember, OrganizationID: &orgID, IsActive: true},
	}
	f.router = NewRouter(Services{
		Auth:         f.auth,
		User:         f.users,
		Organization: f.orgs,
		Membership:   f.membership,
		Attendance:   f.attendance,
		Task:         f.tasks,
	}, 5*time.Second)

	actor := f.actor
	f.auth.On("Authenticate", mock.Anything, "good-token").Return(&actor, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything, "bad-token").Return(nil, apperror.Unauthenticated("invalid or expired token")).Maybe()
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestRouter_Authentication(t *testing.T) {
	t.Run("Missing token is rejected", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodGet, "/api/auth/me", "", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, apperror.KindUnauthenticated, env.Kind)
		assert.Equal(t, "authorization token is not provided", env.Message)
	})

	t.Run("Invalid token is rejected", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodGet, "/api/tasks/my", "bad-token", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.tasks.AssertNotCalled(t, "ListMyTasks", mock.Anything, mock.Anything)
	})

	t.Run("Public routes skip authentication", func(t *testing.T) {
		f := newRouterFixture(t)
		f.orgs.On("ListOrganizations", mock.Anything, int32(2), int32(5)).
			Return([]domain.Organization{{ID: 1, Name: "HMIF"}}, int32(6), nil)

		rec := f.do(http.MethodGet, "/api/himpunan?page=2&limit=5", "", "")

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, int32(2), env.Pagination.TotalPages)
		f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Health check", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodGet, "/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Refresh route passes the raw token", func(t *testing.T) {
		f := newRouterFixture(t)
		f.auth.On("RefreshToken", mock.Anything, "refresh-token").
			Return(&service.AuthResult{AccessToken: "a", RefreshToken: "r"}, nil)

		rec := f.do(http.MethodPost, "/api/auth/refresh-token", "refresh-token", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		f.auth.AssertNotCalled(t, "Authenticate", mock.Anything, "refresh-token")
	})
}

func TestRouter_CheckIn(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendance.On("CheckIn", mock.Anything, f.actor, int32(5), "abc123", "Hall A", "").
			Return(&domain.Attendance{ID: 9, ActivityID: 5, UserID: 7, Status: domain.AttendancePresent}, nil)

		rec := f.do(http.MethodPost, "/api/attendances/check-in", "good-token",
			`{"activity_id":5,"qr_code":"abc123","location":"Hall A"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeEnvelope(t, rec).Success)
	})

	t.Run("Duplicate check-in is a conflict", func(t *testing.T) {
		f := newRouterFixture(t)
		f.attendance.On("CheckIn", mock.Anything, f.actor, int32(5), "abc123", "", "").
			Return(nil, apperror.Conflict("already attended this activity"))

		rec := f.do(http.MethodPost, "/api/attendances/check-in", "good-token",
			`{"activity_id":5,"qr_code":"abc123"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, apperror.KindConflict, env.Kind)
		assert.Equal(t, "already attended this activity", env.Message)
	})

	t.Run("Validation errors are reported per field", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodPost, "/api/attendances/check-in", "good-token", `{"qr_code":"  "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.Equal(t, apperror.KindValidation, env.Kind)
		assert.Contains(t, env.Errors, "activity_id")
		assert.Equal(t, "qr_code cannot be blank", env.Errors["qr_code"])
		f.attendance.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown fields are rejected", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodPost, "/api/attendances/check-in", "good-token",
			`{"activity_id":5,"qr_code":"abc123","user_id":99}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeEnvelope(t, rec).Message)
	})
}

func TestRouter_Tasks(t *testing.T) {
	t.Run("Taking a claimed task is a conflict", func(t *testing.T) {
		f := newRouterFixture(t)
		f.tasks.On("ClaimTask", mock.Anything, f.actor, int32(12)).
			Return(nil, apperror.Conflict("task is already claimed by another user"))

		rec := f.do(http.MethodPost, "/api/tasks/12/take", "good-token", "")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("My tasks is not shadowed by the id route", func(t *testing.T) {
		f := newRouterFixture(t)
		f.tasks.On("ListMyTasks", mock.Anything, f.actor).Return([]domain.Task(nil), nil)

		rec := f.do(http.MethodGet, "/api/tasks/my", "good-token", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
	})

	t.Run("Approve requires a decision", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodPatch, "/api/tasks/12/approve", "good-token", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRouter_Membership(t *testing.T) {
	t.Run("Join organization", func(t *testing.T) {
		f := newRouterFixture(t)
		f.membership.On("JoinOrganization", mock.Anything, f.actor, int32(3)).
			Return(&domain.User{ID: 7, MembershipStatus: domain.MembershipPending}, nil)

		rec := f.do(http.MethodPost, "/api/users/join-himpunan", "good-token", `{"himpunan_id":3}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		f.membership.AssertExpectations(t)
	})

	t.Run("Forbidden status change", func(t *testing.T) {
		f := newRouterFixture(t)
		f.membership.On("UpdateMembershipStatus", mock.Anything, f.actor, int32(8), domain.MembershipActive).
			Return(nil, apperror.Forbidden("you are not allowed to perform this action"))

		rec := f.do(http.MethodPut, "/api/users/8/membership-status", "good-token", `{"membership_status":"active"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("Unexpected errors hide their cause", func(t *testing.T) {
		f := newRouterFixture(t)
		f.membership.On("LeaveOrganization", mock.Anything, f.actor).Return(assert.AnError)

		rec := f.do(http.MethodDelete, "/api/users/leave-himpunan", "good-token", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeEnvelope(t, rec).Message)
	})
}

func TestRouter_Accounts(t *testing.T) {
	t.Run("Create admin", func(t *testing.T) {
		f := newRouterFixture(t)
		in := service.RegisterInput{Email: "sari@hmif.id", Password: "secret123", FullName: "Sari"}
		f.users.On("CreateAdmin", mock.Anything, f.actor, in).
			Return(&domain.User{ID: 12, Email: in.Email, Role: domain.RoleAdmin, IsActive: true}, nil)

		rec := f.do(http.MethodPost, "/api/admins", "good-token",
			`{"email":"sari@hmif.id","password":"secret123","full_name":"Sari"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("Deactivate account", func(t *testing.T) {
		f := newRouterFixture(t)
		f.users.On("SetActive", mock.Anything, f.actor, int32(8), false).
			Return(&domain.User{ID: 8, IsActive: false}, nil)

		rec := f.do(http.MethodPost, "/api/users/8/deactivate", "good-token", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "account deactivated", decodeEnvelope(t, rec).Message)
	})

	t.Run("Change role", func(t *testing.T) {
		f := newRouterFixture(t)
		role := domain.RoleAdmin
		f.users.On("UpdateUser", mock.Anything, f.actor, int32(8), service.AccountUpdate{Role: &role}).
			Return(&domain.User{ID: 8, Role: domain.RoleAdmin}, nil)

		rec := f.do(http.MethodPut, "/api/users/8", "good-token", `{"role":"admin"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown role is rejected", func(t *testing.T) {
		f := newRouterFixture(t)
		rec := f.do(http.MethodPut, "/api/users/8", "good-token", `{"role":"owner"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeEnvelope(t, rec).Errors, "role")
	})

	t.Run("List users with filters", func(t *testing.T) {
		f := newRouterFixture(t)
		f.users.On("ListUsers", mock.Anything, f.actor, domain.UserFilter{Search: "budi", Role: domain.RoleMember}, int32(1), int32(10)).
			Return([]domain.User{{ID: 7}}, int32(1), nil)

		rec := f.do(http.MethodGet, "/api/users?search=budi&role=member&page=1&limit=10", "good-token", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRouter_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/api/nothing-here", "good-token", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decodeEnvelope(t, rec).Message)
}
