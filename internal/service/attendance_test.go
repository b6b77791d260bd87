package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
)

func newAttendanceFixture(now time.Time) (*attendanceService, *MockAttendanceRepo, *MockActivityRepo) {
	attRepo := new(MockAttendanceRepo)
	actRepo := new(MockActivityRepo)
	svc := NewAttendanceService(&fakeTx{}, attRepo, actRepo).(*attendanceService)
	svc.now = fixedClock(now)
	return svc, attRepo, actRepo
}

func openActivity() *domain.Activity {
	return &domain.Activity{
		ID:             5,
		OrganizationID: 1,
		StartDateTime:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		EndDateTime:    time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Status:         domain.ActivityScheduled,
		QRCode:         "abc123",
	}
}

func TestAttendanceService_CheckIn(t *testing.T) {
	ctx := context.Background()

	t.Run("Before start is present", func(t *testing.T) {
		svc, attRepo, actRepo := newAttendanceFixture(time.Date(2025, 3, 1, 9, 55, 0, 0, time.UTC))
		actRepo.On("GetOpenByQRCode", ctx, int32(5), "abc123").Return(openActivity(), nil)
		attRepo.On("Create", ctx, mock.AnythingOfType("*domain.Attendance")).Return(nil)

		att, err := svc.CheckIn(ctx, member(7, 1), 5, "abc123", "Hall A", "")
		require.NoError(t, err)
		assert.Equal(t, domain.AttendancePresent, att.Status)
		assert.Equal(t, int32(7), att.UserID)
		assert.Equal(t, "Hall A", att.Location)
	})

	t.Run("After start is late", func(t *testing.T) {
		svc, attRepo, actRepo := newAttendanceFixture(time.Date(2025, 3, 1, 10, 1, 0, 0, time.UTC))
		actRepo.On("GetOpenByQRCode", ctx, int32(5), "abc123").Return(openActivity(), nil)
		attRepo.On("Create", ctx, mock.AnythingOfType("*domain.Attendance")).Return(nil)

		att, err := svc.CheckIn(ctx, member(7, 1), 5, "abc123", "", "")
		require.NoError(t, err)
		assert.Equal(t, domain.AttendanceLate, att.Status)
	})

	t.Run("Second check-in conflicts", func(t *testing.T) {
		svc, attRepo, actRepo := newAttendanceFixture(time.Date(2025, 3, 1, 10, 5, 0, 0, time.UTC))
		actRepo.On("GetOpenByQRCode", ctx, int32(5), "abc123").Return(openActivity(), nil)
		attRepo.On("Create", ctx, mock.AnythingOfType("*domain.Attendance")).Return(nil).Once()
		attRepo.On("Create", ctx, mock.AnythingOfType("*domain.Attendance")).Return(apperror.Conflict("already attended this activity")).Once()

		_, err := svc.CheckIn(ctx, member(7, 1), 5, "abc123", "", "")
		require.NoError(t, err)
		_, err = svc.CheckIn(ctx, member(7, 1), 5, "abc123", "", "")
		assert.True(t, apperror.Is(err, apperror.KindConflict))
		assert.Equal(t, "already attended this activity", apperror.PublicMessage(err))
	})

	t.Run("Invalid QR code", func(t *testing.T) {
		svc, _, actRepo := newAttendanceFixture(time.Now())
		actRepo.On("GetOpenByQRCode", ctx, int32(5), "wrong").Return(nil, apperror.NotFound("invalid QR code or activity"))

		_, err := svc.CheckIn(ctx, member(7, 1), 5, "wrong", "", "")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})

	t.Run("Member of another organization", func(t *testing.T) {
		svc, attRepo, actRepo := newAttendanceFixture(time.Now())
		actRepo.On("GetOpenByQRCode", ctx, int32(5), "abc123").Return(openActivity(), nil)

		_, err := svc.CheckIn(ctx, member(7, 2), 5, "abc123", "", "")
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
		attRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAttendanceService_CheckOut(t *testing.T) {
	ctx := context.Background()
	checkIn := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, attRepo, _ := newAttendanceFixture(time.Date(2025, 3, 1, 10, 32, 40, 0, time.UTC))

	open := &domain.Attendance{ID: 21, ActivityID: 5, UserID: 7, CheckInTime: checkIn, Status: domain.AttendancePresent}
	attRepo.On("GetOpenForUpdate", ctx, int32(5), int32(7)).Return(open, nil).Once()
	attRepo.On("RecordCheckOut", ctx, open).Return(nil).Once()
	attRepo.On("GetOpenForUpdate", ctx, int32(5), int32(7)).Return(nil, apperror.NotFound("no open attendance found for this activity")).Once()

	att, err := svc.CheckOut(ctx, member(7, 1), 5, "")
	require.NoError(t, err)
	require.NotNil(t, att.Duration)
	assert.Equal(t, int32(33), *att.Duration)
	require.NotNil(t, att.CheckOutTime)

	_, err = svc.CheckOut(ctx, member(7, 1), 5, "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	attRepo.AssertNumberOfCalls(t, "RecordCheckOut", 1)
}

func TestAttendanceService_GetAttendance(t *testing.T) {
	ctx := context.Background()
	svc, attRepo, actRepo := newAttendanceFixture(time.Now())

	attRepo.On("GetByID", ctx, int32(21)).Return(&domain.Attendance{ID: 21, ActivityID: 5, UserID: 7}, nil)
	actRepo.On("GetByID", ctx, int32(5)).Return(openActivity(), nil)

	_, err := svc.GetAttendance(ctx, member(7, 1), 21)
	assert.NoError(t, err)

	_, err = svc.GetAttendance(ctx, member(8, 1), 21)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.GetAttendance(ctx, orgAdmin(2, 1), 21)
	assert.NoError(t, err)
}

func TestAttendanceService_UpdateAttendance(t *testing.T) {
	ctx := context.Background()
	svc, attRepo, actRepo := newAttendanceFixture(time.Now())

	att := &domain.Attendance{ID: 21, ActivityID: 5, UserID: 7, Status: domain.AttendanceLate}
	attRepo.On("GetByID", ctx, int32(21)).Return(att, nil)
	actRepo.On("GetByID", ctx, int32(5)).Return(openActivity(), nil)
	attRepo.On("Update", ctx, att).Return(nil)

	excused := domain.AttendanceExcused
	res, err := svc.UpdateAttendance(ctx, orgAdmin(2, 1), 21, domain.AttendanceUpdate{Status: &excused})
	require.NoError(t, err)
	assert.Equal(t, domain.AttendanceExcused, res.Status)

	bogus := domain.AttendanceStatus("gone")
	_, err = svc.UpdateAttendance(ctx, orgAdmin(2, 1), 21, domain.AttendanceUpdate{Status: &bogus})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAttendanceService_GetActivityAttendances(t *testing.T) {
	ctx := context.Background()
	svc, attRepo, actRepo := newAttendanceFixture(time.Now())

	actRepo.On("GetByID", ctx, int32(5)).Return(openActivity(), nil)
	attRepo.On("ListByActivity", ctx, int32(5), domain.AttendanceLate, int32(1), int32(domain.DefaultPageSize)).
		Return([]domain.Attendance{{ID: 1}}, int32(1), nil)

	list, total, err := svc.GetActivityAttendances(ctx, orgAdmin(2, 1), 5, domain.AttendanceLate, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int32(1), total)

	_, _, err = svc.GetActivityAttendances(ctx, member(7, 1), 5, "", 1, 10)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
}
