package service

import (
	"context"
	"time"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

type attendanceService struct {
	tx             repository.Transactor
	attendanceRepo repository.AttendanceRepository
	activityRepo   repository.ActivityRepository
	now            clock
}

func NewAttendanceService(
	tx repository.Transactor,
	attendanceRepo repository.AttendanceRepository,
	activityRepo repository.ActivityRepository,
) AttendanceService {
	return &attendanceService{
		tx:             tx,
		attendanceRepo: attendanceRepo,
		activityRepo:   activityRepo,
		now:            time.Now,
	}
}

// CheckIn records the caller's attendance. The activity lookup does not say
// whether the id, the QR token or the status failed to match.
func (s *attendanceService) CheckIn(ctx context.Context, actor domain.Actor, activityID int32, qrCode, location, notes string) (*domain.Attendance, error) {
	logger.EnterMethod("attendanceService.CheckIn", "userID", actor.UserID, "activityID", activityID)

	activity, err := s.activityRepo.GetOpenByQRCode(ctx, activityID, qrCode)
	if err != nil {
		logger.ExitMethodWithError("attendanceService.CheckIn", err, "activityID", activityID)
		return nil, err
	}
	if !policy.Can(actor, policy.CheckIn, policy.OrgResource(activity.OrganizationID)) {
		return nil, apperror.Forbidden("you are not a member of this activity's organization")
	}

	now := s.now()
	att := &domain.Attendance{
		ActivityID:  activity.ID,
		UserID:      actor.UserID,
		CheckInTime: now,
		Status:      domain.CheckInStatus(now, activity.StartDateTime),
		Location:    location,
		Notes:       notes,
	}
	if err := s.attendanceRepo.Create(ctx, att); err != nil {
		logger.ExitMethodWithError("attendanceService.CheckIn", err, "activityID", activityID, "userID", actor.UserID)
		return nil, err
	}

	logger.Info("Check-in recorded", "attendanceID", att.ID, "activityID", activity.ID, "userID", actor.UserID, "status", att.Status)
	logger.ExitMethod("attendanceService.CheckIn", "attendanceID", att.ID)
	return att, nil
}

func (s *attendanceService) CheckOut(ctx context.Context, actor domain.Actor, activityID int32, location string) (*domain.Attendance, error) {
	logger.EnterMethod("attendanceService.CheckOut", "userID", actor.UserID, "activityID", activityID)

	var att *domain.Attendance
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		open, err := s.attendanceRepo.GetOpenForUpdate(ctx, activityID, actor.UserID)
		if err != nil {
			return err
		}
		now := s.now()
		duration := domain.DurationMinutes(open.CheckInTime, now)
		open.CheckOutTime = &now
		open.Duration = &duration
		if location != "" {
			open.Location = location
		}
		if err := s.attendanceRepo.RecordCheckOut(ctx, open); err != nil {
			return err
		}
		att = open
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("attendanceService.CheckOut", err, "activityID", activityID, "userID", actor.UserID)
		return nil, err
	}

	logger.Info("Check-out recorded", "attendanceID", att.ID, "duration", *att.Duration)
	logger.ExitMethod("attendanceService.CheckOut", "attendanceID", att.ID)
	return att, nil
}

func (s *attendanceService) GetActivityAttendances(ctx context.Context, actor domain.Actor, activityID int32, status domain.AttendanceStatus, page, pageSize int32) ([]domain.Attendance, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperror.Validation("invalid attendance status")
	}
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, 0, err
	}
	if err := authorize(actor, policy.ListActivityAttendance, policy.OrgResource(activity.OrganizationID)); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.attendanceRepo.ListByActivity(ctx, activityID, status, page, pageSize)
}

func (s *attendanceService) GetMyAttendances(ctx context.Context, actor domain.Actor, orgID *int32, page, pageSize int32) ([]domain.Attendance, int32, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return s.attendanceRepo.ListByUser(ctx, actor.UserID, orgID, page, pageSize)
}

func (s *attendanceService) GetAttendance(ctx context.Context, actor domain.Actor, id int32) (*domain.Attendance, error) {
	att, _, err := s.load(ctx, actor, id, policy.ViewAttendance)
	return att, err
}

func (s *attendanceService) UpdateAttendance(ctx context.Context, actor domain.Actor, id int32, in domain.AttendanceUpdate) (*domain.Attendance, error) {
	att, _, err := s.load(ctx, actor, id, policy.ManageAttendance)
	if err != nil {
		return nil, err
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperror.Validation("invalid attendance status")
		}
		att.Status = *in.Status
	}
	if in.Notes != nil {
		att.Notes = *in.Notes
	}
	if in.Location != nil {
		att.Location = *in.Location
	}

	if err := s.attendanceRepo.Update(ctx, att); err != nil {
		return nil, err
	}
	logger.Info("Attendance updated", "attendanceID", att.ID, "by", actor.UserID)
	return att, nil
}

func (s *attendanceService) DeleteAttendance(ctx context.Context, actor domain.Actor, id int32) error {
	if _, _, err := s.load(ctx, actor, id, policy.ManageAttendance); err != nil {
		return err
	}
	if err := s.attendanceRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Attendance deleted", "attendanceID", id, "by", actor.UserID)
	return nil
}

// load fetches an attendance with its activity and checks action against the
// activity's organization.
func (s *attendanceService) load(ctx context.Context, actor domain.Actor, id int32, action policy.Action) (*domain.Attendance, *domain.Activity, error) {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	activity, err := s.activityRepo.GetByID(ctx, att.ActivityID)
	if err != nil {
		return nil, nil, err
	}
	res := policy.Resource{OrganizationID: activity.OrganizationID, SubjectID: att.UserID}
	if err := authorize(actor, action, res); err != nil {
		return nil, nil, err
	}
	return att, activity, nil
}
