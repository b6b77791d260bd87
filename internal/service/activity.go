package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
	"himpunan-backend/internal/policy"
	"himpunan-backend/internal/repository"
)

// QREncoder turns a check-in token into a renderable image reference.
type QREncoder interface {
	Encode(ctx context.Context, token string) (string, error)
}

// SchemeQREncoder references the token with a URI scheme and leaves rendering to the client.
type SchemeQREncoder struct{}

func (SchemeQREncoder) Encode(_ context.Context, token string) (string, error) {
	return "qr://" + token, nil
}

type activityService struct {
	tx           repository.Transactor
	activityRepo repository.ActivityRepository
	orgRepo      repository.OrganizationRepository
	encoder      QREncoder
	now          clock
}

func NewActivityService(
	tx repository.Transactor,
	activityRepo repository.ActivityRepository,
	orgRepo repository.OrganizationRepository,
	encoder QREncoder,
) ActivityService {
	if encoder == nil {
		encoder = SchemeQREncoder{}
	}
	return &activityService{
		tx:           tx,
		activityRepo: activityRepo,
		orgRepo:      orgRepo,
		encoder:      encoder,
		now:          time.Now,
	}
}

func newQRToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperror.Validation("start and end date time are required")
	}
	if !end.After(start) {
		return apperror.Validation("end date time must be after start date time")
	}
	return nil
}

func (s *activityService) CreateActivity(ctx context.Context, actor domain.Actor, in CreateActivityInput) (*domain.Activity, error) {
	logger.EnterMethod("activityService.CreateActivity", "actorID", actor.UserID, "orgID", in.OrganizationID)

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.Validation("title is required")
	}
	if err := validateWindow(in.StartDateTime, in.EndDateTime); err != nil {
		return nil, err
	}
	if in.AttendanceMode == "" {
		in.AttendanceMode = domain.AttendanceOffline
	}
	if !in.AttendanceMode.Valid() {
		return nil, apperror.Validation("invalid attendance mode")
	}
	if err := authorize(actor, policy.ManageActivity, policy.OrgResource(in.OrganizationID)); err != nil {
		return nil, err
	}

	creator := actor.UserID
	activity := &domain.Activity{
		OrganizationID: in.OrganizationID,
		Title:          in.Title,
		Description:    in.Description,
		Type:           in.Type,
		StartDateTime:  in.StartDateTime,
		EndDateTime:    in.EndDateTime,
		Location:       in.Location,
		Status:         domain.ActivityScheduled,
		QRCode:         newQRToken(),
		AttendanceMode: in.AttendanceMode,
		CreatedByID:    &creator,
	}
	activity.Status = activity.StatusAt(s.now())

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.orgRepo.GetByID(ctx, in.OrganizationID); err != nil {
			return err
		}
		if err := s.activityRepo.Create(ctx, activity); err != nil {
			return err
		}
		return s.orgRepo.RecomputeCounters(ctx, in.OrganizationID)
	})
	if err != nil {
		logger.ExitMethodWithError("activityService.CreateActivity", err, "orgID", in.OrganizationID)
		return nil, err
	}

	logger.Info("Activity created", "activityID", activity.ID, "orgID", activity.OrganizationID, "status", activity.Status)
	logger.ExitMethod("activityService.CreateActivity", "activityID", activity.ID)
	return activity, nil
}

// GetActivity returns the activity with its status derived from the clock.
func (s *activityService) GetActivity(ctx context.Context, actor domain.Actor, id int32) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ViewActivity, policy.OrgResource(activity.OrganizationID)); err != nil {
		return nil, err
	}
	activity.Status = activity.StatusAt(s.now())
	return activity, nil
}

func (s *activityService) ListActivities(ctx context.Context, actor domain.Actor, orgID int32, status domain.ActivityStatus, page, pageSize int32) ([]domain.Activity, int32, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperror.Validation("invalid activity status")
	}
	if err := authorize(actor, policy.ViewActivity, policy.OrgResource(orgID)); err != nil {
		return nil, 0, err
	}
	page, pageSize = domain.NormalizePage(page, pageSize)
	activities, total, err := s.activityRepo.ListByOrganization(ctx, orgID, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range activities {
		activities[i].Status = activities[i].StatusAt(now)
	}
	return activities, total, nil
}

// UpdateActivity edits the descriptive fields and the time window. The QR
// token and the owning organization never change.
func (s *activityService) UpdateActivity(ctx context.Context, actor domain.Actor, id int32, in ActivityUpdate) (*domain.Activity, error) {
	logger.EnterMethod("activityService.UpdateActivity", "actorID", actor.UserID, "activityID", id)

	activity, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperror.Validation("title is required")
		}
		activity.Title = *in.Title
	}
	if in.Description != nil {
		activity.Description = *in.Description
	}
	if in.Type != nil {
		activity.Type = *in.Type
	}
	if in.StartDateTime != nil {
		activity.StartDateTime = *in.StartDateTime
	}
	if in.EndDateTime != nil {
		activity.EndDateTime = *in.EndDateTime
	}
	if in.Location != nil {
		activity.Location = *in.Location
	}
	if in.AttendanceMode != nil {
		if !in.AttendanceMode.Valid() {
			return nil, apperror.Validation("invalid attendance mode")
		}
		activity.AttendanceMode = *in.AttendanceMode
	}
	if err := validateWindow(activity.StartDateTime, activity.EndDateTime); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		logger.ExitMethodWithError("activityService.UpdateActivity", err, "activityID", id)
		return nil, err
	}
	logger.ExitMethod("activityService.UpdateActivity", "activityID", id)
	return activity, nil
}

func (s *activityService) UpdateActivityStatus(ctx context.Context, actor domain.Actor, id int32, status domain.ActivityStatus) (*domain.Activity, error) {
	if !status.Valid() {
		return nil, apperror.Validation("invalid activity status")
	}
	activity, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.activityRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	logger.Info("Activity status changed", "activityID", id, "from", activity.Status, "to", status, "by", actor.UserID)
	activity.Status = status
	return activity, nil
}

func (s *activityService) DeleteActivity(ctx context.Context, actor domain.Actor, id int32) error {
	activity, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.Delete(ctx, id); err != nil {
			return err
		}
		return s.orgRepo.RecomputeCounters(ctx, activity.OrganizationID)
	})
	if err != nil {
		return err
	}
	logger.Info("Activity deleted", "activityID", id, "orgID", activity.OrganizationID, "by", actor.UserID)
	return nil
}

func (s *activityService) GetQRCode(ctx context.Context, actor domain.Actor, id int32) (*QRCode, error) {
	activity, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	url, err := s.encoder.Encode(ctx, activity.QRCode)
	if err != nil {
		return nil, apperror.Wrap(err, "failed to encode qr code")
	}
	return &QRCode{ActivityID: activity.ID, Token: activity.QRCode, URL: url}, nil
}

// RefreshStatuses moves scheduled and ongoing activities along by the clock.
func (s *activityService) RefreshStatuses(ctx context.Context) (int64, error) {
	logger.EnterMethod("activityService.RefreshStatuses")
	n, err := s.activityRepo.RefreshStatuses(ctx, s.now())
	if err != nil {
		logger.ExitMethodWithError("activityService.RefreshStatuses", err)
		return 0, err
	}
	logger.ExitMethod("activityService.RefreshStatuses", "updated", n)
	return n, nil
}

func (s *activityService) load(ctx context.Context, actor domain.Actor, id int32) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, policy.ManageActivity, policy.OrgResource(activity.OrganizationID)); err != nil {
		return nil, err
	}
	return activity, nil
}
