package domain

import "time"

type ActivityStatus string

const (
	ActivityScheduled ActivityStatus = "scheduled"
	ActivityOngoing   ActivityStatus = "ongoing"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

func (s ActivityStatus) Valid() bool {
	switch s {
	case ActivityScheduled, ActivityOngoing, ActivityCompleted, ActivityCancelled:
		return true
	}
	return false
}

// Terminal statuses are never changed by the wall clock.
func (s ActivityStatus) Terminal() bool {
	return s == ActivityCompleted || s == ActivityCancelled
}

type AttendanceMode string

const (
	AttendanceOnline  AttendanceMode = "online"
	AttendanceOffline AttendanceMode = "offline"
	AttendanceHybrid  AttendanceMode = "hybrid"
)

func (m AttendanceMode) Valid() bool {
	switch m {
	case AttendanceOnline, AttendanceOffline, AttendanceHybrid:
		return true
	}
	return false
}

type Activity struct {
	ID             int32          `json:"id"`
	OrganizationID int32          `json:"organization_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Type           string         `json:"type"`
	StartDateTime  time.Time      `json:"start_date_time"`
	EndDateTime    time.Time      `json:"end_date_time"`
	Location       string         `json:"location"`
	Status         ActivityStatus `json:"status"`
	QRCode         string         `json:"-"`
	AttendanceMode AttendanceMode `json:"attendance_mode"`
	CreatedByID    *int32         `json:"created_by_id"`
	CreatedOn      time.Time      `json:"created_on"`
	UpdatedOn      time.Time      `json:"updated_on"`
}

// StatusAt derives the status the activity should have at now.
// Completed and cancelled activities keep their status.
func (a *Activity) StatusAt(now time.Time) ActivityStatus {
	if a.Status.Terminal() {
		return a.Status
	}
	switch {
	case now.Before(a.StartDateTime):
		return ActivityScheduled
	case now.Before(a.EndDateTime):
		return ActivityOngoing
	default:
		return ActivityCompleted
	}
}

// AcceptsCheckIn reports whether the stored status still allows attendance.
func (a *Activity) AcceptsCheckIn() bool {
	return a.Status == ActivityScheduled || a.Status == ActivityOngoing
}
