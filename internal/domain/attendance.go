package domain

import (
	"math"
	"time"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceExcused:
		return true
	}
	return false
}

type Attendance struct {
	ID           int32            `json:"id"`
	ActivityID   int32            `json:"activity_id"`
	UserID       int32            `json:"user_id"`
	CheckInTime  time.Time        `json:"check_in_time"`
	CheckOutTime *time.Time       `json:"check_out_time"`
	Status       AttendanceStatus `json:"status"`
	Location     string           `json:"location"`
	Notes        string           `json:"notes"`
	// Duration is in whole minutes, set on check-out.
	Duration  *int32    `json:"duration"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// CheckInStatus derives the attendance status from the server clock:
// arriving after the activity start is late.
func CheckInStatus(now, start time.Time) AttendanceStatus {
	if now.After(start) {
		return AttendanceLate
	}
	return AttendancePresent
}

// DurationMinutes is the rounded number of minutes between check-in and check-out.
func DurationMinutes(checkIn, checkOut time.Time) int32 {
	d := checkOut.Sub(checkIn)
	if d < 0 {
		return 0
	}
	return int32(math.Round(d.Minutes()))
}

// AttendanceUpdate carries the admin-editable fields. Nil means unchanged.
type AttendanceUpdate struct {
	Status   *AttendanceStatus
	Notes    *string
	Location *string
}
