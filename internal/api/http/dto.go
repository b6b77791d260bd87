package http

import (
	"time"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/service"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"notblank,max=100"`
	Username    string `json:"username" validate:"omitempty,max=50"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
}

func (r registerRequest) toInput() service.RegisterInput {
	return service.RegisterInput{
		Email:       r.Email,
		Password:    r.Password,
		FullName:    r.FullName,
		Username:    r.Username,
		PhoneNumber: r.PhoneNumber,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,notblank,max=100"`
	Username    *string `json:"username" validate:"omitempty,max=50"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=20"`
}

func (r profileRequest) toUpdate() service.ProfileUpdate {
	return service.ProfileUpdate{FullName: r.FullName, Username: r.Username, PhoneNumber: r.PhoneNumber}
}

type accountRequest struct {
	FullName    *string      `json:"full_name" validate:"omitempty,notblank,max=100"`
	Email       *string      `json:"email" validate:"omitempty,email"`
	Username    *string      `json:"username" validate:"omitempty,max=50"`
	PhoneNumber *string      `json:"phone_number" validate:"omitempty,max=20"`
	Role        *domain.Role `json:"role" validate:"omitempty,oneof=super_admin admin member"`
	IsActive    *bool        `json:"is_active"`
}

func (r accountRequest) toUpdate() service.AccountUpdate {
	return service.AccountUpdate{
		FullName:    r.FullName,
		Email:       r.Email,
		Username:    r.Username,
		PhoneNumber: r.PhoneNumber,
		Role:        r.Role,
		IsActive:    r.IsActive,
	}
}

type joinRequest struct {
	HimpunanID int32 `json:"himpunan_id" validate:"required,gt=0"`
}

type membershipStatusRequest struct {
	Status domain.MembershipStatus `json:"membership_status" validate:"required,oneof=pending active inactive suspended"`
}

type scoreRequest struct {
	Score  *int32 `json:"score" validate:"required,gte=0"`
	Reason string `json:"reason" validate:"max=255"`
}

type organizationRequest struct {
	Name         string `json:"name" validate:"notblank,max=100"`
	Aka          string `json:"aka" validate:"max=50"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"max=20"`
	Address      string `json:"address"`
	AdminID      *int32 `json:"admin_id" validate:"omitempty,gt=0"`
}

func (r organizationRequest) toDomain() *domain.Organization {
	return &domain.Organization{
		Name:         r.Name,
		Aka:          r.Aka,
		Description:  r.Description,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Address:      r.Address,
	}
}

type organizationUpdateRequest struct {
	Name         *string                    `json:"name" validate:"omitempty,notblank,max=100"`
	Aka          *string                    `json:"aka" validate:"omitempty,max=50"`
	Description  *string                    `json:"description"`
	ContactEmail *string                    `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string                    `json:"contact_phone" validate:"omitempty,max=20"`
	Address      *string                    `json:"address"`
	Status       *domain.OrganizationStatus `json:"status" validate:"omitempty,oneof=active inactive suspended"`
}

func (r organizationUpdateRequest) toUpdate() service.OrganizationUpdate {
	return service.OrganizationUpdate{
		Name:         r.Name,
		Aka:          r.Aka,
		Description:  r.Description,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		Address:      r.Address,
		Status:       r.Status,
	}
}

type changeAdminRequest struct {
	NewAdminID int32 `json:"new_admin_id" validate:"required,gt=0"`
}

type activityRequest struct {
	HimpunanID     int32                 `json:"himpunan_id" validate:"required,gt=0"`
	Title          string                `json:"title" validate:"notblank,max=200"`
	Description    string                `json:"description"`
	Type           string                `json:"type" validate:"max=50"`
	StartDateTime  time.Time             `json:"start_date_time" validate:"required"`
	EndDateTime    time.Time             `json:"end_date_time" validate:"required,gtfield=StartDateTime"`
	Location       string                `json:"location" validate:"max=255"`
	AttendanceMode domain.AttendanceMode `json:"attendance_mode" validate:"omitempty,oneof=online offline hybrid"`
}

func (r activityRequest) toInput() service.CreateActivityInput {
	return service.CreateActivityInput{
		OrganizationID: r.HimpunanID,
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		StartDateTime:  r.StartDateTime,
		EndDateTime:    r.EndDateTime,
		Location:       r.Location,
		AttendanceMode: r.AttendanceMode,
	}
}

type activityUpdateRequest struct {
	Title          *string                `json:"title" validate:"omitempty,notblank,max=200"`
	Description    *string                `json:"description"`
	Type           *string                `json:"type" validate:"omitempty,max=50"`
	StartDateTime  *time.Time             `json:"start_date_time"`
	EndDateTime    *time.Time             `json:"end_date_time"`
	Location       *string                `json:"location" validate:"omitempty,max=255"`
	AttendanceMode *domain.AttendanceMode `json:"attendance_mode" validate:"omitempty,oneof=online offline hybrid"`
}

func (r activityUpdateRequest) toUpdate() service.ActivityUpdate {
	return service.ActivityUpdate{
		Title:          r.Title,
		Description:    r.Description,
		Type:           r.Type,
		StartDateTime:  r.StartDateTime,
		EndDateTime:    r.EndDateTime,
		Location:       r.Location,
		AttendanceMode: r.AttendanceMode,
	}
}

type activityStatusRequest struct {
	Status domain.ActivityStatus `json:"status" validate:"required,oneof=scheduled ongoing completed cancelled"`
}

type checkInRequest struct {
	ActivityID int32  `json:"activity_id" validate:"required,gt=0"`
	QRCode     string `json:"qr_code" validate:"notblank"`
	Location   string `json:"location" validate:"max=255"`
	Notes      string `json:"notes"`
}

type checkOutRequest struct {
	ActivityID int32  `json:"activity_id" validate:"required,gt=0"`
	Location   string `json:"location" validate:"max=255"`
}

type attendanceUpdateRequest struct {
	Status   *domain.AttendanceStatus `json:"status" validate:"omitempty,oneof=present late absent excused"`
	Notes    *string                  `json:"notes"`
	Location *string                  `json:"location" validate:"omitempty,max=255"`
}

func (r attendanceUpdateRequest) toUpdate() domain.AttendanceUpdate {
	return domain.AttendanceUpdate{Status: r.Status, Notes: r.Notes, Location: r.Location}
}

type taskRequest struct {
	HimpunanID       int32               `json:"himpunan_id" validate:"required,gt=0"`
	Title            string              `json:"title" validate:"notblank,max=200"`
	Description      string              `json:"description"`
	Priority         domain.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedToID     *int32              `json:"assigned_to_id" validate:"omitempty,gt=0"`
	ScoreReward      int32               `json:"score_reward" validate:"gte=0"`
	MaxAssignees     int32               `json:"max_assignees" validate:"gte=0"`
	RequiresApproval bool                `json:"requires_approval"`
	Category         string              `json:"category" validate:"max=50"`
	Tags             []string            `json:"tags" validate:"dive,max=50"`
	DueDate          *time.Time          `json:"due_date"`
	StartDate        *time.Time          `json:"start_date"`
}

func (r taskRequest) toInput() service.CreateTaskInput {
	return service.CreateTaskInput{
		OrganizationID:   r.HimpunanID,
		Title:            r.Title,
		Description:      r.Description,
		Priority:         r.Priority,
		AssignedToID:     r.AssignedToID,
		ScoreReward:      r.ScoreReward,
		MaxAssignees:     r.MaxAssignees,
		RequiresApproval: r.RequiresApproval,
		Category:         r.Category,
		Tags:             r.Tags,
		DueDate:          r.DueDate,
		StartDate:        r.StartDate,
	}
}

type taskUpdateRequest struct {
	Title        *string              `json:"title" validate:"omitempty,notblank,max=200"`
	Description  *string              `json:"description"`
	Status       *domain.TaskStatus   `json:"status" validate:"omitempty,oneof=available claimed in_progress completed cancelled"`
	Priority     *domain.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	AssignedToID *int32               `json:"assigned_to_id" validate:"omitempty,gt=0"`
	DueDate      *time.Time           `json:"due_date"`
	StartDate    *time.Time           `json:"start_date"`
	ScoreReward  *int32               `json:"score_reward" validate:"omitempty,gte=0"`
	Category     *string              `json:"category" validate:"omitempty,max=50"`
	Tags         []string             `json:"tags" validate:"omitempty,dive,max=50"`
}

func (r taskUpdateRequest) toUpdate() domain.TaskUpdate {
	return domain.TaskUpdate{
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Priority:     r.Priority,
		AssignedToID: r.AssignedToID,
		DueDate:      r.DueDate,
		StartDate:    r.StartDate,
		ScoreReward:  r.ScoreReward,
		Category:     r.Category,
		Tags:         r.Tags,
	}
}

type approveRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type countResponse struct {
	Count int64 `json:"count"`
}
