package domain

import "time"

type OrganizationStatus string

const (
	OrganizationActive    OrganizationStatus = "active"
	OrganizationInactive  OrganizationStatus = "inactive"
	OrganizationSuspended OrganizationStatus = "suspended"
)

type Organization struct {
	ID           int32              `json:"id"`
	Name         string             `json:"name"`
	Aka          string             `json:"aka"`
	Description  string             `json:"description"`
	ContactEmail string             `json:"contact_email"`
	ContactPhone string             `json:"contact_phone"`
	Address      string             `json:"address"`
	Status       OrganizationStatus `json:"status"`
	AdminID      *int32             `json:"admin_id"`
	// Aggregate counters, recomputed after mutations that affect them.
	TotalMembers    int32     `json:"total_members"`
	TotalActivities int32     `json:"total_activities"`
	TotalTasks      int32     `json:"total_tasks"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// IsAdmin reports whether userID is the organization's admin.
func (o *Organization) IsAdmin(userID int32) bool {
	return o.AdminID != nil && *o.AdminID == userID
}
