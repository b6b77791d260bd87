// Package policy is the single authorization point for the attendance, task
// and membership engines.
//
// Capability rules:
//   - Super admins can do everything.
//   - Organization admins manage their own organization's members,
//     activities, attendance records, tasks and scores.
//   - Members act on themselves: check in to their organization's activities,
//     read their own attendance, claim tasks, and update tasks they created
//     or were assigned.
//   - Only super admins create admins or manage accounts (role, activation).
//   - Disabled accounts can do nothing.
package policy

import "himpunan-backend/internal/domain"

type Action string

const (
	CheckIn                Action = "attendance:check_in"
	ViewAttendance         Action = "attendance:view"
	ListActivityAttendance Action = "attendance:list_activity"
	ManageAttendance       Action = "attendance:manage"

	ManageActivity Action = "activity:manage"
	ViewActivity   Action = "activity:view"

	ViewTask    Action = "task:view"
	CreateTask  Action = "task:create"
	ClaimTask   Action = "task:claim"
	UpdateTask  Action = "task:update"
	DeleteTask  Action = "task:delete"
	ApproveTask Action = "task:approve"

	CreateOrganization Action = "organization:create"
	ManageOrganization Action = "organization:manage"
	DeleteOrganization Action = "organization:delete"
	ChangeOrgAdmin     Action = "organization:change_admin"

	ManageMembership Action = "membership:manage"
	ListMembers      Action = "membership:list"
	AdjustScore      Action = "score:adjust"
	ViewUser         Action = "user:view"
	DeleteUser       Action = "user:delete"
	ManageAccounts   Action = "user:manage_accounts"
)

// Resource describes the object an action targets.
type Resource struct {
	// OrganizationID is the owning organization; zero when not applicable.
	OrganizationID int32
	// SubjectID is the user the resource is about (attendee, member, score holder).
	SubjectID int32
	// CreatorID is the user who created the resource; zero once that account is gone.
	CreatorID int32
	// AssigneeIDs are the users working on a task.
	AssigneeIDs []int32
}

func OrgResource(orgID int32) Resource {
	return Resource{OrganizationID: orgID}
}

func TaskResource(t *domain.Task) Resource {
	res := Resource{
		OrganizationID: t.OrganizationID,
		AssigneeIDs:    t.Recipients(),
	}
	if t.CreatedByID != nil {
		res.CreatorID = *t.CreatedByID
	}
	return res
}

// Can reports whether actor may perform action on res.
func Can(actor domain.Actor, action Action, res Resource) bool {
	if !actor.IsActive {
		return false
	}
	if actor.IsSuperAdmin() {
		return true
	}

	orgAdmin := res.OrganizationID != 0 && actor.AdministersOrg(res.OrganizationID)

	switch action {
	case CheckIn, ViewActivity, ViewTask, ClaimTask:
		return actor.BelongsTo(res.OrganizationID)
	case ViewAttendance:
		return orgAdmin || res.SubjectID == actor.UserID
	case ViewUser:
		return orgAdmin || res.SubjectID == actor.UserID
	case UpdateTask:
		return orgAdmin || res.CreatorID == actor.UserID || contains(res.AssigneeIDs, actor.UserID)
	case DeleteTask:
		return orgAdmin || res.CreatorID == actor.UserID
	case CreateOrganization:
		return actor.Role == domain.RoleAdmin
	case ListActivityAttendance, ManageAttendance, ManageActivity, CreateTask, ApproveTask,
		ManageOrganization, DeleteOrganization, ChangeOrgAdmin, ManageMembership, ListMembers, AdjustScore:
		return orgAdmin
	case DeleteUser, ManageAccounts:
		return false
	}
	return false
}

func contains(ids []int32, id int32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
