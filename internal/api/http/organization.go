package http

import (
	"net/http"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/service"
)

type OrganizationHandler struct {
	orgSvc        service.OrganizationService
	membershipSvc service.MembershipService
	activitySvc   service.ActivityService
	taskSvc       service.TaskService
}

func NewOrganizationHandler(
	orgSvc service.OrganizationService,
	membershipSvc service.MembershipService,
	activitySvc service.ActivityService,
	taskSvc service.TaskService,
) *OrganizationHandler {
	return &OrganizationHandler{
		orgSvc:        orgSvc,
		membershipSvc: membershipSvc,
		activitySvc:   activitySvc,
		taskSvc:       taskSvc,
	}
}

func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orgs, total, err := h.orgSvc.ListOrganizations(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(orgs), page, limit, total)
}

func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	org, err := h.orgSvc.GetOrganization(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", org)
}

func (h *OrganizationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req organizationRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	org, err := h.orgSvc.CreateOrganization(r.Context(), actor, req.toDomain(), req.AdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "organization created", org)
}

func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req organizationUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	org, err := h.orgSvc.UpdateOrganization(r.Context(), actor, id, req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "organization updated", org)
}

func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.orgSvc.DeleteOrganization(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "organization deleted", nil)
}

func (h *OrganizationHandler) ChangeAdmin(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req changeAdminRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	org, err := h.membershipSvc.ChangeOrgAdmin(r.Context(), actor, id, req.NewAdminID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "organization admin changed", org)
}

func (h *OrganizationHandler) Members(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.MembershipStatus(r.URL.Query().Get("status"))
	members, total, err := h.membershipSvc.ListMembers(r.Context(), actor, id, status, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(members), page, limit, total)
}

func (h *OrganizationHandler) JoinRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pending, total, err := h.membershipSvc.ListJoinRequests(r.Context(), actor, id, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(pending), page, limit, total)
}

func (h *OrganizationHandler) Activities(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.ActivityStatus(r.URL.Query().Get("status"))
	list, total, err := h.activitySvc.ListActivities(r.Context(), actor, id, status, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(list), page, limit, total)
}

func (h *OrganizationHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := domain.TaskStatus(r.URL.Query().Get("status"))
	list, total, err := h.taskSvc.ListTasks(r.Context(), actor, id, status, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(list), page, limit, total)
}
