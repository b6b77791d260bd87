package http

import (
	"net/http"

	"himpunan-backend/internal/service"
)

type UserHandler struct {
	userSvc       service.UserService
	membershipSvc service.MembershipService
	scoreSvc      service.ScoreService
	attendanceSvc service.AttendanceService
}

func NewUserHandler(
	userSvc service.UserService,
	membershipSvc service.MembershipService,
	scoreSvc service.ScoreService,
	attendanceSvc service.AttendanceService,
) *UserHandler {
	return &UserHandler{
		userSvc:       userSvc,
		membershipSvc: membershipSvc,
		scoreSvc:      scoreSvc,
		attendanceSvc: attendanceSvc,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.GetUser(r.Context(), actor, actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req profileRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.UpdateProfile(r.Context(), actor, req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "profile updated", user)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.GetUser(r.Context(), actor, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.userSvc.DeleteUser(r.Context(), actor, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "user deleted", nil)
}

func (h *UserHandler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req joinRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.membershipSvc.JoinOrganization(r.Context(), actor, req.HimpunanID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "join request submitted", user)
}

func (h *UserHandler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.membershipSvc.LeaveOrganization(r.Context(), actor); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "left organization", nil)
}

func (h *UserHandler) MyMembership(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	membership, err := h.membershipSvc.GetMyMembership(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", membership)
}

func (h *UserHandler) UpdateMembershipStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req membershipStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.membershipSvc.UpdateMembershipStatus(r.Context(), actor, userID, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "membership status updated", user)
}

func (h *UserHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.membershipSvc.RemoveMember(r.Context(), actor, userID); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "member removed", nil)
}

func (h *UserHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req scoreRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.scoreSvc.SetScore(r.Context(), actor, userID, *req.Score, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "score updated", user)
}

func (h *UserHandler) ScoreHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	history, total, err := h.scoreSvc.GetScoreHistory(r.Context(), actor, userID, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(history), page, limit, total)
}

// MyAttendances lists the caller's attendance, optionally within one organization.
func (h *UserHandler) MyAttendances(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, limit, err := paging(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	orgID, err := queryInt32(r, "himpunan_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var orgFilter *int32
	if orgID > 0 {
		orgFilter = &orgID
	}
	list, total, err := h.attendanceSvc.GetMyAttendances(r.Context(), actor, orgFilter, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(list), page, limit, total)
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
