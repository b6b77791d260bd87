package http

import (
	"net/http"

	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/service"
)

type ActivityHandler struct {
	activitySvc   service.ActivityService
	attendanceSvc service.AttendanceService
}

func NewActivityHandler(activitySvc service.ActivityService, attendanceSvc service.AttendanceService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc, attendanceSvc: attendanceSvc}
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req activityRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	activity, err := h.activitySvc.CreateActivity(r.Context(), actor, req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "activity created", activity)
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	activity, err := h.activitySvc.GetActivity(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", activity)
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req activityUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	activity, err := h.activitySvc.UpdateActivity(r.Context(), actor, id, req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "activity updated", activity)
}

func (h *ActivityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req activityStatusRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	activity, err := h.activitySvc.UpdateActivityStatus(r.Context(), actor, id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "activity status updated", activity)
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.activitySvc.DeleteActivity(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "activity deleted", nil)
}

func (h *ActivityHandler) QRCode(w http.ResponseWriter, r *http.Request) {
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
	qr, err := h.activitySvc.GetQRCode(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", qr)
}

func (h *ActivityHandler) Attendances(w http.ResponseWriter, r *http.Request) {
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
	status := domain.AttendanceStatus(r.URL.Query().Get("status"))
	list, total, err := h.attendanceSvc.GetActivityAttendances(r.Context(), actor, id, status, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(list), page, limit, total)
}
