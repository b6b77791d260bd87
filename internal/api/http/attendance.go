package http

import (
	"net/http"

	"himpunan-backend/internal/service"
)

type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req checkInRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	att, err := h.attendanceSvc.CheckIn(r.Context(), actor, req.ActivityID, req.QRCode, req.Location, req.Notes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "checked in", att)
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req checkOutRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	att, err := h.attendanceSvc.CheckOut(r.Context(), actor, req.ActivityID, req.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "checked out", att)
}

func (h *AttendanceHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	att, err := h.attendanceSvc.GetAttendance(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "", att)
}

func (h *AttendanceHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req attendanceUpdateRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	att, err := h.attendanceSvc.UpdateAttendance(r.Context(), actor, id, req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "attendance updated", att)
}

func (h *AttendanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.attendanceSvc.DeleteAttendance(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "attendance deleted", nil)
}
