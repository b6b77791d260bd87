package http

import (
	"net/http"

	"himpunan-backend/internal/domain"
)

// ListUsers pages through every account. Accepts search and role filters.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
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
	filter := domain.UserFilter{
		Search: r.URL.Query().Get("search"),
		Role:   domain.Role(r.URL.Query().Get("role")),
	}
	users, total, err := h.userSvc.ListUsers(r.Context(), actor, filter, page, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, nonNil(users), page, limit, total)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
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
	var req accountRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.UpdateUser(r.Context(), actor, userID, req.toUpdate())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "user updated", user)
}

func (h *UserHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.CreateAdmin(r.Context(), actor, req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "admin created", user)
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
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
	user, err := h.userSvc.SetActive(r.Context(), actor, userID, active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	msg := "account deactivated"
	if active {
		msg = "account activated"
	}
	writeOK(w, msg, user)
}
