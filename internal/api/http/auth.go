package http

import (
	"net/http"

	"himpunan-backend/internal/service"
)

type AuthHandler struct {
	authSvc       service.AuthService
	membershipSvc service.MembershipService
}

func NewAuthHandler(authSvc service.AuthService, membershipSvc service.MembershipService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, membershipSvc: membershipSvc}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.authSvc.Register(r.Context(), req.toInput())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "user registered successfully", user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "login successful", res)
}

// RefreshToken exchanges the refresh token carried in the Authorization header.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	res, err := h.authSvc.RefreshToken(r.Context(), tokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, "token refreshed", res)
}

// Me returns the caller together with their organization.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
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
