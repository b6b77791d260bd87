package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/service"
)

// Services bundles the business services served over HTTP.
type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Organization service.OrganizationService
	Membership   service.MembershipService
	Activity     service.ActivityService
	Attendance   service.AttendanceService
	Task         service.TaskService
	Score        service.ScoreService
	Notification service.NotificationService
}

const idPattern = "{id:[0-9]+}"

// NewRouter wires every route of the API. Path templates must match the keys
// of config.EndpointSecurityConfig for public and refresh routes.
func NewRouter(svcs Services, requestTimeout time.Duration) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, apperror.NotFound("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Envelope{Success: false, Message: "method not allowed"})
	})

	r.Use(Recoverer, RequestLogger, Timeout(requestTimeout), NewAuthMiddleware(svcs.Auth).Handler)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeOK(w, "ok", nil)
	}).Methods(http.MethodGet)

	auth := NewAuthHandler(svcs.Auth, svcs.Membership)
	r.HandleFunc("/api/auth/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh-token", auth.RefreshToken).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", auth.Me).Methods(http.MethodGet)

	// Static user paths are registered before the {userId} ones.
	users := NewUserHandler(svcs.User, svcs.Membership, svcs.Score, svcs.Attendance)
	r.HandleFunc("/api/users/join-himpunan", users.JoinOrganization).Methods(http.MethodPost)
	r.HandleFunc("/api/users/leave-himpunan", users.LeaveOrganization).Methods(http.MethodDelete)
	r.HandleFunc("/api/users/my-membership", users.MyMembership).Methods(http.MethodGet)
	r.HandleFunc("/api/users/my-attendances", users.MyAttendances).Methods(http.MethodGet)
	r.HandleFunc("/api/users/profile", users.GetProfile).Methods(http.MethodGet)
	r.HandleFunc("/api/users/profile", users.UpdateProfile).Methods(http.MethodPut)
	r.HandleFunc("/api/users", users.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userId:[0-9]+}", users.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userId:[0-9]+}", users.UpdateUser).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{userId:[0-9]+}", users.DeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/api/users/{userId:[0-9]+}/membership-status", users.UpdateMembershipStatus).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{userId:[0-9]+}/remove-member", users.RemoveMember).Methods(http.MethodDelete)
	r.HandleFunc("/api/users/{userId:[0-9]+}/score", users.SetScore).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{userId:[0-9]+}/score-history", users.ScoreHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{userId:[0-9]+}/activate", users.Activate).Methods(http.MethodPost)
	r.HandleFunc("/api/users/{userId:[0-9]+}/deactivate", users.Deactivate).Methods(http.MethodPost)
	r.HandleFunc("/api/admins", users.CreateAdmin).Methods(http.MethodPost)

	orgs := NewOrganizationHandler(svcs.Organization, svcs.Membership, svcs.Activity, svcs.Task)
	r.HandleFunc("/api/himpunan", orgs.List).Methods(http.MethodGet)
	r.HandleFunc("/api/himpunan", orgs.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/himpunan/"+idPattern, orgs.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/himpunan/"+idPattern, orgs.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/himpunan/"+idPattern, orgs.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/himpunan/"+idPattern+"/change-admin", orgs.ChangeAdmin).Methods(http.MethodPut)
	r.HandleFunc("/api/himpunan/"+idPattern+"/members", orgs.Members).Methods(http.MethodGet)
	r.HandleFunc("/api/himpunan/"+idPattern+"/join-requests", orgs.JoinRequests).Methods(http.MethodGet)
	r.HandleFunc("/api/himpunan/"+idPattern+"/activities", orgs.Activities).Methods(http.MethodGet)
	r.HandleFunc("/api/himpunan/"+idPattern+"/tasks", orgs.Tasks).Methods(http.MethodGet)

	activities := NewActivityHandler(svcs.Activity, svcs.Attendance)
	r.HandleFunc("/api/activities", activities.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/activities/"+idPattern, activities.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/activities/"+idPattern, activities.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/activities/"+idPattern, activities.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/activities/"+idPattern+"/status", activities.UpdateStatus).Methods(http.MethodPut)
	r.HandleFunc("/api/activities/"+idPattern+"/qr-code", activities.QRCode).Methods(http.MethodGet)
	r.HandleFunc("/api/activities/"+idPattern+"/attendances", activities.Attendances).Methods(http.MethodGet)

	attendances := NewAttendanceHandler(svcs.Attendance)
	r.HandleFunc("/api/attendances/check-in", attendances.CheckIn).Methods(http.MethodPost)
	r.HandleFunc("/api/attendances/check-out", attendances.CheckOut).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/api/attendances/"+idPattern, attendances.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/attendances/"+idPattern, attendances.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/attendances/"+idPattern, attendances.Delete).Methods(http.MethodDelete)

	tasks := NewTaskHandler(svcs.Task)
	r.HandleFunc("/api/tasks", tasks.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/my", tasks.Mine).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/"+idPattern, tasks.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/"+idPattern, tasks.Update).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/"+idPattern, tasks.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/tasks/"+idPattern+"/take", tasks.Take).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/"+idPattern+"/complete", tasks.Complete).Methods(http.MethodPatch)
	r.HandleFunc("/api/tasks/"+idPattern+"/approve", tasks.Approve).Methods(http.MethodPatch)

	notes := NewNotificationHandler(svcs.Notification)
	r.HandleFunc("/api/notifications/me", notes.List).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/me/unread-count", notes.UnreadCount).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/me/mark-all-read", notes.MarkAllRead).Methods(http.MethodPut)
	r.HandleFunc("/api/notifications/"+idPattern+"/read", notes.MarkRead).Methods(http.MethodPut)
	r.HandleFunc("/api/notifications/"+idPattern, notes.Delete).Methods(http.MethodDelete)

	return r
}
