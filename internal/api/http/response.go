package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"himpunan-backend/internal/apperror"
	"himpunan-backend/internal/domain"
	"himpunan-backend/internal/logger"
)

// Envelope is the body of every response.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Kind       apperror.Kind     `json:"kind,omitempty"`
	Data       any               `json:"data,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
	Pagination *Pagination       `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	Total      int32 `json:"total"`
	TotalPages int32 `json:"total_pages"`
}

func newPagination(page, limit, total int32) *Pagination {
	page, limit = domain.NormalizePage(page, limit)
	pages := (total + limit - 1) / limit
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func writeCreated(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func writePage(w http.ResponseWriter, data any, page, limit, total int32) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: newPagination(page, limit, total)})
}

// writeError renders err with the status of its kind. Unexpected errors are
// logged and never shown to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	body := Envelope{Success: false, Message: apperror.PublicMessage(err), Kind: kind}
	var appErr *apperror.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		body.Errors = appErr.Fields
	}

	if kind == apperror.KindUnexpected {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "method", r.Method, "path", r.URL.Path, "kind", kind, "error", err)
	}
	writeJSON(w, status, body)
}
