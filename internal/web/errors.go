package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as coded user messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or plain text)

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/episodes/internal/app"
	"github.com/JonMunkholm/episodes/internal/logging"
	"github.com/JonMunkholm/episodes/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Detail  string `json:"detail,omitempty"`
}

// errNotLoaded is reported by endpoints that need a dataset before the
// first successful load.
var errNotLoaded = errors.New("episodes are not loaded")

// respondError logs the technical error and answers in the format the
// client asked for.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := app.MapError(err)
	s.respondMessage(w, r, userMsg, statusCode)
}

func (s *Server) respondMessage(w http.ResponseWriter, r *http.Request, userMsg app.UserMessage, statusCode int) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", userMsg.Detail,
		"code", userMsg.Code,
	)

	switch {
	case isHTMX(r):
		renderErrorPartial(w, r, userMsg, statusCode)
	case wantsJSON(r):
		writeJSON(w, statusCode, ErrorResponse{
			Error:   userMsg.Message,
			Message: userMsg.Message,
			Action:  userMsg.Action,
			Code:    userMsg.Code,
			Detail:  userMsg.Detail,
		})
	default:
		http.Error(w, userMsg.String(), statusCode)
	}
}

// renderErrorPartial renders an HTMX-compatible error fragment. HTMX does not
// swap non-2xx responses by default, so the fragment is sent with 200 and
// the real status travels in a header.
func renderErrorPartial(w http.ResponseWriter, r *http.Request, msg app.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Error-Status", http.StatusText(statusCode))
	w.WriteHeader(http.StatusOK)
	_ = templates.ErrorAlert(banner(msg)).Render(r.Context(), w)
}

func banner(msg app.UserMessage) templates.Banner {
	return templates.Banner{
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
		Detail:  msg.Detail,
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
