package web

// errors.go provides unified error response handling for the web layer.
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err)
//  3. The status comes from statusFor, the message from core.MapError
//  4. Technical error is logged with the request ID for correlation
//  5. The client receives an ErrorResponse

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/addresses/internal/core"
	"github.com/JonMunkholm/addresses/internal/logging"
)

// errBadRequest marks malformed request input.
var errBadRequest = errors.New("bad request")

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, core.ErrQueryRequired):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrStateNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrImportRunning), errors.Is(err, core.ErrLockNotAcquired):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and writes a
// user-friendly JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)
	if errors.Is(err, errBadRequest) {
		userMsg = core.UserMessage{
			Message: "The request could not be parsed",
			Action:  "Check the request body and parameters",
			Code:    "REQ400",
		}
	}

	log := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request error", attrs...)
	} else {
		log.Info("request rejected", attrs...)
	}

	writeJSON(w, r, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}
