package web

// errors.go turns handler failures into JSON error bodies.
//
// The error flow:
//  1. Handler gets an error from the service, a resource or request parsing
//  2. Calls respondError(w, r, err)
//  3. core.MapError picks the user message, code and HTTP status
//  4. The technical error is logged with the request id for correlation
//  5. The client gets ErrorResponse with the same request id

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/JonMunkholm/newsroom/internal/core"
	"github.com/JonMunkholm/newsroom/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Action    string `json:"action,omitempty"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// malformedBody is reported for request bodies that are not a JSON object.
var malformedBody = core.UserMessage{
	Message: "Malformed request body",
	Action:  "Send a JSON object of column values",
	Code:    "REQ001",
	Status:  http.StatusBadRequest,
}

// respondError logs err and writes its user-facing form.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	if errors.Is(err, errMalformedBody) {
		msg = malformedBody
	}
	if msg.Status == 0 {
		msg.Status = http.StatusInternalServerError
	}

	log := logging.WithFields(r.Context(),
		"method", r.Method,
		"path", r.URL.Path,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	)
	if msg.Status >= http.StatusInternalServerError {
		log.Error("request error")
	} else {
		log.Info("request rejected")
	}

	respondMessage(w, r, msg)
}

// respondMessage writes msg as an ErrorResponse.
func respondMessage(w http.ResponseWriter, r *http.Request, msg core.UserMessage) {
	writeJSON(w, msg.Status, ErrorResponse{
		Error:     msg.Message,
		Action:    msg.Action,
		Code:      msg.Code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeJSON encodes v as the response body with status.
// Encoding errors are only logged since the header is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// clientIP returns the request's remote address without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
