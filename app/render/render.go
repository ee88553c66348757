// Package render writes JSON responses and maps application errors to
// HTTP statuses.
package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "taskmanager/app/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// MessageBody is returned by endpoints without a resource to show.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes err as an ErrorBody. System errors are logged with the
// request; caller errors only at debug level.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "error", err}
	if apperrors.ShouldLogError(err) {
		logger.Error("request failed", attrs...)
	} else {
		logger.Debug("request rejected", attrs...)
	}

	JSON(w, status, ErrorBody{
		Message: apperrors.GetUserMessage(err),
		Code:    apperrors.GetErrorCode(err),
	})
}
