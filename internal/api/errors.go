package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/HadiaEL/CABINET-MEDICAL/internal/apperr"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/auth"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/directory"
	redisclient "github.com/HadiaEL/CABINET-MEDICAL/internal/redis"
	"github.com/HadiaEL/CABINET-MEDICAL/internal/scheduling"
)

// ErrorResponse is the uniform error body every non-2xx response carries.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var notFoundErrors = []error{
	scheduling.ErrPatientNotFound,
	scheduling.ErrDoctorNotFound,
	scheduling.ErrAppointmentNotFound,
	scheduling.ErrAvailabilityNotFound,
	scheduling.ErrDayNotFound,
	scheduling.ErrHourNotFound,
	directory.ErrDoctorNotFound,
	directory.ErrSpecialtyNotFound,
	auth.ErrPatientNotFound,
}

var conflictErrors = []error{
	scheduling.ErrAppointmentOverlap,
	scheduling.ErrAvailabilityOverlap,
	scheduling.ErrInvalidStatusTransition,
	scheduling.ErrAgendaBusy,
	scheduling.ErrDuplicateStart,
	scheduling.ErrDuplicateWindow,
	redisclient.ErrLockNotAcquired,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// classify maps a domain error to its HTTP status, label and safe message.
// Anything it does not recognize becomes a 500 with a generic body; the
// detailed cause only goes to the log.
func classify(err error) (status int, label, message string) {
	var invalid *apperr.InvalidArgument

	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest, "Bad Request", invalid.Message
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Unauthorized", auth.ErrInvalidCredentials.Error()
	case isAny(err, notFoundErrors):
		return http.StatusNotFound, "Not Found", err.Error()
	case isAny(err, conflictErrors):
		return http.StatusConflict, "Conflict", err.Error()
	default:
		return http.StatusInternalServerError, "Internal Server Error", "an unexpected error occurred"
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, label, message := classify(err)

	if status == http.StatusInternalServerError {
		h.logger.Error("unexpected error",
			zap.String("path", r.URL.Path),
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
	}

	writeJSON(w, status, ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      r.URL.Path,
	})
}
