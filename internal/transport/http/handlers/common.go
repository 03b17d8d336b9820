package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/transport/http/dto"
	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

// transientRetryAfterSec is the hint sent with 503 responses.
const transientRetryAfterSec = 2

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return dto.Validate(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusUnauthorized, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}

// writeDomainError maps engine error kinds to HTTP responses. It reports
// false when err is not one of them, leaving the response to the caller.
func writeDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, errs.ErrNoProfile):
		httperrors.Write(w, http.StatusConflict, httperrors.APIError{Code: "PROFILE_REQUIRED", Message: "create a profile first"})
	case errors.Is(err, errs.ErrInvalidSubject):
		writeBadRequest(w, "INVALID_SUBJECT", "target user is not available")
	case errors.Is(err, errs.ErrUnauthorized):
		httperrors.Write(w, http.StatusForbidden, httperrors.APIError{Code: "FORBIDDEN", Message: "not a participant of this match"})
	case errors.Is(err, errs.ErrNotFound):
		httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: "NOT_FOUND", Message: "match not found"})
	case errs.IsTransient(err):
		httperrors.WriteRetry(w, http.StatusServiceUnavailable, "TEMP_UNAVAILABLE", "storage is temporarily unavailable", transientRetryAfterSec)
	default:
		return false
	}
	return true
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parsePathID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
