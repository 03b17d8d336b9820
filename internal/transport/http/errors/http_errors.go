package errors

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RateLimitError is the body of 429 and 503 responses; clients retry after
// RetryAfterSec.
type RateLimitError struct {
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	RetryAfterSec int64      `json:"retry_after_sec"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
}

func Write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteRetry writes a RateLimitError and mirrors the hint in Retry-After.
func WriteRetry(w http.ResponseWriter, status int, code, message string, retryAfterSec int64) {
	if retryAfterSec <= 0 {
		retryAfterSec = 1
	}
	until := time.Now().UTC().Add(time.Duration(retryAfterSec) * time.Second)
	w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSec, 10))
	Write(w, status, RateLimitError{
		Code:          code,
		Message:       message,
		RetryAfterSec: retryAfterSec,
		CooldownUntil: &until,
	})
}
