package swipes

import (
	"errors"
	"fmt"
)

var ErrValidation = errors.New("validation error")

// TooFastError is returned when the caller exceeded the swipe rate.
type TooFastError struct {
	RetryAfterSec int64
}

func (e TooFastError) Error() string {
	return fmt.Sprintf("too many swipes, retry in %ds", e.RetryAfter())
}

func (e TooFastError) RetryAfter() int64 {
	if e.RetryAfterSec <= 0 {
		return 1
	}
	return e.RetryAfterSec
}

func IsTooFast(err error) (*TooFastError, bool) {
	var tf TooFastError
	if errors.As(err, &tf) {
		return &tf, true
	}
	return nil, false
}
