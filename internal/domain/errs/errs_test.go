package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsTransientFollowsWrapping(t *testing.T) {
	wrapped := fmt.Errorf("list matches: %w", fmt.Errorf("query: %w", ErrTransient))
	if !IsTransient(wrapped) {
		t.Fatalf("expected wrapped transient error to be detected")
	}
	if IsTransient(errors.New("boom")) {
		t.Fatalf("plain error must not be transient")
	}
	if IsTransient(ErrNotFound) {
		t.Fatalf("not found must not be transient")
	}
}
