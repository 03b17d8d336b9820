package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

type presignerStub struct {
	url   string
	err   error
	calls int
	ttl   time.Duration
}

func (s *presignerStub) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.calls++
	s.ttl = ttl
	if s.err != nil {
		return "", s.err
	}
	return s.url + key, nil
}

func TestAvatarsURLPresignsKey(t *testing.T) {
	stub := &presignerStub{url: "https://cdn.local/"}
	avatars := NewAvatars(stub, 30*time.Minute, "/images/default-avatar.png", nil)

	got := avatars.URL(context.Background(), "avatars/1.jpg")
	if got != "https://cdn.local/avatars/1.jpg" {
		t.Fatalf("unexpected url: %s", got)
	}
	if stub.ttl != 30*time.Minute {
		t.Fatalf("unexpected ttl: %s", stub.ttl)
	}
}

func TestAvatarsURLFallsBackToDefault(t *testing.T) {
	stub := &presignerStub{err: errors.New("s3 down")}
	avatars := NewAvatars(stub, time.Minute, "/images/default-avatar.png", nil)

	if got := avatars.URL(context.Background(), ""); got != "/images/default-avatar.png" {
		t.Fatalf("unexpected url for empty key: %s", got)
	}
	if stub.calls != 0 {
		t.Fatalf("empty key must not be presigned")
	}
	if got := avatars.URL(context.Background(), "avatars/2.jpg"); got != "/images/default-avatar.png" {
		t.Fatalf("unexpected url on presign error: %s", got)
	}

	noStorage := NewAvatars(nil, time.Minute, "/d.png", nil)
	if got := noStorage.URL(context.Background(), "k"); got != "/d.png" {
		t.Fatalf("unexpected url without storage: %s", got)
	}
}
