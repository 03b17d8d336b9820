package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/bokk3/dating-app/internal/repo/redis"
)

func TestLimiterBlocksOn10SecondWindow(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 100, 2)
	ctx := context.Background()
	userID := int64(42)

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.AllowSwipe(ctx, userID)
		if err != nil {
			t.Fatalf("allow swipe #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on swipe #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.AllowSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("allow swipe #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected block on third swipe in 10s window")
	}
	if retryAfter <= 0 || retryAfter > 10 {
		t.Fatalf("unexpected retry_after: %d", retryAfter)
	}

	state, err := limiter.RetryAfterSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if state <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", state)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.AllowSwipe(ctx, userID)
	if err != nil {
		t.Fatalf("allow swipe after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterMinuteWindowOutlastsTenSeconds(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	limiter := NewLimiter(redrepo.NewRateRepo(client), 3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, allowed, err := limiter.AllowSwipe(ctx, 7); err != nil || !allowed {
			t.Fatalf("swipe #%d should pass: allowed=%v err=%v", i+1, allowed, err)
		}
	}

	mr.FastForward(20 * time.Second)

	retryAfter, allowed, err := limiter.AllowSwipe(ctx, 7)
	if err != nil {
		t.Fatalf("allow swipe #4: %v", err)
	}
	if allowed {
		t.Fatalf("expected minute window to block")
	}
	if retryAfter <= 10 {
		t.Fatalf("expected retry_after from minute window, got %d", retryAfter)
	}

	if _, allowed, err := limiter.AllowSwipe(ctx, 8); err != nil || !allowed {
		t.Fatalf("other users must not share windows: allowed=%v err=%v", allowed, err)
	}
}

func TestLimiterPropagatesStoreErrors(t *testing.T) {
	limiter := NewLimiter(failingStore{}, 10, 10)
	if _, _, err := limiter.AllowSwipe(context.Background(), 1); err == nil {
		t.Fatalf("expected store error")
	}
	if _, _, err := NewLimiter(nil, 1, 1).AllowSwipe(context.Background(), 1); err == nil {
		t.Fatalf("expected error without store")
	}
}

func TestCeilSeconds(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want int64
	}{
		{in: 0, want: 0},
		{in: 500 * time.Millisecond, want: 1},
		{in: time.Second, want: 1},
		{in: 1500 * time.Millisecond, want: 2},
	}
	for _, tc := range cases {
		if got := ceilSeconds(tc.in); got != tc.want {
			t.Fatalf("unexpected ceil for %s: got %d want %d", tc.in, got, tc.want)
		}
	}
}

type failingStore struct{}

func (failingStore) IncrementWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func (failingStore) WindowState(context.Context, string) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
