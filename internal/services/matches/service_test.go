package matches

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
	pgrepo "github.com/bokk3/dating-app/internal/repo/postgres"
)

var testNow = time.Date(2026, 4, 2, 9, 30, 0, 0, time.UTC)

type txRunner struct {
	calls int
}

func (r *txRunner) WithTx(ctx context.Context, fn pgrepo.TxFunc) error {
	r.calls++
	return fn(ctx, nil)
}

type likesStub struct {
	edges map[[2]int64]bool
	at    map[[2]int64]time.Time
	err   error
}

func (s *likesStub) LikedAt(_ context.Context, _ pgx.Tx, judgeID, subjectID int64) (time.Time, bool, error) {
	if s.err != nil {
		return time.Time{}, false, s.err
	}
	edge := [2]int64{judgeID, subjectID}
	if !s.edges[edge] {
		return time.Time{}, false, nil
	}
	if at, ok := s.at[edge]; ok {
		return at, true, nil
	}
	return testNow.Add(-2 * time.Hour), true, nil
}

type matchStoreStub struct {
	rows      []model.Match
	locks     int
	createErr error
	active    []pgrepo.ActiveMatchRecord
}

func (s *matchStoreStub) LockPair(_ context.Context, _ pgx.Tx, lowID, highID int64) error {
	if lowID >= highID {
		return errors.New("pair is not canonical")
	}
	s.locks++
	return nil
}

func (s *matchStoreStub) LatestForPair(_ context.Context, _ pgx.Tx, lowID, highID int64) (model.Match, bool, error) {
	for i := len(s.rows) - 1; i >= 0; i-- {
		if s.rows[i].UserLowID == lowID && s.rows[i].UserHighID == highID {
			return s.rows[i], true, nil
		}
	}
	return model.Match{}, false, nil
}

func (s *matchStoreStub) Create(_ context.Context, _ pgx.Tx, lowID, highID int64, at time.Time) (model.Match, error) {
	if s.createErr != nil {
		return model.Match{}, s.createErr
	}
	m := model.Match{ID: int64(len(s.rows) + 1), UserLowID: lowID, UserHighID: highID, Active: true, CreatedAt: at}
	s.rows = append(s.rows, m)
	return m, nil
}

func (s *matchStoreStub) GetForUpdate(_ context.Context, _ pgx.Tx, matchID int64) (model.Match, error) {
	for _, m := range s.rows {
		if m.ID == matchID {
			return m, nil
		}
	}
	return model.Match{}, errs.ErrNotFound
}

func (s *matchStoreStub) Deactivate(_ context.Context, _ pgx.Tx, matchID, byUserID int64, at time.Time) error {
	for i := range s.rows {
		if s.rows[i].ID == matchID {
			s.rows[i].Active = false
			s.rows[i].UnmatchedAt = &at
			s.rows[i].UnmatchedBy = &byUserID
		}
	}
	return nil
}

func (s *matchStoreStub) ListActiveForUser(_ context.Context, _ int64) ([]pgrepo.ActiveMatchRecord, error) {
	return s.active, nil
}

type messagesStub struct {
	mu       sync.Mutex
	previews map[int64]model.MessagePreview
	err      error
	calls    int
}

func (s *messagesStub) LatestForMatch(_ context.Context, matchID int64) (model.MessagePreview, bool, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return model.MessagePreview{}, false, s.err
	}
	p, ok := s.previews[matchID]
	return p, ok, nil
}

type avatarStub struct{}

func (avatarStub) URL(_ context.Context, key string) string {
	if key == "" {
		return "/default.png"
	}
	return "signed:" + key
}

func newTestService(store *matchStoreStub, likes *likesStub, messages *messagesStub) (*Service, *txRunner) {
	runner := &txRunner{}
	svc := NewService(Dependencies{
		Tx:       runner,
		Matches:  store,
		Likes:    likes,
		Messages: messages,
		Avatars:  avatarStub{},
	}, Config{LookupParallelism: 2})
	svc.now = func() time.Time { return testNow }
	return svc, runner
}

func mutual(a, b int64) *likesStub {
	return &likesStub{edges: map[[2]int64]bool{{a, b}: true, {b, a}: true}}
}

func TestProcessLikeWithoutReciprocity(t *testing.T) {
	store := &matchStoreStub{}
	svc, _ := newTestService(store, &likesStub{edges: map[[2]int64]bool{{1, 2}: true}}, &messagesStub{})

	matched, err := svc.ProcessLike(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("process like: %v", err)
	}
	if matched || len(store.rows) != 0 {
		t.Fatalf("unexpected match without reciprocal like: matched=%v rows=%d", matched, len(store.rows))
	}
	if store.locks != 1 {
		t.Fatalf("pair lock must be taken: got %d want %d", store.locks, 1)
	}
}

func TestProcessLikeCreatesSingleMatchAndIsRetryable(t *testing.T) {
	store := &matchStoreStub{}
	svc, runner := newTestService(store, mutual(7, 3), &messagesStub{})

	for i := 0; i < 3; i++ {
		matched, err := svc.ProcessLike(context.Background(), 7, 3)
		if err != nil {
			t.Fatalf("process like #%d: %v", i+1, err)
		}
		if !matched {
			t.Fatalf("expected matched=true on call #%d", i+1)
		}
	}

	if len(store.rows) != 1 {
		t.Fatalf("unexpected match rows: got %d want %d", len(store.rows), 1)
	}
	if store.rows[0].UserLowID != 3 || store.rows[0].UserHighID != 7 {
		t.Fatalf("match must be stored canonically: %+v", store.rows[0])
	}
	if runner.calls != 3 {
		t.Fatalf("each call must run in its own tx: got %d", runner.calls)
	}
}

func TestProcessLikeTreatsConflictAsMatched(t *testing.T) {
	store := &matchStoreStub{createErr: errs.ErrConflict}
	svc, _ := newTestService(store, mutual(1, 2), &messagesStub{})

	matched, err := svc.ProcessLike(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("process like: %v", err)
	}
	if !matched {
		t.Fatalf("conflict must resolve to matched=true")
	}
}

func TestProcessLikeAfterUnmatch(t *testing.T) {
	unmatchedAt := testNow.Add(-time.Hour)
	store := &matchStoreStub{rows: []model.Match{{ID: 1, UserLowID: 1, UserHighID: 2, Active: false, UnmatchedAt: &unmatchedAt}}}
	likes := mutual(1, 2)
	svc, _ := newTestService(store, likes, &messagesStub{})

	matched, err := svc.ProcessLike(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("process like: %v", err)
	}
	if matched || len(store.rows) != 1 {
		t.Fatalf("likes older than the unmatch must not re-match: matched=%v rows=%d", matched, len(store.rows))
	}

	likes.at = map[[2]int64]time.Time{{2, 1}: testNow.Add(-time.Minute)}
	matched, err = svc.ProcessLike(context.Background(), 2, 1)
	if err != nil {
		t.Fatalf("process like after fresh like: %v", err)
	}
	if !matched {
		t.Fatalf("a like given after the unmatch must match again")
	}
	if len(store.rows) != 2 || !store.rows[1].Active || store.rows[0].Active {
		t.Fatalf("expected a new active row next to the history row: %+v", store.rows)
	}

	matched, err = svc.ProcessLike(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !matched || len(store.rows) != 2 {
		t.Fatalf("retry must reuse the active row: matched=%v rows=%d", matched, len(store.rows))
	}
}

func TestProcessLikeRequiresCallerLike(t *testing.T) {
	store := &matchStoreStub{}
	svc, _ := newTestService(store, &likesStub{edges: map[[2]int64]bool{{2, 1}: true}}, &messagesStub{})

	matched, err := svc.ProcessLike(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("process like: %v", err)
	}
	if matched {
		t.Fatalf("match must not be created before the caller likes back")
	}
}

func TestProcessLikeErrors(t *testing.T) {
	svc, _ := newTestService(&matchStoreStub{}, &likesStub{}, &messagesStub{})
	if _, err := svc.ProcessLike(context.Background(), 4, 4); !errors.Is(err, errs.ErrInvalidSubject) {
		t.Fatalf("expected ErrInvalidSubject for self, got %v", err)
	}

	failing, _ := newTestService(&matchStoreStub{}, &likesStub{err: errs.ErrTransient}, &messagesStub{})
	if _, err := failing.ProcessLike(context.Background(), 1, 2); !errs.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestListActiveMatchesOrdering(t *testing.T) {
	base := testNow.Add(-48 * time.Hour)
	store := &matchStoreStub{active: []pgrepo.ActiveMatchRecord{
		{ID: 1, OtherUserID: 11, FirstName: "old-no-msg", CreatedAt: base},
		{ID: 2, OtherUserID: 12, FirstName: "msg-early", CreatedAt: base.Add(time.Hour), AvatarKey: "a/12.jpg"},
		{ID: 3, OtherUserID: 13, FirstName: "new-no-msg", CreatedAt: base.Add(5 * time.Hour)},
		{ID: 4, OtherUserID: 14, FirstName: "msg-late", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 5, OtherUserID: 15, FirstName: "msg-late-tie", CreatedAt: base.Add(3 * time.Hour)},
	}}
	messages := &messagesStub{previews: map[int64]model.MessagePreview{
		2: {Text: "hi", SentAt: base.Add(10 * time.Hour)},
		4: {Text: "hey", SentAt: base.Add(20 * time.Hour)},
		5: {Text: "yo", SentAt: base.Add(20 * time.Hour)},
	}}
	svc, _ := newTestService(store, &likesStub{}, messages)

	items, err := svc.ListActiveMatches(context.Background(), 10)
	if err != nil {
		t.Fatalf("list active matches: %v", err)
	}

	want := []int64{5, 4, 2, 3, 1}
	if len(items) != len(want) {
		t.Fatalf("unexpected item count: got %d want %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].MatchID != id {
			t.Fatalf("unexpected order at %d: got %d want %d", i, items[i].MatchID, id)
		}
	}
	if items[2].Profile.AvatarURL != "signed:a/12.jpg" || items[3].Profile.AvatarURL != "/default.png" {
		t.Fatalf("unexpected avatar urls: %q %q", items[2].Profile.AvatarURL, items[3].Profile.AvatarURL)
	}
	if items[3].LastMessage != nil {
		t.Fatalf("match without messages must have no preview")
	}
	if messages.calls != len(want) {
		t.Fatalf("expected one message lookup per match, got %d", messages.calls)
	}
}

func TestListActiveMatchesPropagatesLookupError(t *testing.T) {
	store := &matchStoreStub{active: []pgrepo.ActiveMatchRecord{{ID: 1}, {ID: 2}, {ID: 3}}}
	svc, _ := newTestService(store, &likesStub{}, &messagesStub{err: errs.ErrTransient})

	if _, err := svc.ListActiveMatches(context.Background(), 10); !errs.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestUnmatch(t *testing.T) {
	store := &matchStoreStub{rows: []model.Match{{ID: 9, UserLowID: 1, UserHighID: 2, Active: true}}}
	svc, _ := newTestService(store, &likesStub{}, &messagesStub{})
	ctx := context.Background()

	if err := svc.Unmatch(ctx, 404, 1); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Unmatch(ctx, 9, 3); !errors.Is(err, errs.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !store.rows[0].Active {
		t.Fatalf("non-participant must not deactivate the match")
	}

	if err := svc.Unmatch(ctx, 9, 2); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	if store.rows[0].Active || store.rows[0].UnmatchedBy == nil || *store.rows[0].UnmatchedBy != 2 {
		t.Fatalf("unexpected match after unmatch: %+v", store.rows[0])
	}
	if len(store.rows) != 1 {
		t.Fatalf("unmatch must not delete rows")
	}

	if err := svc.Unmatch(ctx, 9, 1); err != nil {
		t.Fatalf("repeated unmatch must succeed, got %v", err)
	}
	if *store.rows[0].UnmatchedBy != 2 {
		t.Fatalf("repeated unmatch must not overwrite the first unmatch")
	}
}
