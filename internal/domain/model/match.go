package model

import "time"

// Match is stored with UserLowID < UserHighID.
type Match struct {
	ID          int64      `json:"id"`
	UserLowID   int64      `json:"user_low_id"`
	UserHighID  int64      `json:"user_high_id"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UnmatchedAt *time.Time `json:"unmatched_at,omitempty"`
	UnmatchedBy *int64     `json:"unmatched_by,omitempty"`
}

func (m Match) HasParticipant(userID int64) bool {
	return userID > 0 && (m.UserLowID == userID || m.UserHighID == userID)
}

func (m Match) Other(userID int64) int64 {
	if m.UserLowID == userID {
		return m.UserHighID
	}
	return m.UserLowID
}

type MessagePreview struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

type MatchFeedItem struct {
	MatchID     int64           `json:"match_id"`
	OtherUserID int64           `json:"other_user_id"`
	Profile     Summary         `json:"profile"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
	MatchedAt   time.Time       `json:"matched_at"`
}

type EngineStats struct {
	TotalMatches  int64   `json:"total_matches"`
	ActiveMatches int64   `json:"active_matches"`
	Judgments     int64   `json:"judgments"`
	Likes         int64   `json:"likes"`
	LikeRate      float64 `json:"like_rate"`
	Messages      int64   `json:"messages"`
	WindowDays    int     `json:"window_days"`
}
