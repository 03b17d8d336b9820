package model

import "time"

type Judgment struct {
	JudgeID   int64     `json:"judge_id"`
	SubjectID int64     `json:"subject_id"`
	Liked     bool      `json:"liked"`
	JudgedAt  time.Time `json:"judged_at"`
}

type SwipeStats struct {
	Days   int `json:"days"`
	Total  int `json:"total"`
	Likes  int `json:"likes"`
	Passes int `json:"passes"`
}
