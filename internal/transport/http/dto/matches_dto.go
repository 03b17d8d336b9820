package dto

import "github.com/bokk3/dating-app/internal/domain/model"

type MatchCheckRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type MatchCheckResponse struct {
	Matched bool `json:"matched"`
}

type MatchesResponse struct {
	Items []model.MatchFeedItem `json:"items"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
