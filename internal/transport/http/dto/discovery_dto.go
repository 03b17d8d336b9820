package dto

import "github.com/bokk3/dating-app/internal/domain/model"

type DiscoverResponse struct {
	Items []model.Candidate `json:"items"`
}
