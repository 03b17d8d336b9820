package model

import (
	"time"

	"github.com/bokk3/dating-app/internal/domain/enums"
)

type Candidate struct {
	UserID        int64        `json:"user_id"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Age           int          `json:"age"`
	Gender        enums.Gender `json:"gender"`
	Bio           string       `json:"bio"`
	LocationLabel string       `json:"location_label"`
	AvatarURL     string       `json:"avatar_url"`
	DistanceKM    *float64     `json:"distance_km,omitempty"`
	LastActiveAt  *time.Time   `json:"last_active_at,omitempty"`
}
