package model

import (
	"time"

	"github.com/bokk3/dating-app/internal/domain/enums"
)

type Profile struct {
	UserID        int64            `json:"user_id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	BirthDate     time.Time        `json:"birth_date"`
	Gender        enums.Gender     `json:"gender"`
	InterestedIn  enums.Preference `json:"interested_in"`
	Bio           string           `json:"bio"`
	LocationLabel string           `json:"location_label"`
	Lat           *float64         `json:"lat"`
	Lon           *float64         `json:"lon"`
	MaxDistanceKM int              `json:"max_distance_km"`
	AvatarKey     string           `json:"avatar_key"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (p Profile) HasLocation() bool {
	return p.Lat != nil && p.Lon != nil
}

// Summary is the slice of a profile shown next to a match.
type Summary struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}
