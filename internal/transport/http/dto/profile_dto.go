package dto

import "time"

type ProfileRequest struct {
	FirstName     string   `json:"first_name" validate:"required,max=64"`
	LastName      string   `json:"last_name" validate:"max=64"`
	BirthDate     string   `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Gender        string   `json:"gender" validate:"required,oneof=male female other"`
	InterestedIn  string   `json:"interested_in" validate:"required,oneof=male female both"`
	Bio           string   `json:"bio" validate:"max=1000"`
	LocationLabel string   `json:"location_label" validate:"max=128"`
	Lat           *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon           *float64 `json:"lon" validate:"omitempty,longitude"`
	MaxDistanceKM int      `json:"max_distance_km" validate:"gte=0"`
	AvatarKey     string   `json:"avatar_key" validate:"max=256"`
}

type ProfileResponse struct {
	UserID        int64     `json:"user_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	BirthDate     string    `json:"birth_date"`
	Age           int       `json:"age"`
	Gender        string    `json:"gender"`
	InterestedIn  string    `json:"interested_in"`
	Bio           string    `json:"bio"`
	LocationLabel string    `json:"location_label"`
	Lat           *float64  `json:"lat"`
	Lon           *float64  `json:"lon"`
	MaxDistanceKM int       `json:"max_distance_km"`
	AvatarURL     string    `json:"avatar_url"`
	UpdatedAt     time.Time `json:"updated_at"`
}
