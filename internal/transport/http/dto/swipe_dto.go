package dto

type SwipeRequest struct {
	SubjectID int64 `json:"subject_id" validate:"required,gt=0"`
	Liked     *bool `json:"liked" validate:"required"`
}

type SwipeResponse struct {
	OK      bool   `json:"ok"`
	Outcome string `json:"outcome"`
	Matched bool   `json:"matched"`
}
