package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bokk3/dating-app/internal/domain/errs"
	"github.com/bokk3/dating-app/internal/domain/model"
	"github.com/bokk3/dating-app/internal/domain/rules"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	profilesvc "github.com/bokk3/dating-app/internal/services/profiles"
	"github.com/bokk3/dating-app/internal/transport/http/dto"
	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

type ProfileService interface {
	Get(ctx context.Context, userID int64) (model.Profile, error)
	Upsert(ctx context.Context, userID int64, in profilesvc.Input) (model.Profile, error)
}

type AvatarResolver interface {
	URL(ctx context.Context, key string) string
}

type ProfileHandler struct {
	service ProfileService
	avatars AvatarResolver
	now     func() time.Time
}

func NewProfileHandler(service ProfileService, avatars AvatarResolver) *ProfileHandler {
	return &ProfileHandler{service: service, avatars: avatars, now: time.Now}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, h.toResponse(r.Context(), profile))
}

func (h *ProfileHandler) Put(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	birthDate, err := time.Parse(time.DateOnly, req.BirthDate)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "birth_date must be YYYY-MM-DD")
		return
	}

	profile, err := h.service.Upsert(r.Context(), identity.UserID, profilesvc.Input{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		BirthDate:     birthDate,
		Gender:        req.Gender,
		InterestedIn:  req.InterestedIn,
		Bio:           req.Bio,
		LocationLabel: req.LocationLabel,
		Lat:           req.Lat,
		Lon:           req.Lon,
		MaxDistanceKM: req.MaxDistanceKM,
		AvatarKey:     req.AvatarKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrAgeRejected):
			writeBadRequest(w, "AGE_REJECTED", "age is outside the allowed range")
		case errors.Is(err, profilesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, errs.ErrInvalidSubject):
			writeBadRequest(w, "UNKNOWN_ACCOUNT", "no account exists for the authenticated user")
		default:
			if !writeDomainError(w, err) {
				writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
			}
		}
		return
	}

	httperrors.Write(w, http.StatusOK, h.toResponse(r.Context(), profile))
}

func (h *ProfileHandler) toResponse(ctx context.Context, p model.Profile) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:        p.UserID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		BirthDate:     p.BirthDate.Format(time.DateOnly),
		Age:           rules.AgeAt(p.BirthDate, h.now()),
		Gender:        string(p.Gender),
		InterestedIn:  string(p.InterestedIn),
		Bio:           p.Bio,
		LocationLabel: p.LocationLabel,
		Lat:           p.Lat,
		Lon:           p.Lon,
		MaxDistanceKM: p.MaxDistanceKM,
		UpdatedAt:     p.UpdatedAt,
	}
	if h.avatars != nil {
		resp.AvatarURL = h.avatars.URL(ctx, p.AvatarKey)
	}
	return resp
}
