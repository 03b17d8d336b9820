package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/bokk3/dating-app/internal/domain/model"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	swipesvc "github.com/bokk3/dating-app/internal/services/swipes"
	"github.com/bokk3/dating-app/internal/transport/http/dto"
	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

type SwipeService interface {
	Swipe(ctx context.Context, judgeID, subjectID int64, liked bool) (swipesvc.SwipeResult, error)
	Stats(ctx context.Context, userID int64, days int) (model.SwipeStats, error)
}

type SwipeHandler struct {
	service SwipeService
}

func NewSwipeHandler(service SwipeService) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.SubjectID, *req.Liked)
	if err != nil {
		if tooFast, ok := swipesvc.IsTooFast(err); ok {
			httperrors.WriteRetry(w, http.StatusTooManyRequests, "TOO_FAST", "too many swipes", tooFast.RetryAfter())
			return
		}
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to record swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:      true,
		Outcome: string(result.Outcome),
		Matched: result.Matched,
	})
}

func (h *SwipeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	stats, err := h.service.Stats(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("days"), 0))
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid stats window")
		default:
			if !writeDomainError(w, err) {
				writeInternal(w, "INTERNAL_ERROR", "failed to load swipe stats")
			}
		}
		return
	}

	httperrors.Write(w, http.StatusOK, stats)
}
