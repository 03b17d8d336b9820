package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bokk3/dating-app/internal/domain/model"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	"github.com/bokk3/dating-app/internal/transport/http/dto"
	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

type MatchService interface {
	ProcessLike(ctx context.Context, userA, userB int64) (bool, error)
	ListActiveMatches(ctx context.Context, userID int64) ([]model.MatchFeedItem, error)
	Unmatch(ctx context.Context, matchID, requesterID int64) error
}

type MatchesHandler struct {
	service MatchService
}

func NewMatchesHandler(service MatchService) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	items, err := h.service.ListActiveMatches(r.Context(), identity.UserID)
	if err != nil {
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		}
		return
	}
	if items == nil {
		items = []model.MatchFeedItem{}
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

// Check re-runs match detection between the caller and user_id. Clients use
// it to retry after a swipe response was lost.
func (h *MatchesHandler) Check(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	var req dto.MatchCheckRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	matched, err := h.service.ProcessLike(r.Context(), identity.UserID, req.UserID)
	if err != nil {
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to check match")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchCheckResponse{Matched: matched})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCHES_SERVICE_UNAVAILABLE", "matches service is unavailable")
		return
	}

	matchID, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.service.Unmatch(r.Context(), matchID, identity.UserID); err != nil {
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
