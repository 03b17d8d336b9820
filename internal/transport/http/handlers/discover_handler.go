package handlers

import (
	"context"
	"net/http"

	"github.com/bokk3/dating-app/internal/domain/model"
	authsvc "github.com/bokk3/dating-app/internal/services/auth"
	"github.com/bokk3/dating-app/internal/transport/http/dto"
	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

type DiscoveryService interface {
	GetFeed(ctx context.Context, requesterID int64, limit int) ([]model.Candidate, error)
}

type DiscoverHandler struct {
	service DiscoveryService
}

func NewDiscoverHandler(service DiscoveryService) *DiscoverHandler {
	return &DiscoverHandler{service: service}
}

func (h *DiscoverHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVERY_SERVICE_UNAVAILABLE", "discovery service is unavailable")
		return
	}

	items, err := h.service.GetFeed(r.Context(), identity.UserID, parseIntOrDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		if !writeDomainError(w, err) {
			writeInternal(w, "INTERNAL_ERROR", "failed to load discovery feed")
		}
		return
	}
	if items == nil {
		items = []model.Candidate{}
	}

	httperrors.Write(w, http.StatusOK, dto.DiscoverResponse{Items: items})
}
