package handlers

import (
	"context"
	"net/http"
	"time"

	httperrors "github.com/bokk3/dating-app/internal/transport/http/errors"
)

type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Handle always answers 200 so the process counts as live; dependency state
// is reported per component.
func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checks))
	for name, ping := range h.checks {
		if ping == nil {
			components[name] = "disabled"
			continue
		}
		if err := ping(ctx); err != nil {
			components[name] = "down"
			continue
		}
		components[name] = "up"
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK         bool              `json:"ok"`
		Components map[string]string `json:"components"`
	}{
		OK:         true,
		Components: components,
	})
}
