package audit

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sisdisciplinar/sisdisciplinar/internal/platform/httpx"
)

// Handler exposes the recent-activities feed.
type Handler struct {
	logger  *slog.Logger
	service *Service
	limit   int
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, limit int) *Handler {
	return &Handler{logger: logger, service: service, limit: limit}
}

// MountRoutes registers the activities route. The caller mounts this group
// behind the administrator gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/activities", h.recentActivities)
}

func (h *Handler) recentActivities(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.RecentActivities(r.Context(), h.limit)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("recent activities", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []FeedItem{}
	}
	httpx.JSON(w, http.StatusOK, items)
}
