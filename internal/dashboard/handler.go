package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/transport"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

type ServiceAPI interface {
	JobStats(ctx context.Context, jobID int64, actor *auth.User) (*JobStats, error)
	HRSummary(ctx context.Context, hrID int64) (*HRSummary, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) JobStats(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.Service.JobStats(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Job statistics retrieved", stats)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.Service.HRSummary(r.Context(), user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Dashboard summary retrieved", summary)
}
