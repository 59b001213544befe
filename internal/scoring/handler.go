package scoring

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/transport"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

type ServiceAPI interface {
	RankApplicants(ctx context.Context, jobID int64) ([]RankedCandidate, error)
	MatchJobsForCandidate(ctx context.Context, candidateID int64, resume string, topN int) ([]MatchedJob, error)
	AuthorizeJobOwner(ctx context.Context, jobID int64, actor *auth.User) error
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

func (h *Handler) RankApplicants(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	jobID, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Service.AuthorizeJobOwner(r.Context(), jobID, user); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	ranked, err := h.Service.RankApplicants(r.Context(), jobID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Candidates ranked", ranked)
}

func (h *Handler) MatchJobs(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto MatchJobsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if appErr := dto.Validate(); appErr != nil {
		h.HandleServiceError(w, appErr)
		return
	}

	topN := 0
	if dto.TopN != nil {
		topN = *dto.TopN
	}
	matched, err := h.Service.MatchJobsForCandidate(r.Context(), user.ID, dto.ResumeText, topN)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Matching jobs retrieved", matched)
}
