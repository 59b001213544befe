package job

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/transport"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

type ServiceAPI interface {
	CreateJob(ctx context.Context, actor *auth.User, dto CreateJobDTO) (*Job, error)
	GetJob(ctx context.Context, id int64, actor *auth.User) (*Job, error)
	UpdateJob(ctx context.Context, id int64, actor *auth.User, dto UpdateJobDTO) (*Job, error)
	CloseJob(ctx context.Context, id int64, actor *auth.User) (*Job, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Job, error)
	ListByHR(ctx context.Context, hrID int64, limit, offset int) ([]*Job, error)
	DeleteJob(ctx context.Context, id int64, actor *auth.User) error
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

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateJobDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	j, err := h.Service.CreateJob(r.Context(), user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "Job created successfully", j)
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, _ := auth.UserFromContext(r.Context())
	j, err := h.Service.GetJob(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Job retrieved", j)
}

func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
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

	var dto UpdateJobDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	j, err := h.Service.UpdateJob(r.Context(), id, user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Job updated successfully", j)
}

func (h *Handler) CloseJob(w http.ResponseWriter, r *http.Request) {
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

	j, err := h.Service.CloseJob(r.Context(), id, user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Job closed", j)
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.Pagination(r)
	jobs, err := h.Service.ListActive(r.Context(), limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Jobs retrieved", jobs)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := h.Pagination(r)
	jobs, err := h.Service.ListByHR(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Jobs retrieved", jobs)
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.DeleteJob(r.Context(), id, user); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Job deleted", nil)
}
