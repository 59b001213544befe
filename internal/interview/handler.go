package interview

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/transport"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

type ServiceAPI interface {
	ScheduleInterview(ctx context.Context, interviewerID int64, dto ScheduleInterviewDTO) (*Interview, error)
	BulkSchedule(ctx context.Context, interviewerID int64, dto BulkScheduleDTO) ([]*Interview, error)
	EditInterview(ctx context.Context, id int64, dto EditInterviewDTO) (*Interview, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Interview, error)
	AddPreparationNotes(ctx context.Context, id int64, notes string) (*Interview, error)
	AddFeedback(ctx context.Context, id int64, dto FeedbackDTO) (*Interview, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Interview, error)
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Interview, error)
	ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Interview, error)
	AuthorizeJobOwner(ctx context.Context, jobID int64, actor *auth.User) error
	AuthorizeApplication(ctx context.Context, applicationID int64, actor *auth.User) error
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

func (h *Handler) ScheduleInterview(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ScheduleInterviewDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if dto.ApplicationID > 0 {
		if err := h.Service.AuthorizeApplication(r.Context(), dto.ApplicationID, user); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	i, err := h.Service.ScheduleInterview(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "Interview scheduled successfully", i)
}

func (h *Handler) BulkSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto BulkScheduleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, item := range dto.Interviews {
		if item.ApplicationID <= 0 {
			continue
		}
		if err := h.Service.AuthorizeApplication(r.Context(), item.ApplicationID, user); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	items, err := h.Service.BulkSchedule(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "Interviews scheduled successfully", items)
}

func (h *Handler) GetInterview(w http.ResponseWriter, r *http.Request) {
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

	i, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := auth.CanViewCandidateRecord(user, i.CandidateID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interview retrieved", i)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit, offset := h.Pagination(r)
	items, err := h.Service.ListByCandidate(r.Context(), user.ID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interviews retrieved", items)
}

func (h *Handler) ListForJob(w http.ResponseWriter, r *http.Request) {
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

	limit, offset := h.Pagination(r)
	items, err := h.Service.ListByJob(r.Context(), jobID, limit, offset)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interviews retrieved", items)
}

func (h *Handler) EditInterview(w http.ResponseWriter, r *http.Request) {
	i, ok := h.ownedInterview(w, r)
	if !ok {
		return
	}

	var dto EditInterviewDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.EditInterview(r.Context(), i.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interview updated", updated)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	i, ok := h.ownedInterview(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), i.ID, dto.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interview status updated", updated)
}

func (h *Handler) AddPreparationNotes(w http.ResponseWriter, r *http.Request) {
	i, ok := h.ownedInterview(w, r)
	if !ok {
		return
	}

	var dto PreparationNotesDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.AddPreparationNotes(r.Context(), i.ID, dto.Notes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Preparation notes saved", updated)
}

func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	i, ok := h.ownedInterview(w, r)
	if !ok {
		return
	}

	var dto FeedbackDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.AddFeedback(r.Context(), i.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Feedback recorded", updated)
}

func (h *Handler) DeleteInterview(w http.ResponseWriter, r *http.Request) {
	i, ok := h.ownedInterview(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(r.Context(), i.ID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Interview deleted", nil)
}

func (h *Handler) ownedInterview(w http.ResponseWriter, r *http.Request) (*Interview, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	i, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}

	if err := h.Service.AuthorizeJobOwner(r.Context(), i.JobID, user); err != nil {
		h.Logger.Warn("interview access denied", "interview_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return nil, false
	}
	return i, true
}
