package application

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/applicant-tracking/internal/auth"
	"github.com/frahmantamala/applicant-tracking/internal/transport"
	"github.com/frahmantamala/applicant-tracking/pkg/logger"
)

type ServiceAPI interface {
	SubmitApplication(ctx context.Context, candidateID int64, dto SubmitApplicationDTO) (*Application, error)
	UpdateStatus(ctx context.Context, id int64, newStatus string) (*Application, error)
	AddNotes(ctx context.Context, id int64, notes string) (*Application, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*Application, error)
	ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*Application, error)
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

func (h *Handler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitApplicationDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.Service.SubmitApplication(r.Context(), user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, "Application submitted successfully", a)
}

func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
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

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := auth.CanViewCandidateRecord(user, a.CandidateID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Application retrieved", a)
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

	h.WriteData(w, http.StatusOK, "Applications retrieved", items)
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

	h.WriteData(w, http.StatusOK, "Applications retrieved", items)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownedApplication(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), a.ID, dto.Status)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Application status updated", updated)
}

func (h *Handler) AddNotes(w http.ResponseWriter, r *http.Request) {
	a, ok := h.ownedApplication(w, r)
	if !ok {
		return
	}

	var dto AddNotesDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.Service.AddNotes(r.Context(), a.ID, dto.Notes)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Notes saved", updated)
}

func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathID(r, "id")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, "Application deleted", nil)
}

// ownedApplication loads the application from the path and checks the caller owns its job.
func (h *Handler) ownedApplication(w http.ResponseWriter, r *http.Request) (*Application, bool) {
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

	a, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return nil, false
	}

	if err := h.Service.AuthorizeJobOwner(r.Context(), a.JobID, user); err != nil {
		h.Logger.Warn("application access denied", "application_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return nil, false
	}
	return a, true
}
