package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore"
	"github.com/frahmantamala/applicant-tracking/internal/interview"
	"gorm.io/gorm"
)

// InterviewRepository implements interview.RepositoryAPI using GORM
type InterviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// CreateScheduled inserts the interview and force-sets its application to the
// interview status in the same transaction.
func (r *InterviewRepository) CreateScheduled(ctx context.Context, i *interview.Interview) error {
	return r.CreateScheduledBatch(ctx, []*interview.Interview{i})
}

func (r *InterviewRepository) CreateScheduledBatch(ctx context.Context, items []*interview.Interview) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]*interviewDatamodel.Interview, len(items))
	appIDs := make([]int64, len(items))
	for idx, i := range items {
		rows[idx] = interview.ToDataModel(i)
		appIDs[idx] = i.ApplicationID
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rows).Error; err != nil {
			return translateWriteError(err)
		}
		return tx.Model(&applicationDatamodel.Application{}).
			Where("id IN ?", appIDs).
			Updates(map[string]interface{}{
				"status":     applicationDatamodel.StatusInterview,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return err
	}

	for idx, row := range rows {
		*items[idx] = *interview.FromDataModel(row)
	}
	return nil
}

func (r *InterviewRepository) GetByID(ctx context.Context, id int64) (*interview.Interview, error) {
	var row interviewDatamodel.Interview
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInterviewNotFound
		}
		return nil, err
	}
	return interview.FromDataModel(&row), nil
}

// FindByApplication returns nil without error when the application has no interview.
func (r *InterviewRepository) FindByApplication(ctx context.Context, applicationID int64) (*interview.Interview, error) {
	var rows []*interviewDatamodel.Interview
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return interview.FromDataModel(rows[0]), nil
}

func (r *InterviewRepository) Update(ctx context.Context, i *interview.Interview) error {
	return r.updateFields(ctx, i.ID, map[string]interface{}{
		"interview_date":    i.InterviewDate,
		"duration":          i.Duration,
		"type":              i.Type,
		"meeting_link":      i.MeetingLink,
		"preparation_notes": i.PreparationNotes,
	})
}

func (r *InterviewRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.updateFields(ctx, id, map[string]interface{}{"status": status})
}

func (r *InterviewRepository) UpdatePreparationNotes(ctx context.Context, id int64, notes string) error {
	return r.updateFields(ctx, id, map[string]interface{}{"preparation_notes": notes})
}

// AttachCalendarEvent stores the booking made for an already scheduled interview.
func (r *InterviewRepository) AttachCalendarEvent(ctx context.Context, id int64, meetingLink *string, eventID string) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"meeting_link":      meetingLink,
		"calendar_event_id": eventID,
	})
}

// RecordFeedback writes the feedback fields and the resulting status in one statement.
func (r *InterviewRepository) RecordFeedback(ctx context.Context, id int64, fb interview.FeedbackRecord) error {
	return r.updateFields(ctx, id, map[string]interface{}{
		"feedback": fb.Feedback,
		"rating":   fb.Rating,
		"result":   fb.Result,
		"status":   fb.Status,
	})
}

func (r *InterviewRepository) ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*interview.Interview, error) {
	return r.list(ctx, "job_id = ?", jobID, limit, offset)
}

func (r *InterviewRepository) ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*interview.Interview, error) {
	return r.list(ctx, "candidate_id = ?", candidateID, limit, offset)
}

func (r *InterviewRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&interviewDatamodel.Interview{}, id)
	return res.RowsAffected, res.Error
}

func (r *InterviewRepository) list(ctx context.Context, where string, arg int64, limit, offset int) ([]*interview.Interview, error) {
	var rows []*interviewDatamodel.Interview
	err := r.db.WithContext(ctx).
		Where(where, arg).
		Order("interview_date ASC").Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return interview.FromDataModelSlice(rows), nil
}

func (r *InterviewRepository) updateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&interviewDatamodel.Interview{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInterviewNotFound
	}
	return nil
}

func translateWriteError(err error) error {
	switch {
	case datastore.IsUniqueViolation(err):
		return apperrors.ErrDuplicateInterview
	case datastore.IsForeignKeyViolation(err):
		return apperrors.ErrUnknownReference
	}
	return err
}
