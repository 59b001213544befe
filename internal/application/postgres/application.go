package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/application"
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplicationRepository implements application.RepositoryAPI using GORM
type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *application.Application) error {
	row := application.ToDataModel(a)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		switch {
		case datastore.IsUniqueViolation(err):
			return apperrors.ErrDuplicateApplication
		case datastore.IsForeignKeyViolation(err):
			return apperrors.ErrUnknownReference
		}
		return err
	}
	*a = *application.FromDataModel(row)
	return nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*application.Application, error) {
	var row applicationDatamodel.Application
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, err
	}
	return application.FromDataModel(&row), nil
}

// FindByJobAndCandidate returns nil without error when the pair has not applied yet.
func (r *ApplicationRepository) FindByJobAndCandidate(ctx context.Context, jobID, candidateID int64) (*application.Application, error) {
	var rows []*applicationDatamodel.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND candidate_id = ?", jobID, candidateID).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return application.FromDataModel(rows[0]), nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).Model(&applicationDatamodel.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	res := r.db.WithContext(ctx).Model(&applicationDatamodel.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notes":      notes,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Hire runs under row locks on the job and the application so two concurrent
// hires on the same job serialize. The later one finds its application already
// rejected and fails with an invalid transition.
func (r *ApplicationRepository) Hire(ctx context.Context, id, jobID int64) ([]*application.Application, error) {
	var rejected []*applicationDatamodel.Application

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var j jobDatamodel.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&j, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrJobNotFound
			}
			return err
		}

		var row applicationDatamodel.Application
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND job_id = ?", id, jobID).
			First(&row).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrApplicationNotFound
			}
			return err
		}
		if row.Status == applicationDatamodel.StatusRejected {
			return apperrors.ErrInvalidTransition
		}

		now := time.Now()
		if row.Status != applicationDatamodel.StatusHired {
			err := tx.Model(&applicationDatamodel.Application{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{"status": applicationDatamodel.StatusHired, "updated_at": now}).Error
			if err != nil {
				return err
			}
		}

		err = tx.Where("job_id = ? AND id <> ? AND status <> ?", jobID, id, applicationDatamodel.StatusRejected).
			Find(&rejected).Error
		if err != nil {
			return err
		}

		if len(rejected) > 0 {
			ids := make([]int64, len(rejected))
			for i, sib := range rejected {
				ids[i] = sib.ID
				sib.Status = applicationDatamodel.StatusRejected
				sib.UpdatedAt = now
			}
			err := tx.Model(&applicationDatamodel.Application{}).
				Where("id IN ?", ids).
				Updates(map[string]interface{}{"status": applicationDatamodel.StatusRejected, "updated_at": now}).Error
			if err != nil {
				return err
			}
		}

		return tx.Model(&jobDatamodel.Job{}).
			Where("id = ?", jobID).
			Updates(map[string]interface{}{"status": jobDatamodel.StatusClosed, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	return application.FromDataModelSlice(rejected), nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64, limit, offset int) ([]*application.Application, error) {
	var rows []*applicationDatamodel.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("applied_at ASC").Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return application.FromDataModelSlice(rows), nil
}

func (r *ApplicationRepository) ListByCandidate(ctx context.Context, candidateID int64, limit, offset int) ([]*application.Application, error) {
	var rows []*applicationDatamodel.Application
	err := r.db.WithContext(ctx).
		Where("candidate_id = ?", candidateID).
		Order("applied_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return application.FromDataModelSlice(rows), nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).Delete(&interviewDatamodel.Interview{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&applicationDatamodel.Application{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
