package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore"
	"github.com/frahmantamala/applicant-tracking/internal/job"
	"gorm.io/gorm"
)

// JobRepository implements job.RepositoryAPI using GORM
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	row := job.ToDataModel(j)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if datastore.IsForeignKeyViolation(err) {
			return apperrors.ErrUnknownReference
		}
		return err
	}
	*j = *job.FromDataModel(row)
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id int64) (*job.Job, error) {
	var row jobDatamodel.Job
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}
	return job.FromDataModel(&row), nil
}

func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	row := job.ToDataModel(j)
	err := r.db.WithContext(ctx).Model(row).
		Select("title", "department", "description", "requirements", "salary_range", "job_type", "deadline", "status", "updated_at").
		Updates(row).Error
	if err != nil {
		return err
	}
	j.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	res := r.db.WithContext(ctx).Model(&jobDatamodel.Job{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*job.Job, error) {
	var rows []*jobDatamodel.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return job.FromDataModelSlice(rows), nil
}

func (r *JobRepository) ListByHR(ctx context.Context, hrID int64, limit, offset int) ([]*job.Job, error) {
	var rows []*jobDatamodel.Job
	err := r.db.WithContext(ctx).
		Where("hr_id = ?", hrID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return job.FromDataModelSlice(rows), nil
}

// Delete removes the job and everything hanging off it in one transaction.
func (r *JobRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&interviewDatamodel.Interview{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", id).Delete(&applicationDatamodel.Application{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&jobDatamodel.Job{}, id)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}
