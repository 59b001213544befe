package postgres

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore"
	"github.com/frahmantamala/applicant-tracking/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.RepositoryAPI using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	row := user.ToDataModel(u)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if datastore.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateEmail
		}
		return err
	}
	*u = *user.FromDataModel(row)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var row userDatamodel.User
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&row), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.update(ctx, id, fields)
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *UserRepository) SetCalendarToken(ctx context.Context, id int64, token *string) error {
	return r.update(ctx, id, map[string]interface{}{"calendar_token": token})
}

func (r *UserRepository) List(ctx context.Context, role string, limit, offset int) ([]*user.User, error) {
	q := r.db.WithContext(ctx)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var rows []*userDatamodel.User
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(rows), nil
}

func (r *UserRepository) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
