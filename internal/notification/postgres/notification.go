package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	notificationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/notification"
	"github.com/frahmantamala/applicant-tracking/internal/core/datastore"
	"github.com/frahmantamala/applicant-tracking/internal/notification"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	row := notification.ToDataModel(n)
	row.IsRead = false
	row.EmailSent = false
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		if datastore.IsForeignKeyViolation(err) {
			return apperrors.ErrUnknownReference
		}
		return err
	}
	*n = *notification.FromDataModel(row)
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*notification.Notification, error) {
	var row notificationDatamodel.Notification
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}
	return notification.FromDataModel(&row), nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var rows []*notificationDatamodel.Notification
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) MarkEmailSent(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("id = ?", id).
		Update("email_sent", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// ListEmailPending returns the oldest notifications that were never emailed.
func (r *NotificationRepository) ListEmailPending(ctx context.Context, limit int) ([]*notification.Notification, error) {
	var rows []*notificationDatamodel.Notification
	err := r.db.WithContext(ctx).
		Where("email_sent = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return notification.FromDataModelSlice(rows), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&notificationDatamodel.Notification{})
	return res.RowsAffected, res.Error
}
