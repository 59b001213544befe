package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// CredentialRepository implements scheduling.CredentialStore over the users table.
type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

func (r *CredentialRepository) CalendarCredential(ctx context.Context, userID int64) (string, bool, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Select("id", "calendar_token").First(&u, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, apperrors.ErrUserNotFound
		}
		return "", false, err
	}
	if u.CalendarToken == nil || *u.CalendarToken == "" {
		return "", false, nil
	}
	return *u.CalendarToken, true, nil
}

func (r *CredentialRepository) Emails(ctx context.Context, userIDs []int64) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var emails []string
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id IN ?", userIDs).
		Order("id ASC").
		Pluck("email", &emails).Error
	return emails, err
}
