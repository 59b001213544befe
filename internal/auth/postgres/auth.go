package postgres

import (
	"context"
	"errors"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "role", "status", "password_hash").
		Where("email = ?", email).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       row.ID,
		Email:        row.Email,
		Role:         row.Role,
		Status:       row.Status,
		PasswordHash: row.PasswordHash,
	}, nil
}

func (r *Repository) GetUser(ctx context.Context, userID int64) (*auth.User, string, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "role", "status").
		Where("id = ?", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrUserNotFound
		}
		return nil, "", err
	}
	return &auth.User{ID: row.ID, Email: row.Email, Role: row.Role}, row.Status, nil
}
