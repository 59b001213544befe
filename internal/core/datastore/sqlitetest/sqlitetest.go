// Package sqlitetest opens an in-memory SQLite database with every table migrated.
// It backs the repository and lifecycle specs.
package sqlitetest

import (
	"fmt"

	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	notificationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/notification"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&userDatamodel.User{},
		&jobDatamodel.Job{},
		&applicationDatamodel.Application{},
		&interviewDatamodel.Interview{},
		&notificationDatamodel.Notification{},
	); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	return db, nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedUser inserts an active user with the given role.
func SeedUser(db *gorm.DB, email, role string) (*userDatamodel.User, error) {
	u := &userDatamodel.User{
		Email:        email,
		Name:         email,
		PasswordHash: "x",
		Role:         role,
		Status:       userDatamodel.StatusActive,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func SeedJob(db *gorm.DB, hrID int64, title, status string) (*jobDatamodel.Job, error) {
	j := &jobDatamodel.Job{
		HRID:        hrID,
		Title:       title,
		Department:  "Engineering",
		Description: title + " description",
		Status:      status,
	}
	if err := db.Create(j).Error; err != nil {
		return nil, err
	}
	return j, nil
}
