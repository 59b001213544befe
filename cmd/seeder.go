package cmd

import (
	"fmt"
	"log"
	"time"

	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users, job postings and applications for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB, false)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearTables(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		if err := seed(db); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

// clearTables removes rows children first so foreign keys never block.
func clearTables(db *gorm.DB) error {
	for _, table := range []string{"notifications", "interviews", "applications", "jobs", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func seed(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []struct {
		Email string
		Name  string
		Role  string
	}{
		{"admin@applicant-tracking.local", "Admin", userDatamodel.RoleAdmin},
		{"hr@applicant-tracking.local", "Hana HR", userDatamodel.RoleHR},
		{"alex@mail.com", "Alex Candidate", userDatamodel.RoleCandidate},
		{"sam@mail.com", "Sam Candidate", userDatamodel.RoleCandidate},
	}

	ids := make(map[string]int64, len(users))
	for _, u := range users {
		row := &userDatamodel.User{
			Email:        u.Email,
			Name:         u.Name,
			PasswordHash: string(hash),
			Role:         u.Role,
			Status:       userDatamodel.StatusActive,
		}
		if err := db.Where(userDatamodel.User{Email: u.Email}).FirstOrCreate(row).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		ids[u.Email] = row.ID
		fmt.Println("Seeded user:", u.Email, "role:", u.Role)
	}

	hrID := ids["hr@applicant-tracking.local"]
	deadline := time.Now().AddDate(0, 1, 0)
	jobs := []jobDatamodel.Job{
		{
			HRID:         hrID,
			Title:        "Backend Engineer",
			Department:   "Engineering",
			Description:  "Build and operate the hiring platform APIs.",
			Requirements: "Go, PostgreSQL, REST",
			SalaryRange:  "80k-110k",
			JobType:      "full_time",
			Deadline:     &deadline,
			Status:       jobDatamodel.StatusActive,
		},
		{
			HRID:         hrID,
			Title:        "Product Designer",
			Department:   "Design",
			Description:  "Own the candidate facing experience.",
			Requirements: "Figma, user research",
			SalaryRange:  "70k-90k",
			JobType:      "full_time",
			Status:       jobDatamodel.StatusDraft,
		},
	}

	var active int64
	for i := range jobs {
		j := &jobs[i]
		if err := db.Where(jobDatamodel.Job{HRID: hrID, Title: j.Title}).FirstOrCreate(j).Error; err != nil {
			return fmt.Errorf("seed job %s: %w", j.Title, err)
		}
		if j.Status == jobDatamodel.StatusActive && active == 0 {
			active = j.ID
		}
		fmt.Println("Seeded job:", j.Title, "status:", j.Status)
	}

	for _, email := range []string{"alex@mail.com", "sam@mail.com"} {
		resume := fmt.Sprintf("%s resume: 4 years of Go and PostgreSQL.", email)
		app := &applicationDatamodel.Application{
			JobID:       active,
			CandidateID: ids[email],
			Status:      applicationDatamodel.StatusApplied,
			ResumeText:  &resume,
			AppliedAt:   time.Now(),
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(app).Error; err != nil {
			return fmt.Errorf("seed application for %s: %w", email, err)
		}
	}
	fmt.Println("Seeded applications for the active posting")

	fmt.Println("All seeded users share the password:", seedPassword)
	return nil
}
