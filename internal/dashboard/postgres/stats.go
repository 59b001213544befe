package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	interviewDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/interview"
	"github.com/frahmantamala/applicant-tracking/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

// StatsRepository runs read-only aggregate queries with sqlx.
// Queries are written with ? placeholders and rebound for the driver.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) GetJob(ctx context.Context, jobID int64) (*dashboard.JobRow, error) {
	var row dashboard.JobRow
	query := r.db.Rebind(`SELECT id, hr_id, title, status FROM jobs WHERE id = ?`)
	if err := r.db.GetContext(ctx, &row, query, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get job %d: %w", jobID, err)
	}
	return &row, nil
}

func (r *StatsRepository) ApplicationCountsByJob(ctx context.Context, jobID int64) ([]dashboard.StatusCount, error) {
	return r.counts(ctx, `
		SELECT status, COUNT(*) AS count
		FROM applications
		WHERE job_id = ?
		GROUP BY status`, jobID)
}

func (r *StatsRepository) InterviewCountsByJob(ctx context.Context, jobID int64) ([]dashboard.StatusCount, error) {
	return r.counts(ctx, `
		SELECT status, COUNT(*) AS count
		FROM interviews
		WHERE job_id = ?
		GROUP BY status`, jobID)
}

func (r *StatsRepository) JobCountsByHR(ctx context.Context, hrID int64) ([]dashboard.StatusCount, error) {
	return r.counts(ctx, `
		SELECT status, COUNT(*) AS count
		FROM jobs
		WHERE hr_id = ?
		GROUP BY status`, hrID)
}

func (r *StatsRepository) ApplicationCountsByHR(ctx context.Context, hrID int64) ([]dashboard.StatusCount, error) {
	return r.counts(ctx, `
		SELECT a.status, COUNT(*) AS count
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE j.hr_id = ?
		GROUP BY a.status`, hrID)
}

func (r *StatsRepository) UpcomingInterviewsByHR(ctx context.Context, hrID int64, from time.Time) (int64, error) {
	var count int64
	query := r.db.Rebind(`
		SELECT COUNT(*)
		FROM interviews i
		JOIN jobs j ON j.id = i.job_id
		WHERE j.hr_id = ? AND i.status = ? AND i.interview_date >= ?`)
	if err := r.db.GetContext(ctx, &count, query, hrID, interviewDatamodel.StatusScheduled, from); err != nil {
		return 0, fmt.Errorf("count upcoming interviews: %w", err)
	}
	return count, nil
}

func (r *StatsRepository) counts(ctx context.Context, query string, arg int64) ([]dashboard.StatusCount, error) {
	var out []dashboard.StatusCount
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(query), arg); err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	return out, nil
}
