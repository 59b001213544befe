package dashboard

import (
	applicationDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/application"
)

// applicationStatuses is the order stats are reported in.
var applicationStatuses = []string{
	applicationDatamodel.StatusApplied,
	applicationDatamodel.StatusShortlisted,
	applicationDatamodel.StatusInterview,
	applicationDatamodel.StatusRejected,
	applicationDatamodel.StatusHired,
}

type JobStats struct {
	JobID               int64            `json:"jobId"`
	Title               string           `json:"title"`
	JobStatus           string           `json:"jobStatus"`
	TotalApplications   int64            `json:"totalApplications"`
	ByStatus            map[string]int64 `json:"byStatus"`
	ScheduledInterviews int64            `json:"scheduledInterviews"`
	CompletedInterviews int64            `json:"completedInterviews"`
}

type HRSummary struct {
	HRID               int64 `json:"hrId"`
	ActiveJobs         int64 `json:"activeJobs"`
	DraftJobs          int64 `json:"draftJobs"`
	ClosedJobs         int64 `json:"closedJobs"`
	TotalApplications  int64 `json:"totalApplications"`
	AwaitingReview     int64 `json:"awaitingReview"`
	UpcomingInterviews int64 `json:"upcomingInterviews"`
}

// JobRow is the owner and headline of a posting.
type JobRow struct {
	ID     int64  `db:"id"`
	HRID   int64  `db:"hr_id"`
	Title  string `db:"title"`
	Status string `db:"status"`
}

type StatusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

// zeroFilled returns a count for every application status, missing ones as zero.
func zeroFilled(counts []StatusCount) (map[string]int64, int64) {
	byStatus := make(map[string]int64, len(applicationStatuses))
	for _, s := range applicationStatuses {
		byStatus[s] = 0
	}
	var total int64
	for _, c := range counts {
		byStatus[c.Status] += c.Count
		total += c.Count
	}
	return byStatus, total
}
