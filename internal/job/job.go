package job

import (
	"time"

	jobDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/job"
)

const (
	StatusDraft  = jobDatamodel.StatusDraft
	StatusActive = jobDatamodel.StatusActive
	StatusClosed = jobDatamodel.StatusClosed
)

type Job struct {
	ID           int64      `json:"id"`
	HRID         int64      `json:"hrId"`
	Title        string     `json:"title"`
	Department   string     `json:"department"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	SalaryRange  string     `json:"salaryRange"`
	JobType      string     `json:"jobType"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (j *Job) AcceptsApplications() bool {
	return j.Status == StatusActive
}

func (j *Job) IsClosed() bool {
	return j.Status == StatusClosed
}

// Text is the job as a single document for the scoring service.
func (j *Job) Text() string {
	return j.Title + "\n" + j.Department + "\n" + j.Description + "\n" + j.Requirements
}

func NewJob(hrID int64, dto CreateJobDTO) *Job {
	status := dto.Status
	if status == "" {
		status = StatusDraft
	}
	return &Job{
		HRID:         hrID,
		Title:        dto.Title,
		Department:   dto.Department,
		Description:  dto.Description,
		Requirements: dto.Requirements,
		SalaryRange:  dto.SalaryRange,
		JobType:      dto.JobType,
		Deadline:     dto.Deadline,
		Status:       status,
	}
}

// Apply copies the non-nil fields of the update onto the job.
func (j *Job) Apply(dto UpdateJobDTO) {
	if dto.Title != nil {
		j.Title = *dto.Title
	}
	if dto.Department != nil {
		j.Department = *dto.Department
	}
	if dto.Description != nil {
		j.Description = *dto.Description
	}
	if dto.Requirements != nil {
		j.Requirements = *dto.Requirements
	}
	if dto.SalaryRange != nil {
		j.SalaryRange = *dto.SalaryRange
	}
	if dto.JobType != nil {
		j.JobType = *dto.JobType
	}
	if dto.Deadline != nil {
		j.Deadline = dto.Deadline
	}
	if dto.Status != nil {
		j.Status = *dto.Status
	}
}

func ToDataModel(j *Job) *jobDatamodel.Job {
	return &jobDatamodel.Job{
		ID:           j.ID,
		HRID:         j.HRID,
		Title:        j.Title,
		Department:   j.Department,
		Description:  j.Description,
		Requirements: j.Requirements,
		SalaryRange:  j.SalaryRange,
		JobType:      j.JobType,
		Deadline:     j.Deadline,
		Status:       j.Status,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func FromDataModel(j *jobDatamodel.Job) *Job {
	return &Job{
		ID:           j.ID,
		HRID:         j.HRID,
		Title:        j.Title,
		Department:   j.Department,
		Description:  j.Description,
		Requirements: j.Requirements,
		SalaryRange:  j.SalaryRange,
		JobType:      j.JobType,
		Deadline:     j.Deadline,
		Status:       j.Status,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*jobDatamodel.Job) []*Job {
	result := make([]*Job, len(rows))
	for i, j := range rows {
		result[i] = FromDataModel(j)
	}
	return result
}
