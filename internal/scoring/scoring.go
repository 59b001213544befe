package scoring

import "context"

const notSpecified = "Not specified"

type Profile struct {
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}

// PlaceholderProfile stands in for a resume that could not be parsed.
func PlaceholderProfile() Profile {
	return Profile{
		Skills:     []string{},
		Experience: notSpecified,
		Education:  notSpecified,
	}
}

type JobText struct {
	JobID int64  `json:"jobId"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type CandidateProfile struct {
	ApplicationID int64   `json:"applicationId"`
	CandidateID   int64   `json:"candidateId"`
	Profile       Profile `json:"profile"`
}

type RankedCandidate struct {
	ApplicationID int64   `json:"applicationId"`
	CandidateID   int64   `json:"candidateId"`
	Score         float64 `json:"score"`
	Reasoning     string  `json:"reasoning,omitempty"`
}

type MatchedJob struct {
	JobID     int64   `json:"jobId"`
	Title     string  `json:"title"`
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning,omitempty"`
}

// Oracle is the external resume parsing and ranking service.
type Oracle interface {
	ParseResume(ctx context.Context, raw []byte) (*Profile, error)
	RankCandidates(ctx context.Context, job JobText, candidates []CandidateProfile) ([]RankedCandidate, error)
	MatchJobs(ctx context.Context, profile Profile, jobs []JobText) ([]MatchedJob, error)
}
