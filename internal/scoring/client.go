package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPOracle is the JSON client for the scoring service.
type HTTPOracle struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPOracle(config ClientConfig, logger *slog.Logger) *HTTPOracle {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPOracle{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		apiKey:  config.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPOracle) ParseResume(ctx context.Context, raw []byte) (*Profile, error) {
	var resp struct {
		Data Profile `json:"data"`
	}
	if err := c.post(ctx, "/resumes/parse", map[string]interface{}{"resume": string(raw)}, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (c *HTTPOracle) RankCandidates(ctx context.Context, job JobText, candidates []CandidateProfile) ([]RankedCandidate, error) {
	var resp struct {
		Data []RankedCandidate `json:"data"`
	}
	payload := map[string]interface{}{
		"job":        job,
		"candidates": candidates,
	}
	if err := c.post(ctx, "/candidates/rank", payload, &resp); err != nil {
		return nil, err
	}
	c.logger.Info("candidates ranked", "job_id", job.JobID, "candidates", len(candidates), "ranked", len(resp.Data))
	return resp.Data, nil
}

func (c *HTTPOracle) MatchJobs(ctx context.Context, profile Profile, jobs []JobText) ([]MatchedJob, error) {
	var resp struct {
		Data []MatchedJob `json:"data"`
	}
	payload := map[string]interface{}{
		"profile": profile,
		"jobs":    jobs,
	}
	if err := c.post(ctx, "/jobs/match", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *HTTPOracle) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoring API %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
