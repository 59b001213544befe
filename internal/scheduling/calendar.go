package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type CalendarConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPCalendar is the JSON client for the calendar service.
type HTTPCalendar struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPCalendar(config CalendarConfig, logger *slog.Logger) *HTTPCalendar {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPCalendar{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPCalendar) CreateEvent(ctx context.Context, credential string, req EventRequest) (*Event, error) {
	payload := map[string]interface{}{
		"summary":         req.Summary,
		"attendees":       req.Attendees,
		"start":           req.Start.UTC().Format(time.RFC3339),
		"end":             req.Start.Add(time.Duration(req.DurationMinutes) * time.Minute).UTC().Format(time.RFC3339),
		"durationMinutes": req.DurationMinutes,
		"conference":      true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var event Event
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if event.EventID == "" {
		return nil, fmt.Errorf("calendar API returned no event id")
	}

	c.logger.Info("calendar event created",
		"event_id", event.EventID,
		"attendees", len(req.Attendees),
		"start", req.Start)

	return &event, nil
}
