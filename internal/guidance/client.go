// Package guidance is the HTTP client for the external AI guidance service
package guidance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jananicare/server/internal/config"
	"github.com/jananicare/server/internal/metrics"
	"github.com/jananicare/server/internal/reminders"
)

// Client calls the guidance service's reminder generation endpoint. A
// circuit breaker sheds calls while the service is down so generation fails
// fast into the fallback path instead of burning the full timeout per user.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*generateResponse]
	logger  *zap.Logger
}

// NewClient creates a new guidance client
func NewClient(cfg *config.GuidanceConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30
	}

	breaker := gobreaker.NewCircuitBreaker[*generateResponse](gobreaker.Settings{
		Name:    "guidance",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Guidance breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
		breaker: breaker,
		logger:  logger,
	}
}

type generateRequest struct {
	UserID      string                 `json:"user_id"`
	VoiceLogs   []reminders.LogContext `json:"voice_logs"`
	UserProfile reminders.Profile      `json:"user_profile"`
}

type generateResponse struct {
	Reminders []reminders.ReminderItem `json:"reminders"`
}

// GenerateReminders asks the guidance service for a week's reminder list.
// Timeouts, transport errors, non-200 responses, and open-breaker rejections
// all surface as errors; the generator decides what to do with them.
func (c *Client) GenerateReminders(ctx context.Context, userID string, logs []reminders.LogContext, profile reminders.Profile) ([]reminders.ReminderItem, error) {
	if logs == nil {
		logs = []reminders.LogContext{}
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*generateResponse, error) {
		return c.post(ctx, generateRequest{
			UserID:      userID,
			VoiceLogs:   logs,
			UserProfile: profile,
		})
	})
	metrics.GuidanceDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, err
	}
	return resp.Reminders, nil
}

func (c *Client) post(ctx context.Context, req generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/generate-reminders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("guidance error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
