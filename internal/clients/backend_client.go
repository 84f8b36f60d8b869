package clients

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ptd/internal/engine/interfaces"
	"ptd/internal/models"
	"ptd/internal/structures"

	"github.com/goccy/go-json"
)

const defaultTimeout = 10 * time.Second

// BackendClient talks HTTP to the sale/timer backend. It is a thin
// transport adapter: responses come back as wire records, and all staleness
// judgment stays with the engine.
type BackendClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewBackendClient(conf *structures.Config) interfaces.BackendInterface {
	timeout := conf.Backend.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BackendClient{
		baseURL: conf.Backend.BaseURL,
		apiKey:  conf.Backend.APIKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *BackendClient) FetchActiveTimers(ctx context.Context, branchID string) ([]models.TimerRecord, error) {
	var out []models.TimerRecord
	endpoint := fmt.Sprintf("/branches/%s/timers", url.PathEscape(branchID))
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) PollTimerUpdates(ctx context.Context, branchID string) ([]models.TimerRecord, error) {
	var out []models.TimerRecord
	endpoint := fmt.Sprintf("/branches/%s/timers/updates", url.PathEscape(branchID))
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) PollAlertTriggers(ctx context.Context, branchID string) ([]models.AlertTrigger, error) {
	var out []models.AlertTrigger
	endpoint := fmt.Sprintf("/branches/%s/alerts/pending", url.PathEscape(branchID))
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BackendClient) SubmitExtension(ctx context.Context, saleID, timerID string, minutes int) (*models.TimerRecord, error) {
	endpoint := fmt.Sprintf("/sales/%s/timers/%s/extend", url.PathEscape(saleID), url.PathEscape(timerID))
	body, err := json.Marshal(map[string]int{"minutes": minutes})
	if err != nil {
		return nil, fmt.Errorf("failed to encode extension: %w", err)
	}

	data, err := c.makeRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var rec models.TimerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode extension response: %w", err)
	}
	return &rec, nil
}

func (c *BackendClient) AcknowledgeAlert(ctx context.Context, timerID string, thresholdMinutes int) error {
	endpoint := fmt.Sprintf("/timers/%s/alerts/%d/ack", url.PathEscape(timerID), thresholdMinutes)
	_, err := c.makeRequest(ctx, http.MethodPost, endpoint, nil)
	return err
}

func (c *BackendClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	data, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *BackendClient) makeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status code: %d, response: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
