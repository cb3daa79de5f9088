package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadgram-backend/internal/model"
)

// N8NClient fires n8n workflow webhooks for automations.
type N8NClient struct {
	BaseURL string
	Client  *http.Client
}

func NewN8NClient(baseURL string) *N8NClient {
	return &N8NClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type TriggerPayload struct {
	AutomationID string                  `json:"automation_id"`
	UserID       string                  `json:"user_id"`
	Trigger      model.AutomationTrigger `json:"trigger"`
	Data         model.JSONMap           `json:"data,omitempty"`
}

// TriggerWorkflow POSTs the payload to the workflow's webhook and returns the
// decoded response body. Transient failures are retried up to 3 times with a
// linear backoff.
func (c *N8NClient) TriggerWorkflow(ctx context.Context, workflowID string, payload TriggerPayload) (model.JSONMap, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("n8n webhook URL is not configured")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trigger payload: %w", err)
	}

	url := c.BaseURL + "/" + workflowID

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			var result model.JSONMap
			if len(bodyBytes) > 0 {
				if err := json.Unmarshal(bodyBytes, &result); err != nil {
					// Workflows may answer with plain text; surface it as-is.
					result = model.JSONMap{"output": string(bodyBytes)}
				}
			}
			return result, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("n8n returned status: %d", resp.StatusCode)
		time.Sleep(time.Duration(i+1) * time.Second)
	}

	return nil, fmt.Errorf("failed to trigger n8n workflow after retries: %w", lastErr)
}
