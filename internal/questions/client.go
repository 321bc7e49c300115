package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/triviarena/triviarena/internal/models"
)

// Client calls the external question authoring service.
type Client struct {
	baseURL  string
	client   *http.Client
	language string
}

// NewClient builds a question service client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration, language string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		language: language,
	}
}

type generateRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count"`
	Language   string `json:"language"`
}

type generateResponse struct {
	Questions []models.Question `json:"questions"`
}

// Fetch requests a batch of questions for the given category and difficulty.
func (c *Client) Fetch(ctx context.Context, category, difficulty string, count int) ([]models.Question, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("question service URL not configured")
	}

	payload, err := json.Marshal(generateRequest{
		Category:   category,
		Difficulty: difficulty,
		Count:      count,
		Language:   c.language,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/questions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("question service returned status code: %d, response: %s", resp.StatusCode, string(responseBody))
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	if len(parsed.Questions) == 0 {
		return nil, fmt.Errorf("question service returned an empty set")
	}

	return parsed.Questions, nil
}
