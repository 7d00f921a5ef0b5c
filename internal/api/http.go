package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jurebordon/meal-frame/internal/logger"
	"github.com/jurebordon/meal-frame/internal/models"
)

// HTTPClient talks to the MealFrame backend over its v1 JSON API.
type HTTPClient struct {
	base  string
	token string
	http  *http.Client
}

// NewHTTPClient creates a client for the given base URL. token may be empty
// for unauthenticated deployments.
func NewHTTPClient(base, token string) *HTTPClient {
	return &HTTPClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) FetchDay(ctx context.Context, which Day) (*models.DaySnapshot, error) {
	var snap models.DaySnapshot
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/%s", which), nil, &snap); err != nil {
		return nil, err
	}
	snap.Recalculate()
	return &snap, nil
}

func (c *HTTPClient) CompleteSlot(ctx context.Context, slotID string, status models.CompletionStatus) error {
	body := map[string]models.CompletionStatus{"status": status}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/slots/%s/complete", slotID), body, nil)
}

func (c *HTTPClient) UncompleteSlot(ctx context.Context, slotID string) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/slots/%s/uncomplete", slotID), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("Request failed before a response", "method", method, "path", path, "error", err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// classifyStatus maps HTTP statuses onto the client error taxonomy.
func classifyStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	msg := readErrorDetail(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusBadRequest:
		return &ValidationError{Message: msg}
	default:
		return &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}
}

func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(data))
}
