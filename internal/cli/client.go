package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ValidationError is one entry of a validation failure response
type ValidationError struct {
	Msg   string `json:"msg"`
	Field string `json:"field"`
}

// validationResponse is the API's 400 body for rule failures
type validationResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details"`
}

// errorResponse is the API's envelope for other errors
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Do performs an HTTP request
func (c *Client) Do(method, path string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// decodeError turns an error body into a readable error. Validation
// failures list every entry; other errors use the envelope message.
func decodeError(status int, body []byte) error {
	var vr validationResponse
	if err := json.Unmarshal(body, &vr); err == nil && vr.Error != "" && len(vr.Details) > 0 {
		msgs := make([]string, len(vr.Details))
		for i, d := range vr.Details {
			msgs[i] = fmt.Sprintf("%s: %s", d.Field, d.Msg)
		}
		return fmt.Errorf("%s: %s", vr.Error, strings.Join(msgs, "; "))
	}

	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Code != "" {
		return fmt.Errorf("%s (%s)", er.Error.Message, er.Error.Code)
	}

	return fmt.Errorf("HTTP %d: %s", status, string(body))
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// Put performs a PUT request
func (c *Client) Put(path string, body any) error {
	return c.Do(http.MethodPut, path, body, nil)
}

// Patch performs a PATCH request
func (c *Client) Patch(path string, body any) error {
	return c.Do(http.MethodPatch, path, body, nil)
}

// Delete performs a DELETE request
func (c *Client) Delete(path string) error {
	return c.Do(http.MethodDelete, path, nil, nil)
}
