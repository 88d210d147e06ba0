package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ExternalAPIService wraps an http.Client with the authorization scheme of a remote API.
type ExternalAPIService struct {
	client     *http.Client
	authScheme string
	authToken  string
}

// NewExternalAPIService creates a new instance of ExternalAPIService. A nil client gets a
// client bounded by timeout.
func NewExternalAPIService(client *http.Client, timeout time.Duration, authScheme, authToken string) *ExternalAPIService {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &ExternalAPIService{client: client, authScheme: authScheme, authToken: authToken}
}

// StatusError is returned when the remote API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response %s: %s", e.Status, e.Body)
}

// makeRequest is a helper function to make HTTP requests, supporting optional query parameters
func (s *ExternalAPIService) makeRequest(ctx context.Context, method, endpoint string, params url.Values, body interface{}) (*http.Response, error) {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}

	if s.authToken != "" {
		req.Header.Set("Authorization", s.authScheme+" "+s.authToken)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.client.Do(req)
}

// GetJSON makes a GET request and returns the raw body of a 2xx response.
func (s *ExternalAPIService) GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	resp, err := s.makeRequest(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(responseBody)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Body: snippet}
	}
	return responseBody, nil
}
