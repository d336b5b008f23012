// Package e2e drives a running sojourn server through Gherkin scenarios.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext holds per-scenario HTTP state.
type TestContext struct {
	BaseURL    string
	HTTPClient *http.Client

	TravelerID   string
	LastRecordID string

	LastResponse *http.Response
	LastBody     []byte
}

// NewTestContext targets SOJOURN_E2E_URL, or a local server by default.
func NewTestContext() *TestContext {
	baseURL := os.Getenv("SOJOURN_E2E_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &TestContext{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (tc *TestContext) Traveler() string { return tc.TravelerID }

func (tc *TestContext) SetTraveler(travelerID string) {
	tc.TravelerID = travelerID
	tc.LastRecordID = ""
}

func (tc *TestContext) LastRecord() string { return tc.LastRecordID }

func (tc *TestContext) SetLastRecord(recordID string) { tc.LastRecordID = recordID }

func (tc *TestContext) POST(path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return tc.do(req)
}

func (tc *TestContext) GET(path string) error {
	req, err := http.NewRequest(http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	tc.LastResponse = resp
	tc.LastBody = body
	return nil
}

func (tc *TestContext) StatusCode() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

// GetResponseField resolves a dotted path such as "status.days_used" in the
// last JSON response.
func (tc *TestContext) GetResponseField(path string) (any, error) {
	var current any
	if err := json.Unmarshal(tc.LastBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %q: parent is not an object", path)
		}
		if current, ok = obj[part]; !ok {
			return nil, fmt.Errorf("field %q not found in %s", path, tc.LastBody)
		}
	}
	return current, nil
}
