package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds the HTTP client and the last response of a scenario.
type TestContext struct {
	baseURL string
	client  *http.Client

	status int
	body   []byte
	header http.Header
	ids    map[string]string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		ids:     map[string]string{},
	}
}

// Do sends a JSON request; body may be nil.
func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.header = resp.Header
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) Status() int { return tc.status }

func (tc *TestContext) Header(key string) string { return tc.header.Get(key) }

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var m map[string]any
	if err := json.Unmarshal(tc.body, &m); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.body)
	}
	v, ok := m[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.body)
	}
	return v, nil
}

// Remember and Recall keep planet ids across steps under a planet name.
func (tc *TestContext) Remember(name, id string) { tc.ids[name] = id }

func (tc *TestContext) Recall(name string) (string, error) {
	id, ok := tc.ids[name]
	if !ok {
		return "", fmt.Errorf("no planet %q created in this scenario", name)
	}
	return id, nil
}

func (tc *TestContext) reset() {
	tc.status = 0
	tc.body = nil
	tc.header = nil
	tc.ids = map[string]string{}
}

func (tc *TestContext) serviceIsRunning(ctx context.Context) error {
	if err := tc.Do(http.MethodGet, "/health", nil); err != nil {
		return err
	}
	if tc.status != http.StatusOK {
		return fmt.Errorf("service unhealthy: %d %s", tc.status, tc.body)
	}
	return nil
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, want int) error {
	if tc.status != want {
		return fmt.Errorf("expected status %d, got %d: %s", want, tc.status, tc.body)
	}
	return nil
}

func (tc *TestContext) responseFieldShouldBe(ctx context.Context, field, want string) error {
	v, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("expected %s=%q, got %q", field, want, got)
	}
	return nil
}

func (tc *TestContext) responseErrorShouldBe(ctx context.Context, code string) error {
	return tc.responseFieldShouldBe(ctx, "error", code)
}
