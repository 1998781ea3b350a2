package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext holds per-scenario HTTP state against a running server.
type TestContext struct {
	BaseURL     string
	AccessToken string

	client       *http.Client
	lastResponse *http.Response
	lastBody     []byte
}

func NewTestContext(baseURL, accessToken string) *TestContext {
	return &TestContext{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		AccessToken: accessToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (tc *TestContext) Reset() {
	tc.lastResponse = nil
	tc.lastBody = nil
}

func (tc *TestContext) POSTRaw(path, contentType string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, tc.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
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
	if tc.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.AccessToken)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastResponse = resp
	tc.lastBody = body
	return nil
}

func (tc *TestContext) StatusCode() int {
	if tc.lastResponse == nil {
		return 0
	}
	return tc.lastResponse.StatusCode
}

func (tc *TestContext) Header(name string) string {
	if tc.lastResponse == nil {
		return ""
	}
	return tc.lastResponse.Header.Get(name)
}

func (tc *TestContext) Body() []byte {
	return tc.lastBody
}

// ResponseField resolves a dotted path such as "summary.highRisk" in the last
// JSON body. Numeric segments index arrays.
func (tc *TestContext) ResponseField(path string) (any, error) {
	var current any
	if err := json.Unmarshal(tc.lastBody, &current); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found", path)
			}
			current = v
		case []any:
			var i int
			if _, err := fmt.Sscanf(part, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			current = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q", path)
		}
	}
	return current, nil
}
