package checkout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/yungbote/seekstruth-backend/internal/platform/httpx"
	"github.com/yungbote/seekstruth-backend/internal/platform/logger"
)

// HTTPError is a non-2xx response from a payment provider.
type HTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "checkout: <nil error>"
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	if len(msg) > 2000 {
		msg = msg[:2000] + "..."
	}
	return fmt.Sprintf("%s http %d: %s", e.Provider, e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type apiRequest struct {
	method      string
	path        string
	body        []byte
	contentType string
	header      http.Header
}

// apiClient sends requests to one provider, retrying timeouts, 408, 429 and 5xx.
type apiClient struct {
	log        *logger.Logger
	provider   string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	authorize  func(ctx context.Context, req *http.Request) error
}

func newAPIClient(log *logger.Logger, provider, baseURL string, timeout time.Duration, maxRetries int, backoff time.Duration) *apiClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &apiClient{
		log:        log.With("client", provider),
		provider:   provider,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func jsonRequest(method, path string, body any) (apiRequest, error) {
	req := apiRequest{method: method, path: path}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return req, err
		}
		req.body = raw
		req.contentType = "application/json"
	}
	return req, nil
}

// doJSON sends req and decodes a JSON response into out when out is non-nil.
func (c *apiClient) doJSON(ctx context.Context, req apiRequest, out any) error {
	_, raw, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

func (c *apiClient) do(ctx context.Context, req apiRequest) (*http.Response, []byte, error) {
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, req)
		if err == nil {
			return resp, raw, nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, nil, err
		}
		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("Payment provider request retrying",
			"path", req.path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.Sleep(ctx, sleepFor); err != nil {
			return nil, nil, err
		}
		backoff *= 2
	}
	return nil, nil, errors.New("unreachable retry loop")
}

func (c *apiClient) doOnce(ctx context.Context, r apiRequest) (*http.Response, []byte, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, nil, err
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.authorize != nil {
		if err := c.authorize(ctx, req); err != nil {
			return nil, nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, raw, &HTTPError{Provider: c.provider, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}
