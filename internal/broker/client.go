package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	common "github.com/bobmcallan/firstrade-mcp/internal/common"
)

// maxResponseSize caps the backend response body. Larger bodies fail as a
// transport error instead of being truncated.
const maxResponseSize = 50 << 20 // 50MB

// Client performs one backend request per call and returns the JSON body verbatim.
// It is safe for concurrent use; the only shared state is the underlying http.Client.
type Client struct {
	httpClient *http.Client
	logger     *common.Logger
	maxBody    int64
}

// NewClient creates a backend client. A nil httpClient uses a zero http.Client,
// which keeps the platform default timeouts and connection pooling.
func NewClient(httpClient *http.Client, logger *common.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Client{httpClient: httpClient, logger: logger, maxBody: maxResponseSize}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, rawURL string) (json.RawMessage, error) {
	return c.Do(ctx, Endpoint{Method: MethodGet, URL: rawURL})
}

// Post performs a POST request. A non-nil form is sent URL-encoded; nil sends an empty POST.
func (c *Client) Post(ctx context.Context, rawURL string, form map[string]string) (json.RawMessage, error) {
	return c.Do(ctx, Endpoint{Method: MethodPost, URL: rawURL, Form: form})
}

// Delete performs a DELETE request without a body.
func (c *Client) Delete(ctx context.Context, rawURL string) (json.RawMessage, error) {
	return c.Do(ctx, Endpoint{Method: MethodDelete, URL: rawURL})
}

// Do sends the resolved endpoint. Failures are *AdapterError values of kind
// KindTransportFailure or KindDecodeFailure. The HTTP status is not inspected:
// a body that parses as JSON is returned whatever the status.
func (c *Client) Do(ctx context.Context, ep Endpoint) (json.RawMessage, error) {
	target := withScheme(ep.URL)
	c.logger.Debug().Str("method", string(ep.Method)).Str("url", target).Msg("backend request")

	var body io.Reader
	if ep.Form != nil {
		values := make(url.Values, len(ep.Form))
		for k, v := range ep.Form {
			values.Set(k, v)
		}
		body = strings.NewReader(values.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, string(ep.Method), target, body)
	if err != nil {
		return nil, transportError(target, err)
	}
	if ep.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.logger.Error().Str("method", string(ep.Method)).Str("url", target).Int64("duration_ms", duration.Milliseconds()).Str("error", err.Error()).Msg("backend request failed")
		return nil, transportError(target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(target, err)
	}
	if int64(len(data)) > c.maxBody {
		c.logger.Error().Str("url", target).Int64("limit_bytes", c.maxBody).Msg("backend response too large")
		return nil, transportError(target, fmt.Errorf("response body exceeds %d bytes", c.maxBody))
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int64("duration_ms", duration.Milliseconds()).Msg("backend response")

	var payload json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		c.logger.Warn().Str("url", target).Int("status", resp.StatusCode).Str("error", err.Error()).Msg("backend response is not JSON")
		return nil, decodeError(target, err)
	}
	return payload, nil
}

// withScheme dials scheme-less addresses such as "localhost:3001/position" over http.
func withScheme(u string) string {
	if strings.Contains(u, "://") {
		return u
	}
	return "http://" + u
}
