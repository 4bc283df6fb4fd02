package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"arenax-client/internal/logger"
	"arenax-client/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// genericFailure is the fallback message when the backend gives none.
const genericFailure = "Request failed"

// Outbound rate tiers. Auth and payment endpoints are throttled harder than
// read endpoints so a misbehaving caller cannot hammer the sensitive routes.
const (
	limitStrict = rate.Limit(2)
	burstStrict = 5

	limitGeneral = rate.Limit(10)
	burstGeneral = 20
)

// Options shapes a single request. Method defaults to GET; Body, when
// non-nil, is JSON-serialized; Header entries are added on top of the
// defaults.
type Options struct {
	Method string
	Body   any
	Header http.Header
}

// Client is the single point of truth for turning a logical API call into an
// HTTP exchange and a normalized result. It reads the bearer credential from
// the session on every call and never retries on its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
	strict     *rate.Limiter
	general    *rate.Limiter
}

func NewClient(baseURL string, sess *session.Store) *Client {
	// jar gives cookie continuity across calls, the credentials-include
	// behavior of the web client
	jar, _ := cookiejar.New(nil)

	return NewClientWithHTTP(baseURL, sess, &http.Client{
		Timeout: 15 * time.Second,
		Jar:     jar,
	})
}

// NewClientWithHTTP is NewClient with a caller-supplied http.Client, for
// callers that need to control the transport.
func NewClientWithHTTP(baseURL string, sess *session.Store, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		session:    sess,
		strict:     rate.NewLimiter(limitStrict, burstStrict),
		general:    rate.NewLimiter(limitGeneral, burstGeneral),
	}
}

// Request performs one attempt against path and returns the parsed JSON body
// on 2xx. Every failure is an *APIError; a missing base URL fails before any
// network I/O.
func (c *Client) Request(ctx context.Context, path string, opts *Options) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, ErrNoBaseURL
	}
	if opts == nil {
		opts = &Options{}
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	reqID := uuid.New().String()
	ctx = logger.WithRequestID(ctx, reqID)
	log := logger.FromCtx(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	if err := c.limiterFor(path).Wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		jsonBody, err := json.Marshal(opts.Body)
		if err != nil {
			log.Error("failed to marshal request body", zap.Error(err))
			return nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		log.Error("failed building request", zap.Error(err))
		return nil, err
	}

	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("X-Request-ID", reqID)
	for key, values := range opts.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	// anonymous requests carry no Authorization header at all
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed", zap.Error(err))
		return nil, &APIError{Message: genericFailure}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", zap.Error(err))
		return nil, &APIError{Status: resp.StatusCode, Message: genericFailure}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: genericFailure}

		if json.Valid(bodyBytes) {
			apiErr.Data = json.RawMessage(bodyBytes)

			var envelope struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(bodyBytes, &envelope) == nil && envelope.Message != "" {
				apiErr.Message = envelope.Message
			}
		}

		log.Warn("api returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}

	if len(bodyBytes) == 0 {
		return nil, nil
	}
	if !json.Valid(bodyBytes) {
		log.Error("api returned unparseable body", zap.Int("status", resp.StatusCode))
		return nil, &APIError{Status: resp.StatusCode, Message: genericFailure}
	}

	return json.RawMessage(bodyBytes), nil
}

// RequestFirstSuccessful tries each path in order and returns the first
// success. Intermediate failures are discarded; when every path fails the
// last error is surfaced. This tolerates backend route renames without a
// client release. Note it advances past any rejection, 401s included.
func (c *Client) RequestFirstSuccessful(ctx context.Context, paths []string, opts *Options) (json.RawMessage, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}

	var lastErr error
	for _, path := range paths {
		raw, err := c.Request(ctx, path, opts)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		logger.L().Debug("fallback path failed",
			zap.String("path", path),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

// DoJSON runs Request and decodes the result into out when both are non-nil.
func (c *Client) DoJSON(ctx context.Context, path string, opts *Options, out any) error {
	raw, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) limiterFor(path string) *rate.Limiter {
	if strings.HasPrefix(path, "/payments") || strings.HasPrefix(path, "/auth") {
		return c.strict
	}
	return c.general
}
