package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Options tunes the retrying client
type Options struct {
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// DefaultOptions returns the settings used for outbound provider APIs
func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		RetryMax:     3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
	}
}

// New returns an *http.Client that retries connection errors, 429 and 5xx responses
func New(logger *zap.Logger, opts Options) *http.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.HTTPClient.Timeout = opts.Timeout
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if logger != nil {
		rc.Logger = &zapLogger{l: logger.Named("http")}
	}
	return rc.StandardClient()
}

// zapLogger adapts zap to retryablehttp.LeveledLogger
type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) Error(msg string, kv ...interface{}) { z.l.Sugar().Errorw(msg, kv...) }
func (z *zapLogger) Info(msg string, kv ...interface{})  { z.l.Sugar().Debugw(msg, kv...) }
func (z *zapLogger) Debug(msg string, kv ...interface{}) { z.l.Sugar().Debugw(msg, kv...) }
func (z *zapLogger) Warn(msg string, kv ...interface{})  { z.l.Sugar().Warnw(msg, kv...) }

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// StatusCode returns the HTTP status of the response
func (e *StatusError) StatusCode() int {
	return e.Code
}

// DoJSON sends body as JSON (when non-nil) and decodes a 2xx response into out (when non-nil)
func DoJSON(ctx context.Context, client *http.Client, method, url string, header http.Header, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Bearer returns an Authorization header for a bearer token
func Bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

// Download fetches a URL and returns at most maxBytes of its body
func Download(ctx context.Context, client *http.Client, url string, header http.Header, maxBytes int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBytes))
}
