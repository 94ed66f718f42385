package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
)

type jobKey struct{}

// DefaultTimeout bounds a job when no timeout is configured
const DefaultTimeout = 5 * time.Minute

// Job describes one pipeline run of a meeting
type Job struct {
	MeetingID uuid.UUID
	WorkerID  int
	Attempt   int
	StartedAt time.Time
}

// Begin derives a context that carries job and is bounded by timeout.
// A zero StartedAt is set to now.
func Begin(parent context.Context, job Job, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return context.WithValue(ctx, jobKey{}, job), cancel
}

// From returns the job carried by ctx
func From(ctx context.Context) (Job, bool) {
	job, ok := ctx.Value(jobKey{}).(Job)
	return job, ok
}

// Elapsed is the time since the job started, zero outside a job
func Elapsed(ctx context.Context) time.Duration {
	job, ok := From(ctx)
	if !ok {
		return 0
	}
	return time.Since(job.StartedAt)
}

// Run executes fn once, turning a panic into an error
func Run(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()
	return fn(ctx)
}

// StatusError is implemented by API errors that carry an HTTP status code
type StatusError interface {
	error
	StatusCode() int
}

// transient error texts from dialers, proxies and upstream APIs
var transient = []string{
	"connection refused",
	"connection reset",
	"network unreachable",
	"no such host",
	"i/o timeout",
	"eof",
	"rate limit",
	"too many requests",
	"internal server error",
	"service unavailable",
	"bad gateway",
	"gateway timeout",
}

// IsRetryableError reports whether err is worth another attempt: network
// failures, timeouts, 429 and 5xx. The job's own cancellation never is.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se StatusError
	if errors.As(err, &se) {
		code := se.StatusCode()
		return code == 429 || code >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, s := range transient {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
