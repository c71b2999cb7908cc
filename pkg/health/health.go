// Package health runs liveness and readiness checks and serves their results
// over HTTP.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lewisedginton/account_service/pkg/logger"
)

// Check represents a single health check that can succeed or fail.
type Check interface {
	// Name returns the human-readable name of this check
	Name() string

	// Check returns nil if healthy
	Check(ctx context.Context) error
}

// CheckFunc adapts a plain function into a Check.
type CheckFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckFunc creates a new CheckFunc with the given name and function.
func NewCheckFunc(name string, fn func(context.Context) error) *CheckFunc {
	return &CheckFunc{
		name: name,
		fn:   fn,
	}
}

// Name returns the name of this check.
func (c *CheckFunc) Name() string {
	return c.name
}

// Check executes the check function.
func (c *CheckFunc) Check(ctx context.Context) error {
	return c.fn(ctx)
}

// Result is the outcome of one check execution.
type Result struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// Report aggregates the results of one check run.
type Report struct {
	Healthy bool
	Results []Result
}

// Checker manages and executes checks for liveness and readiness.
type Checker struct {
	service          string
	livenessChecks   []Check
	readinessChecks  []Check
	timeout          time.Duration
	failureCount     map[string]int
	failureThreshold int
	logger           logger.Logger
	mu               sync.RWMutex
}

// Option is a functional option for configuring Checker.
type Option func(*Checker)

// WithTimeout sets the timeout for individual checks. Default is 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(h *Checker) {
		h.timeout = d
	}
}

// WithLogger sets the logger for check operations.
func WithLogger(l logger.Logger) Option {
	return func(h *Checker) {
		h.logger = l
	}
}

// WithService names the service in HTTP responses.
func WithService(name string) Option {
	return func(h *Checker) {
		h.service = name
	}
}

// WithFailureThreshold sets the number of consecutive failures before a
// check is reported unhealthy. Default is 3.
func WithFailureThreshold(threshold int) Option {
	return func(h *Checker) {
		if threshold > 0 {
			h.failureThreshold = threshold
		}
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	h := &Checker{
		timeout:          5 * time.Second,
		failureThreshold: 3,
		failureCount:     make(map[string]int),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// AddLivenessCheck adds a check that decides whether the process should be restarted.
func (h *Checker) AddLivenessCheck(check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.livenessChecks = append(h.livenessChecks, check)
}

// AddReadinessCheck adds a check that decides whether the service can take traffic.
func (h *Checker) AddReadinessCheck(check Check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readinessChecks = append(h.readinessChecks, check)
}

// CheckLiveness executes all liveness checks and returns an error if any fail.
func (h *Checker) CheckLiveness(ctx context.Context) (*Report, error) {
	h.mu.RLock()
	checks := h.livenessChecks
	h.mu.RUnlock()

	return h.executeChecks(ctx, checks)
}

// CheckReadiness executes all readiness checks and returns an error if any fail.
func (h *Checker) CheckReadiness(ctx context.Context) (*Report, error) {
	h.mu.RLock()
	checks := h.readinessChecks
	h.mu.RUnlock()

	return h.executeChecks(ctx, checks)
}

func (h *Checker) executeChecks(ctx context.Context, checks []Check) (*Report, error) {
	if len(checks) == 0 {
		return &Report{Healthy: true, Results: []Result{}}, nil
	}

	results := make([]Result, len(checks))
	var wg sync.WaitGroup

	for i, check := range checks {
		wg.Add(1)
		go func(idx int, chk Check) {
			defer wg.Done()
			results[idx] = h.executeCheck(ctx, chk)
		}(i, check)
	}

	wg.Wait()

	report := &Report{
		Healthy: true,
		Results: results,
	}

	var failed []string
	for _, result := range results {
		if !result.Healthy {
			report.Healthy = false
			failed = append(failed, result.Name)
		}
	}

	if !report.Healthy {
		return report, fmt.Errorf("health checks failed: %v", failed)
	}

	return report, nil
}

// executeCheck runs a single check with timeout and failure threshold logic.
func (h *Checker) executeCheck(parentCtx context.Context, check Check) Result {
	ctx, cancel := context.WithTimeout(parentCtx, h.timeout)
	defer cancel()

	start := time.Now()
	err := check.Check(ctx)
	latency := time.Since(start)

	result := Result{
		Name:    check.Name(),
		Latency: latency,
		Healthy: true,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err == nil {
		h.failureCount[check.Name()] = 0
		h.debug("Health check passed",
			logger.StringField("check", check.Name()),
			logger.DurationField("latency", latency),
		)
		return result
	}

	h.failureCount[check.Name()]++
	failures := h.failureCount[check.Name()]

	if failures < h.failureThreshold {
		h.debug("Health check failed but below threshold",
			logger.StringField("check", check.Name()),
			logger.ErrorField(err),
			logger.IntField("failures", failures),
			logger.IntField("threshold", h.failureThreshold),
		)
		return result
	}

	result.Healthy = false
	result.Error = err.Error()
	if h.logger != nil {
		h.logger.Warn("Health check failed",
			logger.StringField("check", check.Name()),
			logger.ErrorField(err),
			logger.IntField("failures", failures),
			logger.DurationField("latency", latency),
		)
	}
	return result
}

func (h *Checker) debug(msg string, fields ...logger.LogField) {
	if h.logger != nil {
		h.logger.Debug(msg, fields...)
	}
}
