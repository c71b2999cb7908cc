// Package verify prints the security and CORS headers a running service
// returns, for a human to read. It asserts nothing.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultOrigin  = "http://example.com"
)

// Options controls where Run sends its requests and writes its report.
type Options struct {
	BaseURL string
	Origin  string
	Out     io.Writer
	Client  *http.Client
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Origin == "" {
		o.Origin = DefaultOrigin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Client == nil {
		o.Client = http.DefaultClient
	}
	return o
}

var (
	securityHeaders = []string{
		"X-Content-Type-Options",
		"X-Frame-Options",
		"X-XSS-Protection",
		"Strict-Transport-Security",
		"Content-Security-Policy",
		"Referrer-Policy",
	}
	preflightHeaders = []string{
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Methods",
		"Access-Control-Allow-Headers",
		"Access-Control-Max-Age",
	}
	corsResponseHeaders = []string{
		"Access-Control-Allow-Origin",
		"Access-Control-Allow-Credentials",
	}
)

type headerCheck struct {
	title       string
	method      string
	path        string
	headers     map[string]string
	statusLabel string
	listLabel   string
	check       []string
}

func headerChecks(origin string) []headerCheck {
	return []headerCheck{
		{
			title:       "Testing Security Headers...",
			method:      http.MethodGet,
			path:        "/health",
			statusLabel: "Status Code",
			listLabel:   "Security Headers:",
			check:       securityHeaders,
		},
		{
			title:  "Testing CORS Policy...",
			method: http.MethodOptions,
			path:   "/accounts",
			headers: map[string]string{
				"Origin":                         origin,
				"Access-Control-Request-Method":  http.MethodPost,
				"Access-Control-Request-Headers": "Content-Type",
			},
			statusLabel: "Preflight Status Code",
			listLabel:   "CORS Headers:",
			check:       preflightHeaders,
		},
		{
			title:  "Testing Actual CORS Request...",
			method: http.MethodGet,
			path:   "/accounts",
			headers: map[string]string{
				"Origin":       origin,
				"Content-Type": "application/json",
			},
			statusLabel: "Actual Request Status Code",
			listLabel:   "CORS Response Headers:",
			check:       corsResponseHeaders,
		},
	}
}

// Run sends the three test requests and prints what came back. Failures are
// reported on Out, never returned; the only error is a failed write.
func Run(ctx context.Context, opts Options) error {
	opts = opts.withDefaults()
	p := &printer{w: opts.Out}

	p.line("Security and CORS Test Suite")
	p.line(strings.Repeat("=", 40))
	p.line("")

	for _, pr := range headerChecks(opts.Origin) {
		if err := runHeaderCheck(ctx, opts, pr, p); err != nil {
			if isConnectionError(err) {
				p.line("Error: Could not connect to the service.")
				p.line("Make sure the account service is running on " + hostOf(opts.BaseURL))
			} else {
				p.line(fmt.Sprintf("Error during testing: %v", err))
			}
			return p.err
		}
	}

	p.line("All tests completed!")
	return p.err
}

func runHeaderCheck(ctx context.Context, opts Options, pr headerCheck, p *printer) error {
	p.line(pr.title)

	req, err := http.NewRequestWithContext(ctx, pr.method, opts.BaseURL+pr.path, nil)
	if err != nil {
		return err
	}
	for k, v := range pr.headers {
		req.Header.Set(k, v)
	}

	resp, err := opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	p.line(fmt.Sprintf("%s: %d", pr.statusLabel, resp.StatusCode))
	p.line(pr.listLabel)
	for _, name := range pr.check {
		value := resp.Header.Get(name)
		if value == "" {
			value = "NOT SET"
		}
		p.line(fmt.Sprintf("  %s: %s", name, value))
	}
	p.line("")
	return nil
}

// isConnectionError reports whether err means nothing answered at the
// target address.
func isConnectionError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// printer keeps the first write error so reporting code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}
