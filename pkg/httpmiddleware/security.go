package httpmiddleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/unrolled/secure"
)

// nonceToken is expanded by unrolled/secure into 'nonce-<value>' on every request.
const nonceToken = "$NONCE"

// CSPDirective is one Content-Security-Policy directive and its sources
type CSPDirective struct {
	Name    string
	Sources []string
}

// ContentSecurityPolicy is an ordered list of directives. Order is kept when
// rendering so the header is stable across requests.
type ContentSecurityPolicy []CSPDirective

// Render builds the header value. Directives named in nonceIn get a
// per-request nonce source appended.
func (p ContentSecurityPolicy) Render(nonceIn ...string) string {
	parts := make([]string, 0, len(p))
	for _, d := range p {
		sources := d.Sources
		if slices.Contains(nonceIn, d.Name) {
			sources = append(slices.Clone(d.Sources), nonceToken)
		}
		if len(sources) == 0 {
			parts = append(parts, d.Name)
			continue
		}
		parts = append(parts, d.Name+" "+strings.Join(sources, " "))
	}
	return strings.Join(parts, "; ")
}

// HeaderPolicy describes HTTPS enforcement and the security headers added to
// every response
type HeaderPolicy struct {
	// ForceHTTPS redirects plain HTTP requests to HTTPS
	ForceHTTPS bool
	// PermanentRedirects selects 301 over 307 for HTTPS redirects
	PermanentRedirects bool
	// ProxyHeaders mark a request as HTTPS when set by a terminating proxy
	ProxyHeaders map[string]string

	// Strict-Transport-Security, only sent on HTTPS requests
	STS                  bool
	STSMaxAge            int64
	STSIncludeSubdomains bool

	FrameOptions       string
	ContentTypeNosniff bool
	XSSProtection      bool
	ReferrerPolicy     string

	ContentSecurityPolicy ContentSecurityPolicy
	// NonceDirectives lists CSP directives that receive a per-request nonce
	NonceDirectives []string
}

// SecureOptions translates the policy into unrolled/secure options
func (p HeaderPolicy) SecureOptions() secure.Options {
	opts := secure.Options{
		SSLRedirect:             p.ForceHTTPS,
		SSLTemporaryRedirect:    !p.PermanentRedirects,
		SSLProxyHeaders:         p.ProxyHeaders,
		CustomFrameOptionsValue: p.FrameOptions,
		ContentTypeNosniff:      p.ContentTypeNosniff,
		BrowserXssFilter:        p.XSSProtection,
		ReferrerPolicy:          p.ReferrerPolicy,
	}

	if p.STS && p.STSMaxAge > 0 {
		opts.STSSeconds = p.STSMaxAge
		opts.STSIncludeSubdomains = p.STSIncludeSubdomains
	}

	if len(p.ContentSecurityPolicy) > 0 {
		opts.ContentSecurityPolicy = p.ContentSecurityPolicy.Render(p.NonceDirectives...)
	}

	return opts
}

// Security middleware adds security headers
func Security(opts *secure.Options) func(http.Handler) http.Handler {
	var s *secure.Secure
	if opts == nil {
		s = secure.New()
	} else {
		s = secure.New(*opts)
	}

	return s.Handler
}
