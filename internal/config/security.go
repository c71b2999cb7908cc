package config

import (
	"strings"

	"github.com/lewisedginton/account_service/pkg/httpmiddleware"
)

// DefaultSecretKey is the placeholder used when SECRET_KEY is unset. It is
// not a secret and must be overridden outside local development.
const DefaultSecretKey = "s3cr3t-key-shhhh"

// Fixed security policy values. None of these are read from the environment.
const (
	HSTSMaxAge     = 31536000 // one year, in seconds
	CORSMaxAge     = 3600     // preflight cache, in seconds
	FrameOptions   = "SAMEORIGIN"
	ReferrerPolicy = "strict-origin-when-cross-origin"
)

// Flag is a boolean that is true only for the case-insensitive string
// "true". Anything else, including "1" and "yes", is false. It never fails
// to parse.
type Flag bool

// UnmarshalText implements encoding.TextUnmarshaler
func (f *Flag) UnmarshalText(text []byte) error {
	*f = Flag(strings.ToLower(string(text)) == "true")
	return nil
}

// OriginList is a comma separated list of origins. Elements are kept
// exactly as written; no trimming or validation takes place.
type OriginList []string

// UnmarshalText implements encoding.TextUnmarshaler
func (o *OriginList) UnmarshalText(text []byte) error {
	*o = strings.Split(string(text), ",")
	return nil
}

// SecurityConfig holds the environment driven part of the security posture.
// Defaults apply only to unset variables: CORS_ORIGINS="" is the list [""],
// which matches no origin, and SECRET_KEY="" is an empty key.
type SecurityConfig struct {
	SecretKey   string     `env:"SECRET_KEY,allowempty" yaml:"secret_key" default:"s3cr3t-key-shhhh"`
	ForceHTTPS  Flag       `env:"TALISMAN_FORCE_HTTPS,allowempty" yaml:"force_https" default:"false"`
	CORSOrigins OriginList `env:"CORS_ORIGINS,allowempty" yaml:"cors_origins" default:"*"`
}

// UsesDefaultSecret reports whether SECRET_KEY was left at the placeholder
func (s SecurityConfig) UsesDefaultSecret() bool {
	return s.SecretKey == DefaultSecretKey
}

// UsesEmptySecret reports whether SECRET_KEY was set to the empty string
func (s SecurityConfig) UsesEmptySecret() bool {
	return s.SecretKey == ""
}

// contentSecurityPolicy is rebuilt on each call so callers never share
// the underlying slices.
func contentSecurityPolicy() httpmiddleware.ContentSecurityPolicy {
	return httpmiddleware.ContentSecurityPolicy{
		{Name: "default-src", Sources: []string{"'self'"}},
		{Name: "script-src", Sources: []string{"'self'", "'unsafe-inline'"}},
		{Name: "style-src", Sources: []string{"'self'", "'unsafe-inline'"}},
		{Name: "img-src", Sources: []string{"'self'", "data:", "https:"}},
		{Name: "font-src", Sources: []string{"'self'"}},
		{Name: "connect-src", Sources: []string{"'self'"}},
		{Name: "frame-ancestors", Sources: []string{"'none'"}},
		{Name: "base-uri", Sources: []string{"'self'"}},
		{Name: "form-action", Sources: []string{"'self'"}},
	}
}

// HeaderPolicy returns the HTTPS enforcement and security header bundle.
// Only ForceHTTPS comes from the environment.
func (c *Config) HeaderPolicy() httpmiddleware.HeaderPolicy {
	return httpmiddleware.HeaderPolicy{
		ForceHTTPS:            bool(c.Security.ForceHTTPS),
		PermanentRedirects:    true,
		ProxyHeaders:          map[string]string{"X-Forwarded-Proto": "https"},
		STS:                   true,
		STSMaxAge:             HSTSMaxAge,
		STSIncludeSubdomains:  true,
		FrameOptions:          FrameOptions,
		ContentTypeNosniff:    true,
		XSSProtection:         true,
		ReferrerPolicy:        ReferrerPolicy,
		ContentSecurityPolicy: contentSecurityPolicy(),
		NonceDirectives:       []string{"script-src"},
	}
}

// CORSPolicy returns the CORS bundle. Only the origin list comes from the
// environment.
func (c *Config) CORSPolicy() httpmiddleware.CORSConfig {
	return httpmiddleware.CORSConfig{
		AllowedOrigins:   append([]string(nil), c.Security.CORSOrigins...),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Type", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           CORSMaxAge,
	}
}
