package httpmiddleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORSConfig represents CORS configuration options
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// allowsAnyOrigin reports whether the wildcard origin is configured
func (c CORSConfig) allowsAnyOrigin() bool {
	return slices.Contains(c.AllowedOrigins, "*")
}

// CORS middleware configures Cross-Origin Resource Sharing.
//
// Browsers refuse a literal "*" together with credentials, so a wildcard
// origin list combined with AllowCredentials echoes the request origin.
// An empty origin list allows no origin at all.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   config.AllowedMethods,
		AllowedHeaders:   config.AllowedHeaders,
		ExposedHeaders:   config.ExposedHeaders,
		AllowCredentials: config.AllowCredentials,
		MaxAge:           config.MaxAge,
	}

	switch {
	case len(config.AllowedOrigins) == 0:
		// go-chi/cors treats an empty list as "*"
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool {
			return false
		}
	case config.AllowCredentials && config.allowsAnyOrigin():
		opts.AllowOriginFunc = func(_ *http.Request, origin string) bool {
			return origin != ""
		}
	default:
		opts.AllowedOrigins = config.AllowedOrigins
	}

	return cors.Handler(opts)
}
