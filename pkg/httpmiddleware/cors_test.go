package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func credentialedCORS(origins ...string) CORSConfig {
	return CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposedHeaders:   []string{"Content-Type", "X-Total-Count"},
		AllowCredentials: true,
		MaxAge:           3600,
	}
}

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/accounts", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	return req
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORS(credentialedCORS("*"))(okHandler())

	t.Run("preflight echoes origin when credentials are allowed", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, preflight("http://example.com"))

		h := recorder.Header()
		assert.Less(t, recorder.Code, 300)
		assert.Equal(t, "http://example.com", h.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "POST", h.Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "3600", h.Get("Access-Control-Max-Age"))
		assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("actual request exposes headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		req.Header.Set("Origin", "http://example.com")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		h := recorder.Header()
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "http://example.com", h.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Content-Type, X-Total-Count", h.Get("Access-Control-Expose-Headers"))
	})

	t.Run("same-origin request gets no CORS headers", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/accounts", nil))

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed method is not granted", func(t *testing.T) {
		req := preflight("http://example.com")
		req.Header.Set("Access-Control-Request-Method", "PATCH")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSExplicitOrigins(t *testing.T) {
	handler := CORS(credentialedCORS("https://app.example.com", "https://admin.example.com"))(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight("https://admin.example.com"))
	assert.Equal(t, "https://admin.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight("https://evil.example.net"))
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardWithoutCredentials(t *testing.T) {
	config := credentialedCORS("*")
	config.AllowCredentials = false
	handler := CORS(config)(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight("http://example.com"))

	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSNoUsableOrigins(t *testing.T) {
	testCases := []struct {
		name    string
		origins []string
	}{
		{"empty list", nil},
		{"single empty origin", []string{""}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := CORS(credentialedCORS(tc.origins...))(okHandler())

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, preflight("https://evil.example.net"))
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))

			req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
			req.Header.Set("Origin", "https://evil.example.net")
			recorder = httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)
			assert.Equal(t, http.StatusOK, recorder.Code)
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}
