package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lewisedginton/account_service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	var capturedHeaderID, capturedContextID string
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaderID = r.Header.Get(logger.CorrelationIDHeader)
		capturedContextID = logger.GetCorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := CorrelationID()(testHandler)

	t.Run("generates new UUID when no correlation ID exists", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))

		require.NotEmpty(t, capturedHeaderID)
		assert.Equal(t, capturedHeaderID, capturedContextID)
		assert.Equal(t, capturedHeaderID, recorder.Header().Get(logger.CorrelationIDHeader))

		_, err := uuid.Parse(capturedHeaderID)
		assert.NoError(t, err)
	})

	t.Run("replaces client supplied IDs", func(t *testing.T) {
		for _, existing := range []string{uuid.New().String(), "malicious-id\r\n"} {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set(logger.CorrelationIDHeader, existing)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			assert.NotEqual(t, existing, capturedHeaderID)
			_, err := uuid.Parse(capturedHeaderID)
			assert.NoError(t, err)
		}
	})

	t.Run("each request gets a distinct ID", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 10; i++ {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))
			assert.False(t, seen[capturedHeaderID])
			seen[capturedHeaderID] = true
		}
	})
}
