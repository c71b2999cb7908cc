package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/lewisedginton/account_service/internal/response"
	"github.com/lewisedginton/account_service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(repo Repository) http.Handler {
	log := logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	r := chi.NewRouter()
	r.Mount("/accounts", NewHandler(repo, log).Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateAccount(t *testing.T) {
	repo := NewMemoryRepository()
	router := newTestRouter(repo)

	w := do(t, router, http.MethodPost, "/accounts",
		`{"name":"Ada Lovelace","email":"ada@example.com","address":"London"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var created Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.ID.IsZero())
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.True(t, Today().Equal(created.DateJoined))
	assert.Equal(t, "/accounts/"+created.ID.String(), w.Header().Get("Location"))

	stored, err := repo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", stored.Email)
}

func TestCreateAccountRejections(t *testing.T) {
	router := newTestRouter(NewMemoryRepository())

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/accounts", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		assert.Equal(t, "Unsupported Media Type", decodeError(t, w).Error)
	})

	t.Run("content type with charset is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/accounts",
			strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/accounts", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation errors are joined", func(t *testing.T) {
		w := do(t, router, http.MethodPost, "/accounts", `{"address":"nowhere"}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "name is required; email is required", decodeError(t, w).Message)
	})
}

func TestListAccounts(t *testing.T) {
	repo := NewMemoryRepository()
	seed(t, repo, "Ada", "Grace", "Ada")
	router := newTestRouter(repo)

	t.Run("all", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/accounts", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get(TotalCountHeader))
		var list []Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 3)
	})

	t.Run("filtered and paged", func(t *testing.T) {
		w := do(t, router, http.MethodGet, "/accounts?name=ada&limit=1", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get(TotalCountHeader))
		var list []Account
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		w := do(t, newTestRouter(NewMemoryRepository()), http.MethodGet, "/accounts", "")

		assert.Equal(t, "0", w.Header().Get(TotalCountHeader))
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("bad paging", func(t *testing.T) {
		for _, q := range []string{"limit=-1", "offset=x"} {
			w := do(t, router, http.MethodGet, "/accounts?"+q, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})
}

func TestGetAccount(t *testing.T) {
	repo := NewMemoryRepository()
	created := seed(t, repo, "Ada")
	router := newTestRouter(repo)

	w := do(t, router, http.MethodGet, "/accounts/"+created[0].ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	var got Account
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created[0].ID, got.ID)

	missing := NewID()
	w = do(t, router, http.MethodGet, "/accounts/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decodeError(t, w).Message, missing.String())

	w = do(t, router, http.MethodGet, "/accounts/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAccount(t *testing.T) {
	repo := NewMemoryRepository()
	created := seed(t, repo, "Ada")
	router := newTestRouter(repo)
	path := "/accounts/" + created[0].ID.String()

	w := do(t, router, http.MethodPut, path, `{"name":"Ada King","email":"countess@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.Get(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada King", stored.Name)
	assert.Equal(t, created[0].DateJoined, stored.DateJoined, "date_joined is kept when omitted")

	w = do(t, router, http.MethodPut, path, `{"name":"","email":"countess@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/accounts/"+NewID().String(), `{"name":"x","email":"x@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	repo := NewMemoryRepository()
	created := seed(t, repo, "Ada")
	router := newTestRouter(repo)
	path := "/accounts/" + created[0].ID.String()

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, path, "").Code)
}

// failingRepository fails every call.
type failingRepository struct{ err error }

func (f failingRepository) Create(context.Context, *Account) error {
	return f.err
}

func (f failingRepository) Get(context.Context, ID) (*Account, error) {
	return nil, f.err
}

func (f failingRepository) List(context.Context, ListFilter) ([]Account, int, error) {
	return nil, 0, f.err
}

func (f failingRepository) Update(context.Context, *Account) error {
	return f.err
}

func (f failingRepository) Delete(context.Context, ID) error {
	return f.err
}

func TestRepositoryFailures(t *testing.T) {
	router := newTestRouter(failingRepository{err: errors.New("connection reset")})

	w := do(t, router, http.MethodGet, "/accounts", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = do(t, router, http.MethodPost, "/accounts", `{"name":"Ada","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = do(t, router, http.MethodDelete, "/accounts/"+NewID().String(), "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateBodyTooLarge(t *testing.T) {
	router := newTestRouter(NewMemoryRepository())
	body := `{"name":"` + string(bytes.Repeat([]byte("x"), maxBodyBytes)) + `"}`

	w := do(t, router, http.MethodPost, "/accounts", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
