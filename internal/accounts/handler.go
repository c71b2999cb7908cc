package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/lewisedginton/account_service/internal/response"
	"github.com/lewisedginton/account_service/pkg/logger"
)

// TotalCountHeader carries the number of accounts matching a list request
// before pagination.
const TotalCountHeader = "X-Total-Count"

// maxBodyBytes bounds request bodies on create and update.
const maxBodyBytes = 1 << 20

// Handler serves the /accounts resource.
type Handler struct {
	repo Repository
	log  logger.Logger
}

// NewHandler creates a Handler backed by repo.
func NewHandler(repo Repository, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// Routes returns a router meant to be mounted at /accounts.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.With(requireJSON).Post("/", h.create)
	r.Get("/{id}", h.get)
	r.With(requireJSON).Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	return r
}

// payload is the writable part of an Account.
type payload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phone_number"`
	DateJoined  time.Time `json:"date_joined"`
}

func (p payload) apply(a *Account) {
	a.Name = p.Name
	a.Email = p.Email
	a.Address = p.Address
	a.PhoneNumber = p.PhoneNumber
	if !p.DateJoined.IsZero() {
		a.DateJoined = p.DateJoined.UTC()
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	accounts, total, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "list accounts", err)
		return
	}

	w.Header().Set(TotalCountHeader, strconv.Itoa(total))
	response.JSON(w, http.StatusOK, accounts)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var p payload
	if !decode(w, r, &p) {
		return
	}

	account := Account{ID: NewID(), DateJoined: Today()}
	p.apply(&account)
	if err := account.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.repo.Create(r.Context(), &account); err != nil {
		h.internalError(w, r, "create account", err)
		return
	}

	logger.GetLoggerFromContext(r.Context(), h.log).Info("Account created",
		logger.StringField("account_id", account.ID.String()))

	w.Header().Set("Location", "/accounts/"+account.ID.String())
	response.JSON(w, http.StatusCreated, account)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	account, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.repoError(w, r, id, "get account", err)
		return
	}

	response.JSON(w, http.StatusOK, account)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var p payload
	if !decode(w, r, &p) {
		return
	}

	account, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.repoError(w, r, id, "get account", err)
		return
	}

	p.apply(account)
	if err := account.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if err := h.repo.Update(r.Context(), account); err != nil {
		h.repoError(w, r, id, "update account", err)
		return
	}

	response.JSON(w, http.StatusOK, account)
}

// remove is idempotent: removing an unknown account still answers 204.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil && !errors.Is(err, ErrNotFound) {
		h.internalError(w, r, "delete account", err)
		return
	}

	response.NoContent(w)
}

// pathID answers 404 for identifiers that cannot exist.
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (ID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := ParseID(raw)
	if err != nil {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("Account with id '%s' was not found.", raw))
		return ID{}, false
	}
	return id, true
}

func (h *Handler) repoError(w http.ResponseWriter, r *http.Request, id ID, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(w, http.StatusNotFound, fmt.Sprintf("Account with id '%s' was not found.", id))
		return
	}
	h.internalError(w, r, op, err)
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.GetLoggerFromContext(r.Context(), h.log).Error("Failed to "+op, logger.ErrorField(err))
	response.Error(w, http.StatusInternalServerError, "The server encountered an internal error.")
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{Name: q.Get("name")}

	var err error
	if filter.Limit, err = nonNegative(q.Get("limit"), "limit"); err != nil {
		return ListFilter{}, err
	}
	if filter.Offset, err = nonNegative(q.Get("offset"), "offset"); err != nil {
		return ListFilter{}, err
	}
	return filter, nil
}

func nonNegative(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, raw)
	}
	return n, nil
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return err.Error()
}

// requireJSON answers 415 unless the request declares a JSON body.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			response.Error(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}
