package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/guard"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/usecase"
	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
)

type CreateURLRequest struct {
	OriginalURL string `json:"original_url" validate:"required,http_url"`
	ShortCode   string `json:"short_code"   validate:"required,alphanum,max=64"`
}

type UpdateURLRequest struct {
	OriginalURL string `json:"original_url" validate:"omitempty,http_url"`
	ShortCode   string `json:"short_code"   validate:"omitempty,alphanum,max=64"`
}

type IsAvailableRequest struct {
	ShortCode string `json:"short_code" validate:"required,alphanum,max=64"`
}

type IsAvailableResponse struct {
	Available bool `json:"available"`
}

type ResolveResponse struct {
	URL string `json:"url"`
}

type HelloResponse struct {
	Hello  string   `json:"hello"`
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

type urlHTTPHandler struct {
	urlUsecase usecase.URLUsecase
	validator  *httputil.Validator
	logger     *zerolog.Logger
}

// NewURLHTTPHandler returns the URL service router. Every route except the
// short code lookups runs behind authGuard.
func NewURLHTTPHandler(
	urlUsecase usecase.URLUsecase,
	authGuard func(http.Handler) http.Handler,
	validator *httputil.Validator,
	logger *zerolog.Logger,
) http.Handler {
	h := &urlHTTPHandler{urlUsecase: urlUsecase, validator: validator, logger: logger}

	r := chi.NewRouter()

	r.Get("/view/{code}", h.resolve)
	r.Post("/is-available", h.isAvailable)

	r.Group(func(r chi.Router) {
		r.Use(authGuard)

		r.Get("/hello", h.hello)
		r.Get("/user", h.listByUser)
		r.Delete("/user", h.deleteAllByUser)
		r.Post("/", h.create)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})

	return r
}

func (h *urlHTTPHandler) hello(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	httputil.WriteJSON(w, http.StatusOK, HelloResponse{
		Hello:  "hello",
		UserID: identity.UserID,
		Roles:  identity.Roles,
	})
}

func (h *urlHTTPHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	shortURLs, err := h.urlUsecase.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, err, "failed to list short urls")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, shortURLs)
}

func (h *urlHTTPHandler) deleteAllByUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	deleted, err := h.urlUsecase.DeleteAllByUser(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, err, "failed to delete short urls")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, DeleteAllResponse{Deleted: deleted})
}

func (h *urlHTTPHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateURLRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, _ := guard.IdentityFromContext(r.Context())

	shortURL, err := h.urlUsecase.Create(r.Context(), usecase.CreateParams{
		UserID:      identity.UserID,
		OriginalURL: req.OriginalURL,
		ShortCode:   req.ShortCode,
	})
	if err != nil {
		h.writeError(w, err, "failed to create short url")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, shortURL)
}

func (h *urlHTTPHandler) get(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	shortURL, err := h.urlUsecase.Get(r.Context(), identity.UserID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err, "failed to get short url")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, shortURL)
}

func (h *urlHTTPHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateURLRequest
	if !h.decode(w, r, &req) {
		return
	}

	identity, _ := guard.IdentityFromContext(r.Context())

	shortURL, err := h.urlUsecase.Update(r.Context(), usecase.UpdateParams{
		UserID:      identity.UserID,
		ID:          chi.URLParam(r, "id"),
		OriginalURL: req.OriginalURL,
		ShortCode:   req.ShortCode,
	})
	if err != nil {
		h.writeError(w, err, "failed to update short url")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, shortURL)
}

func (h *urlHTTPHandler) delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := guard.IdentityFromContext(r.Context())

	if err := h.urlUsecase.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err, "failed to delete short url")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *urlHTTPHandler) resolve(w http.ResponseWriter, r *http.Request) {
	originalURL, err := h.urlUsecase.Resolve(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeError(w, err, "failed to resolve short url")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ResolveResponse{URL: originalURL})
}

func (h *urlHTTPHandler) isAvailable(w http.ResponseWriter, r *http.Request) {
	var req IsAvailableRequest
	if !h.decode(w, r, &req) {
		return
	}

	available, err := h.urlUsecase.IsAvailable(r.Context(), req.ShortCode)
	if err != nil {
		h.writeError(w, err, "failed to check short code availability")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, IsAvailableResponse{Available: available})
}

func (h *urlHTTPHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httputil.DecodeJSON(r, v); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if details := h.validator.Struct(v); details != nil {
		httputil.WriteValidationError(w, details)
		return false
	}

	return true
}

func (h *urlHTTPHandler) writeError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, usecase.ErrConflict):
		httputil.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		httputil.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrBadRequest):
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg(msg)
		httputil.WriteError(w, http.StatusInternalServerError, "something went wrong")
	}
}
