package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/linkshort-api/services/api-gateway/internal/payload"
	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
	"github.com/vasapolrittideah/linkshort-api/shared/utilities"
)

const (
	RefreshTokenCookie = "refresh_token"
	ClientHeader       = "X-Client"
	MobileClient       = "mobile"
)

// CookieConfig controls the refresh-token cookie given to web clients.
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

type authHTTPHandler struct {
	authClient authv1.AuthServiceClient
	validator  *httputil.Validator
	cookie     CookieConfig
	timeout    time.Duration
	logger     *zerolog.Logger
}

// NewAuthHTTPHandler returns the /auth routes. Mobile clients (X-Client:
// mobile) exchange the refresh token in request and response bodies; other
// clients hold it in an HttpOnly cookie.
func NewAuthHTTPHandler(
	authClient authv1.AuthServiceClient,
	validator *httputil.Validator,
	cookie CookieConfig,
	timeout time.Duration,
	logger *zerolog.Logger,
) http.Handler {
	h := &authHTTPHandler{
		authClient: authClient,
		validator:  validator,
		cookie:     cookie,
		timeout:    timeout,
		logger:     logger,
	}

	r := chi.NewRouter()
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Post("/verify", h.verify)
	r.Get("/verification-link", h.sendVerification)

	return r
}

func (h *authHTTPHandler) register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.authClient.Register(ctx, &authv1.RegisterRequest{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
	})
	if err != nil {
		h.writeRPCError(w, err, "failed to register")
		return
	}

	h.writeAuthResponse(w, r, http.StatusCreated, resp)
}

func (h *authHTTPHandler) login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.authClient.Login(ctx, &authv1.LoginRequest{
		Identifier:   req.Identifier,
		Password:     req.Password,
		RefreshToken: h.refreshToken(r, req.RefreshToken),
	})
	if err != nil {
		h.writeRPCError(w, err, "failed to login")
		return
	}

	h.writeAuthResponse(w, r, http.StatusOK, resp)
}

func (h *authHTTPHandler) logout(w http.ResponseWriter, r *http.Request) {
	var req payload.LogoutRequest
	if isMobile(r) && r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	_, err := h.authClient.Logout(ctx, &authv1.LogoutRequest{RefreshToken: h.refreshToken(r, req.RefreshToken)})
	if !isMobile(r) {
		h.clearRefreshCookie(w)
	}
	if err != nil {
		h.writeRPCError(w, err, "failed to logout")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *authHTTPHandler) verify(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyRequest
	if !h.decode(w, r, &req) {
		return
	}

	ctx, cancel := h.rpcContext(r)
	defer cancel()

	if _, err := h.authClient.Verify(ctx, &authv1.VerifyRequest{VerificationToken: req.VerificationToken}); err != nil {
		h.writeRPCError(w, err, "failed to verify account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *authHTTPHandler) sendVerification(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.rpcContext(r)
	defer cancel()

	resp, err := h.authClient.SendVerification(
		utilities.ForwardHTTPHeadersToGRPC(ctx, r),
		&authv1.SendVerificationRequest{},
	)
	if err != nil {
		h.writeRPCError(w, err, "failed to send verification link")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, payload.VerificationLinkResponse{AlreadyVerified: resp.AlreadyVerified})
}

func (h *authHTTPHandler) rpcContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func isMobile(r *http.Request) bool {
	return r.Header.Get(ClientHeader) == MobileClient
}

// refreshToken picks the refresh token the client holds: from the body for
// mobile clients, from the cookie otherwise.
func (h *authHTTPHandler) refreshToken(r *http.Request, fromBody string) string {
	if isMobile(r) {
		return fromBody
	}

	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}

	return cookie.Value
}

func (h *authHTTPHandler) writeAuthResponse(
	w http.ResponseWriter,
	r *http.Request,
	statusCode int,
	resp *authv1.AuthResponse,
) {
	body := payload.AuthResponse{
		AccessToken: resp.AccessToken,
		Email:       resp.Email,
		Username:    resp.Username,
		Firstname:   resp.Firstname,
		Lastname:    resp.Lastname,
	}

	if isMobile(r) {
		body.RefreshToken = resp.RefreshToken
	} else {
		http.SetCookie(w, &http.Cookie{
			Name:     RefreshTokenCookie,
			Value:    resp.RefreshToken,
			Path:     "/auth",
			MaxAge:   int(h.cookie.TTL.Seconds()),
			HttpOnly: true,
			Secure:   h.cookie.Secure,
			SameSite: http.SameSiteStrictMode,
		})
	}

	httputil.WriteJSON(w, statusCode, body)
}

func (h *authHTTPHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *authHTTPHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
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

// writeRPCError maps auth service status codes to HTTP responses.
func (h *authHTTPHandler) writeRPCError(w http.ResponseWriter, err error, msg string) {
	st := status.Convert(err)

	switch st.Code() {
	case codes.AlreadyExists:
		httputil.WriteError(w, http.StatusConflict, st.Message())
	case codes.Unauthenticated:
		httputil.WriteError(w, http.StatusUnauthorized, st.Message())
	case codes.InvalidArgument:
		httputil.WriteError(w, http.StatusBadRequest, st.Message())
	case codes.Unimplemented:
		httputil.WriteError(w, http.StatusNotImplemented, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		h.logger.Error().Err(err).Msg(msg)
		httputil.WriteError(w, http.StatusServiceUnavailable, "auth service unavailable")
	default:
		h.logger.Error().Err(err).Msg(msg)
		httputil.WriteError(w, http.StatusInternalServerError, "something went wrong")
	}
}
