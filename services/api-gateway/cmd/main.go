package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vasapolrittideah/linkshort-api/services/api-gateway/internal/config"
	"github.com/vasapolrittideah/linkshort-api/services/api-gateway/internal/handler"
	"github.com/vasapolrittideah/linkshort-api/services/api-gateway/internal/middleware"
	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
	"github.com/vasapolrittideah/linkshort-api/shared/logger"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
)

func main() {
	logger := logger.NewLogger("api-gateway")
	cfg := config.NewGatewayConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(cfg.AuthTarget(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal().Err(err).Str("target", cfg.AuthTarget()).Msg("failed to create auth service client")
	}
	defer conn.Close()

	validator, err := httputil.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	urlServiceURL, err := url.Parse(cfg.URLServiceURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse url service url")
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Mount("/auth", handler.NewAuthHTTPHandler(
		authv1.NewAuthServiceClient(conn),
		validator,
		handler.CookieConfig{TTL: cfg.RefreshCookieTTL, Secure: cfg.SecureCookies},
		cfg.RequestTimeout,
		logger,
	))

	proxy := middleware.NewReverseProxy(urlServiceURL, "/urls", logger)
	r.Route("/urls", func(r chi.Router) {
		r.Get("/view/{code}", proxy.ServeHTTP)
		r.Post("/is-available", proxy.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.IdentityHeaders(cfg.JWTAuthenticator(), logger))
			r.Handle("/*", proxy)
		})
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting api gateway")
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}
}
