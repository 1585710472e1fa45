package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/config"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/guard"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/handler"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/repository"
	"github.com/vasapolrittideah/linkshort-api/services/url-service/internal/usecase"
	"github.com/vasapolrittideah/linkshort-api/shared/httputil"
	"github.com/vasapolrittideah/linkshort-api/shared/logger"
	"github.com/vasapolrittideah/linkshort-api/shared/metrics"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
)

func main() {
	logger := logger.NewLogger("url-service")
	cfg := config.NewURLServiceConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	shortURLRepo := repository.NewShortURLMongoRepository(ctx, logger, client.Database(cfg.MongoDatabase))
	urlUsecase := usecase.NewURLUsecase(shortURLRepo, logger)

	conn, err := grpc.NewClient(cfg.AuthTarget(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		logger.Fatal().Err(err).Str("target", cfg.AuthTarget()).Msg("failed to create auth service client")
	}
	defer conn.Close()

	authGuard := guard.NewGuard(
		guard.NewRemoteIdentityVerifier(authv1.NewAuthServiceClient(conn), cfg.AuthRPCTimeout),
		logger,
	)

	validator, err := httputil.NewValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create validator")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.NewURLHTTPHandler(urlUsecase, authGuard.Middleware, validator, logger))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	for _, server := range []*http.Server{httpServer, metricsServer} {
		g.Go(func() error {
			logger.Info().Str("addr", server.Addr).Msg("starting http server")
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(httpServer.Shutdown(shutdownCtx), metricsServer.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}
}
