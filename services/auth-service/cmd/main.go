package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/notifier"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/linkshort-api/shared/discovery"
	"github.com/vasapolrittideah/linkshort-api/shared/interceptor"
	"github.com/vasapolrittideah/linkshort-api/shared/logger"
	"github.com/vasapolrittideah/linkshort-api/shared/mailer"
	"github.com/vasapolrittideah/linkshort-api/shared/metrics"
	authv1 "github.com/vasapolrittideah/linkshort-api/shared/rpc/auth/v1"
	"github.com/vasapolrittideah/linkshort-api/shared/utilities"
)

const serviceName = "auth-service"

// Methods callable without an access token. SendVerification is the only
// method that requires one.
var exemptMethods = []string{
	authv1.AuthService_Register_FullMethodName,
	authv1.AuthService_Login_FullMethodName,
	authv1.AuthService_Logout_FullMethodName,
	authv1.AuthService_Verify_FullMethodName,
	authv1.AuthService_IsValid_FullMethodName,
	authv1.AuthService_Refresh_FullMethodName,
	authv1.AuthService_ForgotPassword_FullMethodName,
	authv1.AuthService_ChangePassword_FullMethodName,
	grpc_health_v1.Health_Check_FullMethodName,
}

func main() {
	logger := logger.NewLogger(serviceName)
	cfg := config.NewAuthServiceConfig(logger)

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

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)
	accountRepo := repository.NewAccountMongoRepository(ctx, logger, db)

	jwtAuth := cfg.Token.JWTAuthenticator()
	verification := notifier.NewEmailVerificationSender(
		jwtAuth,
		mailer.NewMailer(cfg.SMTP),
		cfg.ConfirmationURL,
		logger,
	)

	authUsecase := usecase.NewAuthUsecase(accountRepo, verification, jwtAuth, logger)
	identityUsecase := usecase.NewIdentityUsecase(accountRepo)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		interceptor.NewLoggingInterceptor(logger),
		interceptor.NewJWTInterceptor(jwtAuth, exemptMethods),
	))
	authv1.RegisterAuthServiceServer(grpcServer, handler.NewAuthGRPCHandler(authUsecase, identityUsecase, logger))
	healthServer := utilities.RegisterHealthServer(grpcServer, serviceName)

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	if cfg.Discovery.Enabled() {
		registration, err := discovery.Register(logger, cfg.Discovery, serviceName)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register service")
		}
		defer registration.Deregister()
	}

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.GRPCAddr).Msg("starting grpc server")
		return grpcServer.Serve(listener)
	})

	g.Go(func() error {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("starting metrics server")
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info().Msg("shutting down")

		healthServer.Shutdown()
		grpcServer.GracefulStop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}
}
