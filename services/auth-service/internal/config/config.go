package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
	"github.com/vasapolrittideah/linkshort-api/shared/discovery"
	"github.com/vasapolrittideah/linkshort-api/shared/mailer"
)

// AuthServiceConfig holds the authentication service configuration.
type AuthServiceConfig struct {
	GRPCAddr        string `env:"AUTH_GRPC_ADDR"   envDefault:":50051"`
	MetricsAddr     string `env:"METRICS_ADDR"     envDefault:":9091"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDatabase   string `env:"MONGO_DATABASE"   envDefault:"linkshort_auth"`
	ConfirmationURL string `env:"CONFIRMATION_URL"`

	Token     TokenConfig
	SMTP      mailer.Config
	Discovery discovery.Config
}

// TokenConfig holds the secret and lifetime of every token purpose.
type TokenConfig struct {
	Issuer                     string        `env:"TOKEN_ISSUER"                  envDefault:"linkshort"`
	AccessTokenSecret          string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenExpiresIn       time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN"       envDefault:"15m"`
	RefreshTokenSecret         string        `env:"REFRESH_TOKEN_SECRET"`
	RefreshTokenExpiresIn      time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN"      envDefault:"720h"`
	VerificationTokenSecret    string        `env:"VERIFICATION_TOKEN_SECRET"`
	VerificationTokenExpiresIn time.Duration `env:"VERIFICATION_TOKEN_EXPIRES_IN" envDefault:"24h"`
}

// NewAuthServiceConfig loads the configuration from the environment and
// terminates the process if it is incomplete.
func NewAuthServiceConfig(logger *zerolog.Logger) *AuthServiceConfig {
	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate auth service configuration")
	}

	return &cfg
}

func (c *AuthServiceConfig) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.ConfirmationURL == "" {
		return fmt.Errorf("missing CONFIRMATION_URL environment variable")
	}
	if err := c.Token.validate(); err != nil {
		return err
	}

	return c.SMTP.Validate()
}

// JWTAuthenticator builds the token codec for every purpose the auth service
// signs. Issuer doubles as the audience.
func (c *TokenConfig) JWTAuthenticator() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator(c.Issuer, c.Issuer, map[auth.TokenPurpose]auth.TokenKey{
		auth.PurposeAccess:       {Secret: c.AccessTokenSecret, ExpiresIn: c.AccessTokenExpiresIn},
		auth.PurposeRefresh:      {Secret: c.RefreshTokenSecret, ExpiresIn: c.RefreshTokenExpiresIn},
		auth.PurposeVerification: {Secret: c.VerificationTokenSecret, ExpiresIn: c.VerificationTokenExpiresIn},
	})
}

func (c *TokenConfig) validate() error {
	secrets := map[string]string{
		"ACCESS_TOKEN_SECRET":       c.AccessTokenSecret,
		"REFRESH_TOKEN_SECRET":      c.RefreshTokenSecret,
		"VERIFICATION_TOKEN_SECRET": c.VerificationTokenSecret,
	}
	for name, secret := range secrets {
		if len(secret) < 32 {
			return fmt.Errorf("%s must be at least 32 characters", name)
		}
	}

	if c.AccessTokenSecret == c.RefreshTokenSecret || c.AccessTokenSecret == c.VerificationTokenSecret ||
		c.RefreshTokenSecret == c.VerificationTokenSecret {
		return fmt.Errorf("token secrets must differ per purpose")
	}

	if c.AccessTokenExpiresIn <= 0 || c.RefreshTokenExpiresIn <= 0 || c.VerificationTokenExpiresIn <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	return nil
}
