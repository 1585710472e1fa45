package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
	"github.com/vasapolrittideah/linkshort-api/shared/discovery"
)

// GatewayConfig holds the API gateway configuration.
type GatewayConfig struct {
	HTTPAddr          string        `env:"GATEWAY_HTTP_ADDR"        envDefault:":8080"`
	AuthServiceTarget string        `env:"AUTH_SERVICE_TARGET"      envDefault:"localhost:50051"`
	URLServiceURL     string        `env:"URL_SERVICE_URL"          envDefault:"http://localhost:8081"`
	ConsulAddr        string        `env:"CONSUL_ADDR"`
	TokenIssuer       string        `env:"TOKEN_ISSUER"             envDefault:"linkshort"`
	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET"`
	RefreshCookieTTL  time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN" envDefault:"720h"`
	SecureCookies     bool          `env:"SECURE_COOKIES"           envDefault:"true"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"          envDefault:"10s"`
}

// NewGatewayConfig loads the configuration from the environment and
// terminates the process if it is incomplete.
func NewGatewayConfig(logger *zerolog.Logger) *GatewayConfig {
	cfg, err := env.ParseAs[GatewayConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate gateway configuration")
	}

	return &cfg
}

// AuthTarget is the dial target of the auth service, resolved through Consul
// when CONSUL_ADDR is set.
func (c *GatewayConfig) AuthTarget() string {
	return discovery.Target(c.ConsulAddr, "auth-service", c.AuthServiceTarget)
}

// JWTAuthenticator builds a codec able to validate access tokens only.
func (c *GatewayConfig) JWTAuthenticator() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator(c.TokenIssuer, c.TokenIssuer, map[auth.TokenPurpose]auth.TokenKey{
		auth.PurposeAccess: {Secret: c.AccessTokenSecret},
	})
}

func (c *GatewayConfig) validate() error {
	if len(c.AccessTokenSecret) < 32 {
		return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least 32 characters")
	}

	u, err := url.Parse(c.URLServiceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL_SERVICE_URL must be an absolute url")
	}

	return nil
}
