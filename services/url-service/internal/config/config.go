package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/discovery"
)

// URLServiceConfig holds the URL service configuration.
type URLServiceConfig struct {
	HTTPAddr          string        `env:"URL_HTTP_ADDR"       envDefault:":8081"`
	MetricsAddr       string        `env:"METRICS_ADDR"        envDefault:":9092"`
	MongoURI          string        `env:"MONGO_URI"`
	MongoDatabase     string        `env:"MONGO_DATABASE"      envDefault:"linkshort_url"`
	AuthServiceTarget string        `env:"AUTH_SERVICE_TARGET" envDefault:"localhost:50051"`
	AuthRPCTimeout    time.Duration `env:"AUTH_RPC_TIMEOUT"    envDefault:"3s"`
	ConsulAddr        string        `env:"CONSUL_ADDR"`
}

// NewURLServiceConfig loads the configuration from the environment and
// terminates the process if it is incomplete.
func NewURLServiceConfig(logger *zerolog.Logger) *URLServiceConfig {
	cfg, err := env.ParseAs[URLServiceConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate url service configuration")
	}

	return &cfg
}

// AuthTarget is the dial target of the auth service, resolved through Consul
// when CONSUL_ADDR is set.
func (c *URLServiceConfig) AuthTarget() string {
	return discovery.Target(c.ConsulAddr, "auth-service", c.AuthServiceTarget)
}

func (c *URLServiceConfig) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.AuthRPCTimeout <= 0 {
		return fmt.Errorf("AUTH_RPC_TIMEOUT must be positive")
	}

	return nil
}
