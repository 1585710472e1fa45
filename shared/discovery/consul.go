package discovery

import (
	"fmt"
	"net/url"

	consulapi "github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"

	// registers the consul:// resolver scheme used by Target
	_ "github.com/mbobakov/grpc-consul-resolver"
)

// Config holds the Consul settings. Discovery is disabled when Addr is empty.
type Config struct {
	Addr        string `env:"CONSUL_ADDR"`
	ServiceHost string `env:"SERVICE_HOST" envDefault:"localhost"`
	ServicePort int    `env:"SERVICE_PORT" envDefault:"50051"`
}

func (c Config) Enabled() bool { return c.Addr != "" }

// Registration is a service registered with the local Consul agent.
type Registration struct {
	agent  *consulapi.Agent
	id     string
	logger *zerolog.Logger
}

// Register announces a gRPC service to Consul with a gRPC health check against
// the standard health service.
func Register(logger *zerolog.Logger, cfg Config, serviceName string) (*Registration, error) {
	consulCfg := consulapi.DefaultConfig()
	consulCfg.Address = cfg.Addr

	client, err := consulapi.NewClient(consulCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	id := fmt.Sprintf("%s-%s-%d", serviceName, cfg.ServiceHost, cfg.ServicePort)
	registration := &consulapi.AgentServiceRegistration{
		ID:      id,
		Name:    serviceName,
		Address: cfg.ServiceHost,
		Port:    cfg.ServicePort,
		Check: &consulapi.AgentServiceCheck{
			GRPC:                           fmt.Sprintf("%s:%d", cfg.ServiceHost, cfg.ServicePort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := client.Agent().ServiceRegister(registration); err != nil {
		return nil, fmt.Errorf("failed to register %s with consul: %w", serviceName, err)
	}

	logger.Info().Str("id", id).Str("consul", cfg.Addr).Msg("registered service with consul")

	return &Registration{agent: client.Agent(), id: id, logger: logger}, nil
}

// Deregister removes the service from Consul.
func (r *Registration) Deregister() {
	if err := r.agent.ServiceDeregister(r.id); err != nil {
		r.logger.Error().Err(err).Str("id", r.id).Msg("failed to deregister service from consul")
	}
}

// Target returns the gRPC dial target for serviceName: a consul:// target
// resolving healthy instances when consulAddr is set, fallback otherwise.
func Target(consulAddr, serviceName, fallback string) string {
	if consulAddr == "" {
		return fallback
	}

	target := url.URL{
		Scheme:   "consul",
		Host:     consulAddr,
		Path:     "/" + serviceName,
		RawQuery: "healthy=true",
	}

	return target.String()
}
