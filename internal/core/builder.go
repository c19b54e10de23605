package core

import (
	"net"

	"netbat/config"
	"netbat/internal/metrics"
	"netbat/internal/relay"
	"netbat/internal/transport"
	"netbat/util"
)

// Build constructs the appropriate Mode from the given configuration:
// a host selects the client role, no host the server role.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var m *metrics.Collector
	if logger.Level() >= util.LogDebug {
		m = metrics.New()
	}

	if cfg.Role() == config.RoleClient {
		return buildConnect(cfg, logger, m), nil
	}
	return buildListen(cfg, logger, m), nil
}

func buildConnect(cfg *config.Config, logger *util.Logger, m *metrics.Collector) *ConnectMode {
	return &ConnectMode{
		Dialer: &transport.TCPDialer{
			Timeout: cfg.Timeout,
			NoDNS:   cfg.NoDNS,
		},
		Host:    cfg.Host,
		Port:    cfg.Port,
		Relay:   &relay.Relay{ChunkSize: util.DefaultChunkSize},
		Logger:  logger.With("role", config.RoleClient.String()),
		Metrics: m,
	}
}

func buildListen(cfg *config.Config, logger *util.Logger, m *metrics.Collector) *ListenMode {
	logger = logger.With("role", config.RoleServer.String())
	return &ListenMode{
		Acceptor: &transport.OnceListener{
			Backlog: config.DefaultListenBacklog,
			Timeout: cfg.Timeout,
			Bound: func(addr net.Addr) {
				logger.Info("listening on %s", addr)
			},
		},
		Port:    cfg.Port,
		Relay:   &relay.Relay{ChunkSize: util.DefaultChunkSize},
		Logger:  logger,
		Metrics: m,
	}
}
