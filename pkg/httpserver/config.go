package httpserver

import "time"

type Config struct {
	Addr            string        `env:"STATUS_ADDR" envDefault:":8080"`               // Addr is the address the status server listens on.
	ReadTimeout     time.Duration `env:"STATUS_READ_TIMEOUT" envDefault:"10s"`         // ReadTimeout is the maximum duration for reading the entire request.
	WriteTimeout    time.Duration `env:"STATUS_WRITE_TIMEOUT" envDefault:"30s"`        // WriteTimeout covers readiness probes that call the cluster.
	IdleTimeout     time.Duration `env:"STATUS_IDLE_TIMEOUT" envDefault:"120s"`        // IdleTimeout is the keep-alive idle limit.
	ShutdownTimeout time.Duration `env:"STATUS_SHUTDOWN_TIMEOUT" envDefault:"5s"`      // ShutdownTimeout is the time allowed for graceful shutdown.
}

// NewFromConfig creates a new Server from the provided Config.
// Only non-zero values from the config are applied.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	configOpts := make([]Option, 0, 5+len(opts))

	if cfg.Addr != "" {
		configOpts = append(configOpts, WithAddr(cfg.Addr))
	}
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.IdleTimeout > 0 {
		configOpts = append(configOpts, WithIdleTimeout(cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(append(configOpts, opts...)...)
}
