package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HttpPort uint16 `envconfig:"LABOPS_HTTP_SERVER_PORT" default:"8080" required:"true"`

	// Secret used to verify access tokens.
	JwtSecret string `envconfig:"LABOPS_JWT_SECRET" required:"true"`

	// Attempt budgets for the rejection policy. The two counters are
	// independent; escalation becomes mandatory only when both are spent.
	MaxRetestAttempts    int `envconfig:"LABOPS_MAX_RETEST_ATTEMPTS" default:"3"`
	MaxRecollectAttempts int `envconfig:"LABOPS_MAX_RECOLLECT_ATTEMPTS" default:"3"`

	// How often clients are expected to poll for unacknowledged critical
	// values. Exposed so dashboards and the service agree on cadence.
	CriticalRefreshInterval time.Duration `envconfig:"LABOPS_CRITICAL_REFRESH_INTERVAL" default:"30s"`
}

func New() *Config {
	return &Config{}
}

func (c *Config) LoadFromEnv() error {
	return envconfig.Process("", c)
}

func NewFromEnv() (*Config, error) {
	cfg := New()
	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
