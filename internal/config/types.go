package config

import "time"

// Config represents the root of ferry.yaml
type Config struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`

	// EnvFile points at a dotenv file loaded once at startup. Values from
	// it are available for ${VAR} expansion in service environments.
	EnvFile string `mapstructure:"env_file"`

	// Hold is how long `ferry run` keeps the stack alive before tearing
	// it down. Zero means DefaultHold.
	Hold time.Duration `mapstructure:"hold"`

	Services map[string]Service `mapstructure:"services"` // Map keys are service names (e.g., "postgres")
}

// DefaultHold is used when ferry.yaml does not set hold.
const DefaultHold = time.Hour

// Service represents a single container definition
type Service struct {
	Image       string   `mapstructure:"image"`       // e.g., "postgres:14"
	Build       string   `mapstructure:"build"`       // locally built image name, used as-is (no pull)
	Ports       []string `mapstructure:"ports"`       // e.g., ["5432:5432"]
	Environment []string `mapstructure:"environment"` // e.g., ["POSTGRES_PASSWORD=${DB_PASSWORD}"]
	Volumes     []string `mapstructure:"volumes"`     // e.g., ["pgdata:/var/lib/postgresql/data"]
	DependsOn   []string `mapstructure:"depends_on"`  // start-order only, no readiness handshake
}

// ImageName returns the image the service runs from: the pulled image,
// or the locally built one when build is set.
func (s Service) ImageName() string {
	if s.Build != "" {
		return s.Build
	}
	return s.Image
}

// Pull reports whether the image should be pulled from a registry.
// Locally built images are used as-is.
func (s Service) Pull() bool {
	return s.Build == ""
}

// HoldDuration returns the configured hold, falling back to DefaultHold.
func (c *Config) HoldDuration() time.Duration {
	if c.Hold <= 0 {
		return DefaultHold
	}
	return c.Hold
}
