package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration from the given filename (e.g., "ferry.yaml")
// It returns a pointer to the Config struct or an error if something fails.
func Load(filename string) (*Config, error) {
	// 1. Tell Viper what file to look for
	v := viper.New()
	v.SetConfigFile(filename)

	// 2. Try to read the file from disk
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found. Run 'ferry init' to create one", filename)
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// 3. Create an empty Config struct
	var cfg Config

	// 4. Unmarshal: Viper fills the struct fields based on the mapstructure tags.
	// The default decode hooks turn "1h" into a time.Duration for us.
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.resolveBindPaths(filepath.Dir(filename))

	return &cfg, nil
}

// resolveBindPaths makes relative bind-mount sources absolute, resolved
// against the config file's directory the way compose does. The daemon
// reads a non-absolute source as a named volume, so ".:/app" would be
// rejected if passed through raw. Sources that don't start with "." are
// named volumes and pass through untouched.
func (c *Config) resolveBindPaths(baseDir string) {
	for name, svc := range c.Services {
		for i, vol := range svc.Volumes {
			parts := strings.SplitN(vol, ":", 2)
			if len(parts) != 2 || !strings.HasPrefix(parts[0], ".") {
				continue
			}
			abs, err := filepath.Abs(filepath.Join(baseDir, parts[0]))
			if err != nil {
				continue
			}
			svc.Volumes[i] = abs + ":" + parts[1]
		}
		c.Services[name] = svc
	}
}

func (c *Config) validate() error {
	if c.Name == "" {
		return fmt.Errorf("config is missing a project name")
	}
	for name, svc := range c.Services {
		if svc.Image == "" && svc.Build == "" {
			return fmt.Errorf("service %s declares neither image nor build", name)
		}
		if svc.Image != "" && svc.Build != "" {
			return fmt.Errorf("service %s declares both image and build", name)
		}
	}
	// A bad depends_on reference should fail at load time, not when the
	// stack is halfway up.
	if _, err := c.StartOrder(); err != nil {
		return err
	}
	return nil
}
