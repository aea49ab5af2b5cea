package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads the dotenv file named by the config. The result is the
// process-wide configuration map: loaded once, never mutated afterwards.
// A config without env_file yields an empty map, not an error.
func LoadEnv(c *Config) (map[string]string, error) {
	if c == nil || c.EnvFile == "" {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(c.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("error reading env file %s: %w", c.EnvFile, err)
	}
	return vars, nil
}

// ExpandEnv resolves ${VAR} references in the service's environment
// entries against vars. Unknown variables expand to the empty string,
// matching shell behavior; literal values pass through unmodified.
func (s Service) ExpandEnv(vars map[string]string) []string {
	out := make([]string, 0, len(s.Environment))
	for _, entry := range s.Environment {
		out = append(out, os.Expand(entry, func(key string) string {
			return vars[key]
		}))
	}
	return out
}

// LoaderEnv holds the six settings the bucket loader needs.
type LoaderEnv struct {
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	BucketName string
	CredPath   string

	// Provider selects the object store backend ("gcs" or "s3").
	// Optional; defaults to gcs, which is what CRED_PATH is for.
	Provider string
}

// LoaderEnvFrom builds a LoaderEnv from vars, letting the process
// environment override the file (the same precedence docker compose
// gives the shell over .env). All six variables must be non-empty.
func LoaderEnvFrom(vars map[string]string) (*LoaderEnv, error) {
	get := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vars[key]
	}

	env := &LoaderEnv{
		DBUser:     get("DB_USER"),
		DBPassword: get("DB_PASSWORD"),
		DBHost:     get("DB_HOST"),
		DBPort:     get("DB_PORT"),
		BucketName: get("BUCKET_NAME"),
		CredPath:   get("CRED_PATH"),
		Provider:   get("FERRY_BUCKET_PROVIDER"),
	}
	if env.Provider == "" {
		env.Provider = "gcs"
	}

	var missing []string
	for key, val := range map[string]string{
		"DB_USER":     env.DBUser,
		"DB_PASSWORD": env.DBPassword,
		"DB_HOST":     env.DBHost,
		"DB_PORT":     env.DBPort,
		"BUCKET_NAME": env.BucketName,
		"CRED_PATH":   env.CredPath,
	} {
		if val == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return env, nil
}
