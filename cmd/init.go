package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// starter mirrors internal/config but with yaml tags, so the generated
// file has stable field order.
type starter struct {
	Name     string                    `yaml:"name"`
	Version  string                    `yaml:"version"`
	EnvFile  string                    `yaml:"env_file"`
	Hold     string                    `yaml:"hold"`
	Services map[string]starterService `yaml:"services"`
}

type starterService struct {
	Image       string   `yaml:"image,omitempty"`
	Build       string   `yaml:"build,omitempty"`
	Ports       []string `yaml:"ports,omitempty"`
	Environment []string `yaml:"environment,omitempty"`
	Volumes     []string `yaml:"volumes,omitempty"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
}

const starterEnv = `DB_USER=postgres
DB_PASSWORD=
DB_HOST=postgres
DB_PORT=5432
BUCKET_NAME=
CRED_PATH=/app/credentials.json
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter ferry.yaml and .env",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			return fmt.Errorf("%s already exists", cfgFile)
		}

		out, err := yaml.Marshal(starter{
			Name:    "myproject",
			Version: "1",
			EnvFile: ".env",
			Hold:    "1h",
			Services: map[string]starterService{
				"postgres": {
					Image: "postgres:14",
					Ports: []string{"5432:5432"},
					Environment: []string{
						"POSTGRES_USER=${DB_USER}",
						"POSTGRES_PASSWORD=${DB_PASSWORD}",
						"POSTGRES_DB=postgres",
					},
				},
				"app": {
					Build: "myproject-app:latest",
					Environment: []string{
						"DB_USER=${DB_USER}",
						"DB_PASSWORD=${DB_PASSWORD}",
						"DB_HOST=${DB_HOST}",
						"DB_PORT=${DB_PORT}",
						"BUCKET_NAME=${BUCKET_NAME}",
						"CRED_PATH=${CRED_PATH}",
					},
					Volumes:   []string{".:/app"},
					DependsOn: []string{"postgres"},
				},
			},
		})
		if err != nil {
			return err
		}

		if err := os.WriteFile(cfgFile, out, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", cfgFile)

		// Only scaffold .env when there isn't one to clobber
		if _, err := os.Stat(".env"); os.IsNotExist(err) {
			if err := os.WriteFile(".env", []byte(starterEnv), 0o600); err != nil {
				return err
			}
			fmt.Println("Wrote .env")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
