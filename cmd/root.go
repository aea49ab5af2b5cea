package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/ferry/internal/config"
)

// Loaded configuration and env-file contents, shared by all commands
var (
	cfg     *config.Config
	envVars map[string]string

	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "ferry",
	Short: "Ferry: container stacks for bucket-to-Postgres syncs",
	// PersistentPreRunE runs before ANY command (up, down, etc.)
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init has to work before a config exists
		if cmd.Name() == "init" {
			return nil
		}

		loadedConfig, err := config.Load(cfgFile)
		if err != nil {
			// load can run inside the app container, where there is no
			// ferry.yaml and everything comes from the environment
			if cmd.Name() == "load" {
				return nil
			}
			return err
		}
		cfg = loadedConfig

		vars, err := config.LoadEnv(cfg)
		if err != nil {
			return err
		}
		envVars = vars

		fmt.Printf("Loaded config for project: %s\n", cfg.Name)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "ferry.yaml", "config file")
}
