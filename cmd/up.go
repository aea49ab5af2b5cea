package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/ferry/internal/docker"
	"github.com/sarth-shah20/ferry/internal/runner"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the stack",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The config is already loaded by PersistentPreRunE in root.go
		stack, err := newStack()
		if err != nil {
			return err
		}

		if err := stack.Up(context.Background()); err != nil {
			return err
		}

		fmt.Println("Stack is up.")
		return nil
	},
}

// newStack wires the loaded config to a docker manager.
func newStack() (*runner.Stack, error) {
	mgr, err := docker.NewManager()
	if err != nil {
		return nil, err
	}
	return &runner.Stack{Config: cfg, Env: envVars, Mgr: mgr}, nil
}

func init() {
	rootCmd.AddCommand(upCmd)
}
