package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/ferry/internal/runner"
)

var holdFlag time.Duration

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the stack, hold for a fixed duration, then tear it down",
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack()
		if err != nil {
			return err
		}

		hold := cfg.HoldDuration()
		if holdFlag > 0 {
			hold = holdFlag
		}

		// SIGINT/SIGTERM end the hold early; teardown still runs
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Running stack for %s...\n", hold)
		if err := runner.New(stack, hold).Run(ctx); err != nil {
			return err
		}

		fmt.Println("Environment stopped.")
		return nil
	},
}

func init() {
	runCmd.Flags().DurationVar(&holdFlag, "hold", 0, "override the configured hold duration (e.g., 30m)")
	rootCmd.AddCommand(runCmd)
}
