package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove services",
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := newStack()
		if err != nil {
			return err
		}

		if err := stack.Down(context.Background()); err != nil {
			return err
		}

		fmt.Println("Environment stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}
