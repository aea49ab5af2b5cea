package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/docker/docker/api/types"
	"github.com/spf13/cobra"

	"github.com/sarth-shah20/ferry/internal/docker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List running services",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := docker.NewManager()
		if err != nil {
			return err
		}

		containers, err := mgr.ListContainers(context.Background(), cfg.Name)
		if err != nil {
			return err
		}

		if len(containers) == 0 {
			fmt.Println("No ferry services found.")
			return nil
		}

		// Use tabwriter to print pretty columns
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tIMAGE\tSTATUS\tPORTS")
		for _, row := range statusRows(containers) {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		w.Flush()

		return nil
	},
}

// statusRows renders one table row per container: the service name from
// the ferry.service label (falling back to the container name for
// containers created before labeling), image, status, and published
// ports.
func statusRows(containers []types.Container) [][]string {
	rows := make([][]string, 0, len(containers))
	for _, c := range containers {
		service := c.Labels["ferry.service"]
		if service == "" && len(c.Names) > 0 {
			// Names come back daemon-style, e.g. "/ferry-demo-postgres"
			service = strings.TrimPrefix(c.Names[0], "/")
		}

		ports := ""
		for _, p := range c.Ports {
			if p.PublicPort != 0 {
				ports += fmt.Sprintf("%d->%d/tcp ", p.PublicPort, p.PrivatePort)
			}
		}

		rows = append(rows, []string{service, c.Image, c.Status, strings.TrimSpace(ports)})
	}
	return rows
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
