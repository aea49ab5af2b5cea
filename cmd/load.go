package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sarth-shah20/ferry/internal/bucket"
	"github.com/sarth-shah20/ferry/internal/config"
	"github.com/sarth-shah20/ferry/internal/ingest"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Sync bucket contents into Postgres",
	Long: `Walks the configured bucket and loads its contents into Postgres:
CSV objects become table rows, image objects become metadata entries.

Connection and bucket settings come from DB_USER, DB_PASSWORD, DB_HOST,
DB_PORT, BUCKET_NAME and CRED_PATH — from the env file when a ferry.yaml
is present, or straight from the environment when running inside the
app container.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.LoaderEnvFrom(envVars)
		if err != nil {
			return err
		}

		ctx := context.Background()
		store, err := bucket.Open(ctx, env.Provider, env.BucketName, env.CredPath)
		if err != nil {
			return err
		}

		return ingest.New(env, store).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
