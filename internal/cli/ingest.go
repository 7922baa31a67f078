package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// IngestCmd returns the ingest command
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <path> <collection>",
		Short: "Ingest documents into a collection",
		Long:  "Reads .txt and .md files from a local folder or an s3://bucket/prefix URL, chunks and embeds them, and stores them in the named collection.",
		Args:  cobra.ExactArgs(2),
		RunE:  runIngest,
	}

	AddMigrateFlags(cmd.Flags())

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path, collection := args[0], args[1]

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireOpenAI(); err != nil {
		return err
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := RunMigrations(app.Cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	source, err := app.DocumentSource(ctx, path)
	if err != nil {
		return err
	}

	progress := func(current, total int, name, status string) {
		fmt.Printf("[%d/%d] %s: %s\n", current, total, name, status)
	}

	report, err := app.Retriever.Ingest(ctx, source, collection, progress)
	if err != nil {
		return err
	}

	fmt.Printf("\nIngested %d documents (%d chunks) into %q\n", report.Documents, report.Chunks, report.Collection)
	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped %d files:\n", len(report.Skipped))
		for _, skip := range report.Skipped {
			fmt.Printf("  - %s: %s\n", skip.Path, skip.Reason)
		}
	}
	return nil
}
