package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/askdocs/internal/cli"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "askdocs",
		Short: "askdocs - retrieval-augmented documentation assistant",
		Long: `askdocs ingests documentation into vector collections and answers
questions against them with a confidence signal.

Environment variables use the ASKDOCS_ prefix, e.g.:
  ASKDOCS_DATABASE_URL     Postgres connection string (required)
  ASKDOCS_OPENAI_API_KEY   OpenAI API key for embeddings and generation`,
		Version: version,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.IngestCmd())
	rootCmd.AddCommand(cli.AskCmd())
	rootCmd.AddCommand(cli.SearchCmd())
	rootCmd.AddCommand(cli.ClearCmd())
	rootCmd.AddCommand(cli.InfoCmd())
	rootCmd.AddCommand(cli.StatsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
