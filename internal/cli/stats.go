package cli

import (
	"fmt"

	"github.com/cloo-solutions/askdocs/internal/config"
	"github.com/cloo-solutions/askdocs/internal/querylog"
	"github.com/spf13/cobra"
)

// StatsCmd returns the stats command
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show query log statistics",
		Long:  "Aggregates the query transaction log: totals, average confidence and escalation rates.",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	// Stats only needs the log file, not the database.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := querylog.NewFileLogger(cfg.QueryLogFile)
	if err != nil {
		return err
	}

	stats, err := logger.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Total queries:   %d\n", stats.TotalQueries)
	if stats.TotalQueries == 0 {
		return nil
	}
	fmt.Printf("Avg confidence:  %.3f\n", stats.AvgConfidence)
	fmt.Printf("Uncertain:       %d (%.1f%%)\n", stats.UncertainCount, stats.UncertainPercentage)
	fmt.Printf("Escalated:       %d (%.1f%%)\n", stats.EscalatedCount, stats.EscalatedPercentage)
	return nil
}
