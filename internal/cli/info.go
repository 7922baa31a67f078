package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// InfoCmd returns the info command
func InfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [collection]",
		Short: "Show collection information",
		Long:  "Without arguments, lists all collections. With a collection name, shows its entry count, dimension and per-file breakdown.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if len(args) == 0 {
		infos, err := app.Store.List(ctx)
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("No collections found. Use 'askdocs ingest <folder> <collection>' to create one.")
			return nil
		}

		fmt.Printf("Collections (%d):\n\n", len(infos))
		for _, info := range infos {
			fmt.Printf("%s\n  Chunks: %d\n  Dimension: %d\n  Created: %s\n\n",
				info.Name, info.Chunks, info.Dimension, info.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	name := args[0]
	info, err := app.Store.Info(ctx, name)
	if err != nil {
		return err
	}

	fmt.Printf("Collection: %s\n", info.Name)
	fmt.Printf("Total chunks: %d\n", info.Chunks)
	fmt.Printf("Dimension: %d\n", info.Dimension)
	fmt.Printf("Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))

	sources, err := app.Store.Sources(ctx, name)
	if err != nil {
		return err
	}
	if len(sources) > 0 {
		fmt.Printf("\nFiles (%d total):\n", len(sources))
		for _, sc := range sources {
			fmt.Printf("  - %s (%d chunks)\n", sc.Source, sc.Chunks)
		}
	}
	return nil
}
