package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// SearchCmd returns the search command
func SearchCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search <collection> <query>",
		Short: "Search a collection",
		Long:  "Embeds the query and prints the k nearest chunks with their distances.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], args[1], k)
		},
	}

	cmd.Flags().IntVarP(&k, "top-k", "k", 5, "Number of results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, collection, query string, k int) error {
	ctx := cmd.Context()

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireOpenAI(); err != nil {
		return err
	}

	result, err := app.Retriever.Search(ctx, collection, query, k)
	if err != nil {
		return err
	}

	if len(result.Chunks) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, sc := range result.Chunks {
		fmt.Printf("%d. %s (chunk %d, distance %.4f)\n", i+1, sc.Chunk.Source, sc.Chunk.Index+1, sc.Distance)
		fmt.Printf("   %s\n\n", previewLine(sc.Chunk.Text, 200))
	}
	return nil
}

func previewLine(text string, max int) string {
	runes := []rune(text)
	if len(runes) > max {
		runes = append(runes[:max-3], []rune("...")...)
	}
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if r == '\n' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
