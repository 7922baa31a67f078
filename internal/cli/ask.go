package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <collection> <question>",
		Short: "Ask a question against a collection",
		Long:  "Retrieves the most relevant chunks from the collection and asks the generative model for a grounded answer.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runAsk,
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	collection := args[0]
	question := strings.Join(args[1:], " ")

	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.RequireOpenAI(); err != nil {
		return err
	}

	result, err := app.Assistant.Ask(ctx, collection, question)
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	fmt.Println()
	fmt.Printf("confidence: %.3f", result.Confidence)
	if result.IsUncertain {
		fmt.Print("  (uncertain)")
	}
	if result.Escalated {
		fmt.Print("  [escalated: consider human review]")
	}
	fmt.Println()

	if len(result.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range result.Sources {
			fmt.Printf("  - %s (chunk %d, distance %.4f)\n", src.Source, src.ChunkIndex+1, src.Distance)
		}
	}
	return nil
}
