package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ClearCmd returns the clear command
func ClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear <collection>",
		Short: "Delete a collection and all its entries",
		Long:  "Permanently deletes the named collection. Clearing a collection that does not exist is not an error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, args[0], yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runClear(cmd *cobra.Command, collection string, yes bool) error {
	if !yes {
		fmt.Printf("Warning: this will permanently delete collection %q. Continue? [y/N] ", collection)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if s := strings.ToLower(strings.TrimSpace(answer)); s != "y" && s != "yes" {
			fmt.Println("Operation cancelled.")
			return nil
		}
	}

	ctx := cmd.Context()
	app, err := NewApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Store.Clear(ctx, collection); err != nil {
		return err
	}

	fmt.Printf("Cleared collection %q\n", collection)
	return nil
}
