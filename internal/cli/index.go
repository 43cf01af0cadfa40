package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"meetingnotes/internal/indexer"
	"meetingnotes/internal/notes"
)

var indexCmd = &cobra.Command{
	Use:   "index [year]",
	Short: "Regenerate year indexes",
	Long: `Scans the archive and regenerates the index of every year directory.
If a year is provided, only that year is regenerated. Index files are
rewritten only when their content changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	ctx := context.Background()

	if len(args) > 0 {
		year, err := notes.ParseYearDir(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q: %w", args[0], err)
		}
		result, err := a.pipeline.IndexYear(ctx, year)
		if err != nil {
			return fmt.Errorf("indexing %d failed: %w", year, err)
		}
		printYearResult(cmd, result)
		return nil
	}

	results, err := a.pipeline.IndexAll(ctx)
	for _, result := range results {
		printYearResult(cmd, result)
	}
	if err != nil {
		return err
	}
	cmd.Printf("Indexed %d years.\n", len(results))
	return nil
}

func printYearResult(cmd *cobra.Command, r indexer.YearResult) {
	state := "unchanged"
	if r.Written {
		state = "written"
	}
	cmd.Printf("%d: %d documents (%d parsed, %d pruned), index %s\n", r.Year, r.Documents, r.Parsed, r.Pruned, state)
}
