package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that every index link resolves",
	Long: `Reads the index file of every year and verifies that each link points at
a document that exists. Exits with an error if any link is broken or any
year has no index.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	report, err := a.pipeline.CheckAll(context.Background())
	if err != nil {
		return err
	}

	for _, broken := range report.Broken {
		cmd.Printf("broken: %d index links to %s\n", broken.Year, broken.Target)
	}
	for _, year := range report.MissingIndexes {
		cmd.Printf("missing: %d has no %s\n", year, a.store.IndexFile())
	}

	if !report.OK() {
		return fmt.Errorf("check failed: %d broken links, %d missing indexes", len(report.Broken), len(report.MissingIndexes))
	}
	cmd.Printf("Checked %d years, all links resolve.\n", report.YearsChecked)
	return nil
}
