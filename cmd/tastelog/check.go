// ABOUTME: CLI command that validates the store file without changing it.
// ABOUTME: Reports every schema violation plus warnings about suspicious entries.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/storage"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the review store file",
	Long: `Check the store file against the entry schema and report every problem.

Problems stop the file from loading. Warnings flag entries that load but
look wrong, such as uppercase keys or ratings outside 1-5.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	report, err := storage.Check(globalStore.Path())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !report.Exists {
		fmt.Fprintf(out, "%s does not exist yet; it will be created on the first add.\n", report.Path)
		return nil
	}

	for _, p := range report.Problems {
		fmt.Fprintf(out, "problem: %s\n", p)
	}
	for _, w := range report.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if !report.OK() {
		return fmt.Errorf("%s has %d problem(s)", report.Path, len(report.Problems))
	}
	fmt.Fprintf(out, "%s: %d entries, %d warning(s)\n", report.Path, report.Entries, len(report.Warnings))
	return nil
}
