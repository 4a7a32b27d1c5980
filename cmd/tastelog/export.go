// ABOUTME: CLI command for exporting reviews to other formats.
// ABOUTME: Writes CSV, XLSX, JSON or Markdown to a file or stdout.
package main

import (
	"fmt"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reviews",
	Long: `Export every review as csv, xlsx, json or markdown.

The format defaults to the --output file extension, then csv.
xlsx output needs --output.`,
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv, xlsx, json, markdown")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := resolveExportFormat(exportFormat, exportOutput)
	if err != nil {
		return err
	}
	if format == export.XLSX && exportOutput == "" {
		return fmt.Errorf("xlsx export needs --output")
	}

	entries, err := globalStore.Load()
	if err != nil {
		return describe("failed to load entries", err)
	}

	if exportOutput == "" {
		return export.Write(cmd.OutOrStdout(), format, entries)
	}

	f, err := renameio.NewPendingFile(exportOutput, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", exportOutput, err)
	}
	defer func() { _ = f.Cleanup() }()

	if err := export.Write(f, format, entries); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), exportOutput)
	return nil
}

func resolveExportFormat(name, output string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if f, ok := export.FormatFromPath(output); ok {
		return f, nil
	}
	return export.CSV, nil
}
