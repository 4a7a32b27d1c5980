// ABOUTME: Export of review entries to CSV, XLSX, JSON and Markdown.
// ABOUTME: Every format writes one row per entry, columns in persisted key order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/2389-research/tastelog/internal/models"
)

// Format names an export encoding.
type Format string

const (
	CSV      Format = "csv"
	XLSX     Format = "xlsx"
	JSON     Format = "json"
	Markdown Format = "markdown"
)

// Formats lists the supported formats.
var Formats = []Format{CSV, XLSX, JSON, Markdown}

// SheetName is the worksheet XLSX exports write to.
const SheetName = "Reviews"

// headers are the column names, matching the persisted JSON keys.
var headers = models.FieldNames

// ParseFormat resolves a format name, case-insensitively. "md" is accepted
// for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "xlsx", "excel":
		return XLSX, nil
	case "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown export format %q (valid: csv, xlsx, json, markdown)", s)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", false
	}
	f, err := ParseFormat(path[i+1:])
	if err != nil {
		return "", false
	}
	return f, true
}

// Write encodes entries to w in the given format.
func Write(w io.Writer, format Format, entries []models.Entry) error {
	switch format {
	case CSV:
		return WriteCSV(w, entries)
	case XLSX:
		return WriteXLSX(w, entries)
	case JSON:
		return WriteJSON(w, entries)
	case Markdown:
		_, err := io.WriteString(w, MarkdownTable(entries))
		return err
	}
	return fmt.Errorf("unknown export format %q", format)
}

func row(e models.Entry) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = e.Field(h)
	}
	return out
}

// WriteCSV writes a header row followed by one record per entry.
func WriteCSV(w io.Writer, entries []models.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(row(e)); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single sheet. Ratings are numeric cells.
func WriteXLSX(w io.Writer, entries []models.Entry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, e := range entries {
		values := []any{e.Date, e.Restaurant, e.Location, e.Food, e.Review, e.Rating}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteJSON writes entries in the same shape as the store file.
func WriteJSON(w io.Writer, entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// MarkdownTable renders entries as a GitHub-flavored Markdown table.
func MarkdownTable(entries []models.Entry) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(headers)) + "\n")
	for _, e := range entries {
		cells := row(e)
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
