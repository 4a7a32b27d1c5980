// ABOUTME: Tests for review export formats.
// ABOUTME: Reads CSV and XLSX output back to check headers, rows and numeric ratings.
package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/2389-research/tastelog/internal/models"
)

func sampleEntries() []models.Entry {
	return []models.Entry{
		{Date: "01/02/24", Restaurant: "cafe a", Location: "nyc", Food: "pizza", Review: "Crispy, thin | good", Rating: 4.5},
		{Date: "03/04/24", Restaurant: "sushi bar", Location: "sf", Food: "sushi", Review: "Fresh\nfish", Rating: 5},
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"csv": CSV, "XLSX": XLSX, "excel": XLSX, "json": JSON, "md": Markdown, "markdown": Markdown}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	f, ok := FormatFromPath("out/reviews.xlsx")
	assert.True(t, ok)
	assert.Equal(t, XLSX, f)

	_, ok = FormatFromPath("reviews")
	assert.False(t, ok)

	_, ok = FormatFromPath("reviews.txt")
	assert.False(t, ok)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, CSV, sampleEntries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "restaurant", "location", "food", "review", "rating"}, records[0])
	assert.Equal(t, []string{"01/02/24", "cafe a", "nyc", "pizza", "Crispy, thin | good", "4.5"}, records[1])
	assert.Equal(t, "Fresh\nfish", records[2][4])
	assert.Equal(t, "5", records[2][5])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "date,restaurant,location,food,review,rating\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, XLSX, sampleEntries()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "restaurant", rows[0][1])
	assert.Equal(t, "cafe a", rows[1][1])
	assert.Equal(t, "4.5", rows[1][5])

	cellType, err := f.GetCellType(SheetName, "F2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType, "ratings should be numeric cells")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, JSON, sampleEntries()))

	var got []models.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleEntries(), got)
}

func TestWriteJSONNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestMarkdownTable(t *testing.T) {
	table := MarkdownTable(sampleEntries())
	lines := strings.Split(strings.TrimSpace(table), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "| date | restaurant | location | food | review | rating |", lines[0])
	assert.Contains(t, lines[2], `Crispy, thin \| good`)
	assert.Contains(t, lines[3], "Fresh fish")
}
