// ABOUTME: Structural check of a store file against its JSON Schema.
// ABOUTME: Reports every violation plus tolerated oddities such as missing keys or mixed case.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/xeipuuv/gojsonschema"

	"github.com/2389-research/tastelog/internal/models"
	"github.com/2389-research/tastelog/internal/validation"
)

// entrySchema describes what Load accepts. Keys are optional because older
// files may omit them, and null reads as the zero value.
const entrySchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": ["object", "null"],
		"properties": {
			"date":       {"type": ["string", "null"]},
			"restaurant": {"type": ["string", "null"]},
			"location":   {"type": ["string", "null"]},
			"food":       {"type": ["string", "null"]},
			"review":     {"type": ["string", "null"]},
			"rating":     {"type": ["number", "null"]}
		}
	}
}`

var (
	compiledSchema *gojsonschema.Schema
	schemaErr      error
	schemaOnce     sync.Once
)

func schema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(entrySchema))
	})
	return compiledSchema, schemaErr
}

// CheckReport summarizes a store file check.
type CheckReport struct {
	Path     string
	Exists   bool
	Entries  int
	Problems []string // the file would fail to load
	Warnings []string // the file loads, but something looks off
}

// OK reports whether the file loads cleanly.
func (r *CheckReport) OK() bool {
	return len(r.Problems) == 0
}

// Check validates the store file at path without modifying it.
func Check(path string) (*CheckReport, error) {
	report := &CheckReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	report.Exists = true

	if _, err := decodeEntries(data); err != nil {
		report.Problems = append(report.Problems, err.Error())
	}

	s, err := schema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// Not JSON at all; decodeEntries already said why.
		return report, nil
	}
	for _, desc := range result.Errors() {
		report.Problems = append(report.Problems, desc.String())
	}
	if !report.OK() {
		return report, nil
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		report.Problems = append(report.Problems, err.Error())
		return report, nil
	}
	report.Entries = len(raw)
	for i, obj := range raw {
		report.Warnings = append(report.Warnings, entryWarnings(i, obj)...)
	}
	return report, nil
}

func entryWarnings(i int, obj map[string]any) []string {
	if obj == nil {
		return []string{fmt.Sprintf("entry %d: null (read as an empty entry)", i)}
	}

	var warnings []string

	var missing, null []string
	for _, key := range models.FieldNames {
		v, ok := field(obj, key)
		switch {
		case !ok:
			missing = append(missing, key)
		case v == nil:
			null = append(null, key)
		}
	}
	if len(missing) > 0 {
		warnings = append(warnings, fmt.Sprintf("entry %d: missing keys %v (read as empty)", i, missing))
	}
	if len(null) > 0 {
		warnings = append(warnings, fmt.Sprintf("entry %d: null keys %v (read as empty)", i, null))
	}

	var extra []string
	for key := range obj {
		if !isField(key) {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		warnings = append(warnings, fmt.Sprintf("entry %d: unknown keys %v (dropped on next save)", i, extra))
	}

	for _, key := range []string{"restaurant", "location", "food"} {
		v, _ := field(obj, key)
		if s, ok := v.(string); ok && s != models.NormalizeKey(s) {
			warnings = append(warnings, fmt.Sprintf("entry %d: %s %q is not lowercase", i, key, s))
		}
	}

	v, _ := field(obj, "rating")
	if r, ok := v.(float64); ok && !validation.InRange(r) {
		warnings = append(warnings, fmt.Sprintf("entry %d: rating %s outside %d-%d", i, models.FormatRating(r), validation.MinRating, validation.MaxRating))
	}
	return warnings
}

// field looks up name the way the decoder does, ignoring key case. An exact
// match wins over a case-folded one.
func field(obj map[string]any, name string) (any, bool) {
	if v, ok := obj[name]; ok {
		return v, true
	}
	for key, v := range obj {
		if strings.EqualFold(key, name) {
			return v, true
		}
	}
	return nil, false
}

func isField(key string) bool {
	for _, f := range models.FieldNames {
		if strings.EqualFold(f, key) {
			return true
		}
	}
	return false
}
